// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundler

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/checksum"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/config"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/extraconfig"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/part"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/publisher"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
	"github.com/NVIDIA/cics-bundle-go/pkg/version"
)

// Messages reported by Make.
const (
	MsgBadVersion         = "Bad project version number"
	MsgFailedResolution   = "Failed to resolve bundle dependencies"
	MsgNoDependencies     = "Warning, no dependencies resolved for the bundle"
	MsgFailedDelete       = "Unable to delete CICS bundle output directory"
	MsgOutsideBuildDir    = "CICS bundle output directory must be directly inside the build directory"
	MsgFailedPublish      = "Failed to publish CICS bundle"
	MsgFailedExtraConfig  = "Failed to register extra configuration"
	msgUnsupportedPrefix  = "Unsupported file extensions for some dependencies, see earlier messages. Supported extensions are: "
	msgChecksumsFileOwner = "the checksums file"
)

// MsgUnsupportedExtensions is reported after every offending dependency has
// been logged.
var MsgUnsupportedExtensions = msgUnsupportedPrefix +
	"[" + strings.Join(part.SupportedExtensions(), ", ") + "]."

// DefaultBundler assembles CICS bundle directories from projects.
//
// Make runs one pipeline to completion:
//
//	resolve dependencies -> check extensions -> bind parts
//	    -> collect static resources -> publish
//
// Every failure aborts the run. The only non-fatal path is a project without
// dependencies, which is logged as a warning.
//
// Thread-safety: DefaultBundler holds no per-run state, but two concurrent
// Make calls for the same project race on the output directory.
type DefaultBundler struct {
	// Config provides assembler settings that are not part of the project.
	Config *config.Config
}

// Option defines a functional option for configuring DefaultBundler.
type Option func(*DefaultBundler)

// WithConfig sets the bundler configuration.
func WithConfig(cfg *config.Config) Option {
	return func(db *DefaultBundler) {
		if cfg != nil {
			db.Config = cfg
		}
	}
}

// New creates a new DefaultBundler with the given options.
//
// Example:
//
//	b, err := bundler.New(
//	    bundler.WithConfig(config.NewConfig(
//	        config.WithDefaultJVMServer(p.JVMServer()),
//	    )),
//	)
func New(opts ...Option) (*DefaultBundler, error) {
	db := &DefaultBundler{
		Config: config.NewConfig(),
	}

	for _, opt := range opts {
		opt(db)
	}

	if err := db.Config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "invalid bundler configuration", err)
	}

	return db, nil
}

// NewWithConfig creates a new DefaultBundler with the given config.
// This is a convenience function equivalent to New(WithConfig(cfg)).
func NewWithConfig(cfg *config.Config) (*DefaultBundler, error) {
	return New(WithConfig(cfg))
}

// Make builds the bundle directory of p, replacing any previous one, and
// returns a summary of what was written.
func (b *DefaultBundler) Make(ctx context.Context, p *project.Project) (*result.Output, error) {
	start := time.Now()

	out, err := b.make(ctx, p)

	status := "success"
	if err != nil {
		status = "failure"
	}
	buildsTotal.WithLabelValues(status).Inc()
	buildDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	out.TotalDuration = time.Since(start)

	slog.Debug("bundle build complete",
		"bundle", out.BundleID,
		"parts", len(out.Parts),
		"static", len(out.StaticResources),
		"files", out.TotalFiles(),
		"size_bytes", out.TotalSize,
		"duration", out.TotalDuration,
	)
	return out, nil
}

func (b *DefaultBundler) make(ctx context.Context, p *project.Project) (*result.Output, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "project cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "build cancelled", err)
	}

	v, err := version.ParseVersion(p.Version)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig, MsgBadVersion, err,
			map[string]any{"version": p.Version})
	}

	dir := p.OutputDir()
	slog.Info("building CICS bundle",
		"bundle", p.Name,
		"version", p.Version,
		"output_dir", dir,
	)

	if filepath.Dir(dir) != p.BuildPath() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("%s: %s", MsgOutsideBuildDir, dir),
			map[string]any{"dir": dir, "build_dir": p.BuildPath()})
	}

	if err := os.RemoveAll(dir); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("%s %s", MsgFailedDelete, dir), err,
			map[string]any{"dir": dir})
	}

	res := resolver.New(p.Dir, p.Repositories, b.Config.ResolverOptions()...)

	registry, err := b.registerExtraConfig(ctx, res, p)
	if err != nil {
		return nil, err
	}

	artifacts, err := res.ResolveAll(ctx, p.Dependencies)
	if err != nil {
		return nil, errors.Wrap(codeOr(err, errors.ErrCodeResolution), MsgFailedResolution, err)
	}

	if len(artifacts) == 0 {
		slog.Warn(MsgNoDependencies)
	} else if err := checkExtensions(artifacts); err != nil {
		return nil, err
	}

	pub := publisher.New(dir, p.Name, v, publisher.WithTimestamp(b.Config.Timestamp()))
	if b.Config.IncludeChecksums() {
		if err := pub.Reserve(checksum.FileName, msgChecksumsFileOwner); err != nil {
			return nil, err
		}
	}

	out := &result.Output{
		BundleID:        p.Name,
		Version:         p.Version,
		OutputDir:       dir,
		Parts:           make([]result.Part, 0, len(artifacts)),
		StaticResources: []string{},
	}

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "build cancelled", err)
		}
		slog.Info(fmt.Sprintf("Resolved '%s' to file: '%s'", a.Name, a.Path))

		pt, err := b.addPart(pub, registry, a)
		if err != nil {
			return nil, errors.WrapWithContext(codeOr(err, errors.ErrCodeInternal),
				fmt.Sprintf("Error adding bundle resource for artifact '%s'", a.Name), err,
				map[string]any{"artifact": a.Name, "file": a.Path})
		}
		out.Parts = append(out.Parts, pt)
	}

	statics, err := b.addStaticResources(ctx, pub, p)
	if err != nil {
		return nil, err
	}
	out.StaticResources = statics

	files, err := pub.Publish(ctx)
	if err != nil {
		return nil, errors.Wrap(codeOr(err, errors.ErrCodeIO), MsgFailedPublish, err)
	}

	if b.Config.IncludeChecksums() {
		sums, err := checksum.Generate(ctx, dir, files)
		if err != nil {
			return nil, err
		}
		out.Checksums = sums
		files = append(files, sums)
	}

	rel, size, err := relFiles(dir, files)
	if err != nil {
		return nil, err
	}
	out.Files, out.TotalSize = rel, size
	return out, nil
}

// registerExtraConfig registers every extraConfig block of p. Each block is
// resolved on its own before the main resolution runs.
func (b *DefaultBundler) registerExtraConfig(ctx context.Context, res extraconfig.Resolver, p *project.Project) (*extraconfig.Registry, error) {
	registry := extraconfig.NewRegistry(res)
	for i := range p.ExtraConfig {
		ec := &p.ExtraConfig[i]
		kind, err := part.ParseKind(ec.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, MsgFailedExtraConfig, err)
		}
		if _, err := registry.Register(ctx, ec.Dependency, kind, &ec.Config); err != nil {
			return nil, errors.WrapWithContext(codeOr(err, errors.ErrCodeInvalidConfig),
				MsgFailedExtraConfig, err,
				map[string]any{"dependency": ec.Dependency.String()})
		}
	}
	return registry, nil
}

// checkExtensions logs every artifact whose extension cannot be bound and
// then fails once.
func checkExtensions(artifacts []resolver.Artifact) error {
	var problems []error
	for _, a := range artifacts {
		if err := part.CheckExtension(a); err != nil {
			slog.Error(messageOf(err), "file", a.Path)
			problems = append(problems, err)
		}
	}
	if len(problems) == 0 {
		return nil
	}

	files := make([]string, 0, len(problems))
	for _, a := range artifacts {
		if part.CheckExtension(a) != nil {
			files = append(files, a.FileName())
		}
	}
	return errors.WrapWithContext(errors.ErrCodeResolution, MsgUnsupportedExtensions,
		stderrors.Join(problems...),
		map[string]any{"files": files})
}

// addPart binds a, preferring its extra configuration, and adds it to pub.
func (b *DefaultBundler) addPart(pub *publisher.Publisher, registry *extraconfig.Registry, a resolver.Artifact) (result.Part, error) {
	var (
		binding part.Binding
		err     error
	)
	if entry, ok := registry.Lookup(a.FileName()); ok {
		slog.Debug("using extra configuration", "file", a.FileName(), "kind", string(entry.Kind))
		binding, err = entry.Bind(a)
	} else {
		binding, err = part.ForExtension(a.Extension, a)
	}
	if err != nil {
		return result.Part{}, err
	}

	if err := binding.ApplyDefaults(b.Config.DefaultJVMServer()); err != nil {
		return result.Part{}, err
	}
	r, err := binding.ToBundlePart()
	if err != nil {
		return result.Part{}, err
	}
	if err := pub.AddResource(r); err != nil {
		return result.Part{}, err
	}

	bundlePartsTotal.WithLabelValues(string(binding.Kind())).Inc()
	return result.Part{
		Name:       binding.Name(),
		Kind:       string(binding.Kind()),
		JVMServer:  binding.JVMServer(),
		Source:     a.Path,
		Descriptor: r.DescriptorPath,
	}, nil
}

// messageOf returns the message of the outermost structured error, without
// its code and cause.
func messageOf(err error) string {
	var se *errors.StructuredError
	if stderrors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// codeOr returns the code of err, or fallback when err carries none.
func codeOr(err error, fallback errors.ErrorCode) errors.ErrorCode {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return fallback
}

// relFiles converts absolute paths under dir to sorted slash paths.
func relFiles(dir string, files []string) ([]string, int64, error) {
	rel := make([]string, 0, len(files))
	var size int64
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, 0, errors.WrapWithContext(errors.ErrCodeIO, "failed to stat bundle file", err,
				map[string]any{"path": f})
		}
		size += info.Size()
		r, err := filepath.Rel(dir, f)
		if err != nil {
			return nil, 0, errors.Wrap(errors.ErrCodeInternal, "bundle file outside output directory", err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel, size, nil
}
