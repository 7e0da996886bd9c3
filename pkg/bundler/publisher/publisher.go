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

package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/version"
)

// Option configures a Publisher.
type Option func(*Publisher)

// WithTimestamp sets the timestamp written into cics.xml.
func WithTimestamp(t time.Time) Option {
	return func(p *Publisher) {
		p.timestamp = t
	}
}

type staticResource struct {
	rel    string
	source string
}

// Publisher collects bundle resources and writes them to a directory.
type Publisher struct {
	dir       string
	id        string
	version   version.Version
	timestamp time.Time

	resources []Resource
	statics   []staticResource

	// owners maps every claimed bundle-relative path to what claimed it.
	owners map[string]string
}

// New creates a Publisher writing the bundle id at version v into dir.
func New(dir, id string, v version.Version, opts ...Option) *Publisher {
	p := &Publisher{
		dir:     dir,
		id:      id,
		version: v,
		owners:  map[string]string{ManifestPath: "the bundle manifest"},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.timestamp.IsZero() {
		p.timestamp = time.Now()
	}
	return p
}

// Dir returns the output directory.
func (p *Publisher) Dir() string {
	return p.dir
}

// cleanRel normalizes a bundle-relative path and rejects paths escaping the
// bundle.
func cleanRel(rel string) (string, error) {
	clean := path.Clean(filepath.ToSlash(rel))
	if rel == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid bundle path '%s'", rel),
			map[string]any{"path": rel})
	}
	return clean, nil
}

func (p *Publisher) claim(rel, owner string) error {
	if prev, ok := p.owners[rel]; ok {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("'%s' conflicts with %s at bundle path '%s'", owner, prev, rel),
			map[string]any{"path": rel})
	}
	// a file cannot also be a directory of another claimed file
	for other := range p.owners {
		if strings.HasPrefix(other, rel+"/") || strings.HasPrefix(rel, other+"/") {
			return errors.NewWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("'%s' conflicts with %s at bundle path '%s'", owner, p.owners[other], other),
				map[string]any{"path": rel})
		}
	}
	p.owners[rel] = owner
	return nil
}

// Reserve claims rel for a file written by someone else after Publish, so
// that no resource can be added at that path.
func (p *Publisher) Reserve(rel, owner string) error {
	clean, err := cleanRel(rel)
	if err != nil {
		return err
	}
	return p.claim(clean, owner)
}

// AddResource adds a generated bundle part.
func (p *Publisher) AddResource(r Resource) error {
	if r.Name == "" || r.Type == "" {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"bundle part requires a name and a type",
			map[string]any{"name": r.Name, "type": r.Type})
	}

	desc, err := cleanRel(r.DescriptorPath)
	if err != nil {
		return err
	}
	r.DescriptorPath = desc

	owner := fmt.Sprintf("bundle part '%s'", r.Name)
	if r.Binary != "" {
		bin, binErr := cleanRel(r.BinaryPath)
		if binErr != nil {
			return binErr
		}
		r.BinaryPath = bin
		if bin == desc {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("bundle part '%s' uses the same path for its descriptor and binary", r.Name),
				map[string]any{"path": bin})
		}
	}

	if err := p.claim(desc, owner); err != nil {
		return err
	}
	if r.Binary != "" {
		if err := p.claim(r.BinaryPath, owner); err != nil {
			delete(p.owners, desc)
			return err
		}
	}

	p.resources = append(p.resources, r)
	return nil
}

// AddStaticResource adds the file source at the bundle-relative path rel.
func (p *Publisher) AddStaticResource(rel, source string) error {
	clean, err := cleanRel(rel)
	if err != nil {
		return err
	}
	if err := p.claim(clean, fmt.Sprintf("static resource '%s'", clean)); err != nil {
		return err
	}
	p.statics = append(p.statics, staticResource{rel: clean, source: source})
	return nil
}

// Resources returns the generated bundle parts added so far.
func (p *Publisher) Resources() []Resource {
	out := make([]Resource, len(p.resources))
	copy(out, p.resources)
	return out
}

// StaticResources returns the bundle-relative paths of static resources.
func (p *Publisher) StaticResources() []string {
	out := make([]string, 0, len(p.statics))
	for _, s := range p.statics {
		out = append(out, s.rel)
	}
	return out
}

// Defines returns the manifest entries: one per bundle part and one per
// static resource of a known CICS type.
func (p *Publisher) Defines() []Define {
	defines := make([]Define, 0, len(p.resources)+len(p.statics))
	for _, r := range p.resources {
		defines = append(defines, Define{Name: r.Name, Type: r.Type, Path: r.DescriptorPath})
	}
	for _, s := range p.statics {
		typ := StaticResourceType(s.rel)
		if typ == "" {
			continue
		}
		base := path.Base(s.rel)
		defines = append(defines, Define{
			Name: strings.TrimSuffix(base, path.Ext(base)),
			Type: typ,
			Path: s.rel,
		})
	}
	return defines
}

// Publish writes every resource and the manifest. It returns the absolute
// paths of the written files, sorted.
func (p *Publisher) Publish(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create bundle directory", err, map[string]any{"dir": p.dir})
	}

	var files []string

	for _, r := range p.resources {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "publish cancelled", err)
		}
		f, err := p.write(r.DescriptorPath, r.Descriptor)
		if err != nil {
			return nil, err
		}
		files = append(files, f)

		if r.Binary == "" {
			continue
		}
		f, err = p.copy(r.BinaryPath, r.Binary)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for _, s := range p.statics {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "publish cancelled", err)
		}
		f, err := p.copy(s.rel, s.source)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	content, err := renderManifest(p.id, p.version, p.timestamp, p.Defines())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to render bundle manifest", err)
	}
	f, err := p.write(ManifestPath, content)
	if err != nil {
		return nil, err
	}
	files = append(files, f)

	sort.Strings(files)

	slog.Debug("bundle published",
		"dir", p.dir,
		"parts", len(p.resources),
		"static", len(p.statics),
		"files", len(files),
	)

	return files, nil
}

func (p *Publisher) target(rel string) (string, error) {
	dst := filepath.Join(p.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create directory", err, map[string]any{"dir": filepath.Dir(dst)})
	}
	return dst, nil
}

func (p *Publisher) write(rel string, content []byte) (string, error) {
	dst, err := p.target(rel)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, content, 0o644); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to write '%s'", rel), err, map[string]any{"path": dst})
	}
	return dst, nil
}

func (p *Publisher) copy(rel, source string) (string, error) {
	dst, err := p.target(rel)
	if err != nil {
		return "", err
	}

	in, err := os.Open(source)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to open '%s'", source), err, map[string]any{"path": source})
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to create '%s'", rel), err, map[string]any{"path": dst})
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to copy '%s'", source), err, map[string]any{"path": dst})
	}
	if err := out.Close(); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to write '%s'", rel), err, map[string]any{"path": dst})
	}
	return dst, nil
}
