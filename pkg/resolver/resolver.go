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

package resolver

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Repositories configures where Maven coordinates are looked up.
type Repositories struct {
	// Local is the local repository root. Defaults to ~/.m2/repository.
	Local string `json:"local,omitempty" yaml:"local,omitempty"`

	// Remote lists repository base URLs tried in order when an artifact is
	// missing locally.
	Remote []string `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for remote repositories.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithUserAgent sets the User-Agent sent to remote repositories.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// Resolver resolves dependencies relative to a project directory.
type Resolver struct {
	baseDir   string
	local     string
	remote    []string
	client    *http.Client
	userAgent string
}

// New creates a Resolver for the project rooted at baseDir.
func New(baseDir string, repos Repositories, opts ...Option) *Resolver {
	r := &Resolver{
		baseDir:   baseDir,
		local:     repos.Local,
		remote:    repos.Remote,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.local == "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.local = filepath.Join(home, defaults.LocalRepository)
		}
	} else if strings.HasPrefix(r.local, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			r.local = filepath.Join(home, r.local[2:])
		}
	}
	if r.client == nil {
		r.client = newHTTPClient()
	}
	return r
}

// LocalRepository returns the resolved local repository root.
func (r *Resolver) LocalRepository() string {
	return r.local
}

// ResolveAll resolves every dependency in declaration order. The first
// failure aborts resolution.
func (r *Resolver) ResolveAll(ctx context.Context, deps []Dependency) ([]Artifact, error) {
	var out []Artifact
	for _, dep := range deps {
		arts, err := r.Resolve(ctx, dep)
		if err != nil {
			return nil, err
		}
		out = append(out, arts...)
	}
	return out, nil
}

// Resolve resolves one dependency. A glob may yield several artifacts; a
// plain path or coordinate yields exactly one.
func (r *Resolver) Resolve(ctx context.Context, dep Dependency) ([]Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "resolution cancelled", err)
	}
	if err := dep.Validate(); err != nil {
		return nil, err
	}

	if dep.Coordinate != "" {
		c, err := ParseCoordinate(dep.Coordinate)
		if err != nil {
			return nil, err
		}
		file, err := r.resolveCoordinate(ctx, c)
		if err != nil {
			return nil, err
		}
		name := dep.Name
		if name == "" {
			name = c.ArtifactID
		}
		return []Artifact{NewArtifact(file, name)}, nil
	}

	files, err := r.resolvePath(dep.Path)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, len(files))
	for _, f := range files {
		out = append(out, NewArtifact(f, dep.Name))
	}
	return out, nil
}

func isPattern(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func (r *Resolver) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.baseDir, p)
}

// resolvePath returns the absolute file paths matching p.
func (r *Resolver) resolvePath(p string) ([]string, error) {
	if !isPattern(p) {
		file := r.abs(p)
		info, err := os.Stat(file)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeResolution,
				fmt.Sprintf("dependency file '%s' not found", p), err,
				map[string]any{"path": file})
		}
		if info.IsDir() {
			return nil, errors.NewWithContext(errors.ErrCodeResolution,
				fmt.Sprintf("dependency path '%s' is a directory", p),
				map[string]any{"path": file})
		}
		return []string{file}, nil
	}

	pattern := filepath.ToSlash(p)
	root := r.baseDir
	if filepath.IsAbs(p) {
		root = "/"
		pattern = strings.TrimPrefix(pattern, "/")
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid dependency pattern '%s'", p), err,
			map[string]any{"pattern": p})
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if g.Match(filepath.ToSlash(rel)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeResolution,
			fmt.Sprintf("failed to search for dependency pattern '%s'", p), err,
			map[string]any{"root": root})
	}
	if len(matches) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeResolution,
			fmt.Sprintf("no files match dependency pattern '%s'", p),
			map[string]any{"root": root})
	}

	slog.Debug("dependency pattern matched", "pattern", p, "count", len(matches))
	return matches, nil
}

// resolveCoordinate returns the local repository file for c, downloading it
// from the first remote repository that has it.
func (r *Resolver) resolveCoordinate(ctx context.Context, c Coordinate) (string, error) {
	if r.local == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig,
			"no local repository configured and home directory is unknown")
	}

	file := filepath.Join(r.local, filepath.FromSlash(c.RepositoryPath()))
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		slog.Debug("artifact found in local repository", "coordinate", c.String(), "file", file)
		return file, nil
	}

	for _, base := range r.remote {
		err := r.download(ctx, base, c, file)
		if err == nil {
			return file, nil
		}
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			slog.Debug("artifact not in remote repository", "coordinate", c.String(), "repository", base)
			continue
		}
		return "", err
	}

	return "", errors.NewWithContext(errors.ErrCodeResolution,
		fmt.Sprintf("could not find artifact '%s'", c),
		map[string]any{"local": r.local, "remote": r.remote})
}
