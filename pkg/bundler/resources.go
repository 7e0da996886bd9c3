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
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/publisher"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

// progressInterval throttles progress logs while walking large resource trees.
const progressInterval = 2 * time.Second

// resourcesDir returns the static resources directory and whether it was
// set explicitly. The assembler configuration wins over the project.
func (b *DefaultBundler) resourcesDir(p *project.Project) (string, bool) {
	if dir := b.Config.ResourcesDir(); dir != "" {
		return p.Path(dir), true
	}
	return p.ResourcesPath()
}

// addStaticResources adds every file under the resources directory at its
// path relative to that directory. It returns the added bundle paths.
func (b *DefaultBundler) addStaticResources(ctx context.Context, pub *publisher.Publisher, p *project.Project) ([]string, error) {
	root, explicit := b.resourcesDir(p)

	info, err := os.Stat(root)
	switch {
	case err != nil && stderrors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Info(fmt.Sprintf("No resources folder '%s' to search for bundle parts", root))
		return []string{}, nil
	case err != nil && stderrors.Is(err, fs.ErrNotExist):
		return nil, notADirectory(root)
	case err != nil:
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to read resources folder '%s'", root), err,
			map[string]any{"dir": root})
	case !info.IsDir():
		return nil, notADirectory(root)
	}

	patterns := append(append([]string{}, p.ResourceExcludes...), b.Config.ResourceExcludes()...)
	excludes, err := compileExcludes(patterns)
	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("Adding bundle parts from '%s'", root))

	progress := rate.Sometimes{Interval: progressInterval}
	added := []string{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr != nil {
				return statErr
			}
			if target.IsDir() {
				slog.Debug("skipping symlinked directory", "path", path)
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if excluded(excludes, rel) {
			slog.Debug("excluding static resource", "path", rel)
			return nil
		}

		slog.Info(fmt.Sprintf("Adding bundle part '%s'", d.Name()))
		if err := pub.AddStaticResource(rel, path); err != nil {
			return errors.WrapWithContext(codeOr(err, errors.ErrCodeInvalidConfig),
				fmt.Sprintf("Failure adding bundle part '%s'", d.Name()), err,
				map[string]any{"path": rel})
		}
		added = append(added, rel)
		staticResourcesTotal.Inc()

		progress.Do(func() {
			slog.Debug("collecting static resources", "count", len(added), "last", rel)
		})
		return nil
	})
	if err != nil {
		var se *errors.StructuredError
		if stderrors.As(err, &se) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "build cancelled", ctxErr)
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "Failure adding bundle parts", err,
			map[string]any{"dir": root})
	}
	return added, nil
}

func notADirectory(dir string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidConfig,
		fmt.Sprintf("Resources folder path '%s' is not a directory", dir),
		map[string]any{"dir": dir})
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid resource exclude pattern '%s'", p), err,
				map[string]any{"pattern": p})
		}
		out = append(out, g)
	}
	return out, nil
}

func excluded(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
