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

package archive

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Result describes a written archive.
type Result struct {
	// Path is the archive file.
	Path string `json:"path" yaml:"path"`

	// Size is the archive size in bytes.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Entries is the number of file and directory entries.
	Entries int `json:"entries" yaml:"entries"`

	// Digest is the sha256 of the archive, "sha256:<hex>".
	Digest string `json:"digest" yaml:"digest"`
}

type options struct {
	modTime time.Time
}

// Option configures Zip.
type Option func(*options)

// WithModTime sets the modification time of every entry.
func WithModTime(t time.Time) Option {
	return func(o *options) {
		o.modTime = t
	}
}

// Zip writes every file and directory under dir into the zip archive
// target. Entries are sorted, named with NFC-normalized UTF-8 slash paths
// relative to dir, and share one modification time, so the same tree always
// yields the same bytes. The time defaults to SOURCE_DATE_EPOCH, else
// defaults.FallbackArchiveTime.
func Zip(ctx context.Context, dir, target string, opts ...Option) (*Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.modTime.IsZero() {
		if t, ok := defaults.SourceDateEpoch(); ok {
			o.modTime = t
		} else {
			o.modTime = defaults.FallbackArchiveTime
		}
	}
	if o.modTime.Before(defaults.FallbackArchiveTime) {
		o.modTime = defaults.FallbackArchiveTime
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("bundle directory '%s' cannot be read", dir), err,
			map[string]any{"dir": dir})
	}
	if !info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeIO,
			fmt.Sprintf("bundle path '%s' is not a directory", dir),
			map[string]any{"dir": dir})
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create archive directory", err,
			map[string]any{"dir": filepath.Dir(target)})
	}

	// write next to the target and rename, so target is never half written
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to create archive", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	entries, err := write(ctx, tmp, dir, []string{target, tmpName}, o.modTime)
	closeErr := tmp.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to write archive", closeErr,
			map[string]any{"path": target})
	}
	if err := os.Rename(tmpName, target); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to move archive into place", err,
			map[string]any{"path": target})
	}

	size, digest, err := digestOf(target)
	if err != nil {
		return nil, err
	}
	archiveBytes.Observe(float64(size))

	slog.Info("bundle archive written",
		"path", target,
		"entries", entries,
		"size_bytes", size,
	)

	return &Result{Path: target, Size: size, Entries: entries, Digest: digest}, nil
}

// write zips dir into w, leaving out the paths in skip.
func write(ctx context.Context, w io.Writer, dir string, skip []string, modTime time.Time) (int, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		abs, _ := filepath.Abs(s)
		skipped[abs] = true
	}
	zw := zip.NewWriter(w)
	entries := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if abs, _ := filepath.Abs(path); skipped[abs] {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		hdr := &zip.FileHeader{
			Name:     norm.NFC.String(filepath.ToSlash(rel)),
			Modified: modTime,
		}

		if d.IsDir() {
			hdr.Name += "/"
			hdr.SetMode(fs.ModeDir | 0o755)
			if _, err := zw.CreateHeader(hdr); err != nil {
				return err
			}
			entries++
			return nil
		}

		hdr.Method = zip.Deflate
		hdr.SetMode(0o644)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		entries++
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, errors.Wrap(errors.ErrCodeTimeout, "archive cancelled", ctxErr)
		}
		var se *errors.StructuredError
		if stderrors.As(err, &se) {
			return 0, err
		}
		return 0, errors.WrapWithContext(errors.ErrCodeIO, "failed to archive bundle directory", err,
			map[string]any{"dir": dir})
	}

	if err := zw.Close(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, "failed to finish archive", err)
	}
	return entries, nil
}

func digestOf(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", errors.WrapWithContext(errors.ErrCodeIO, "failed to read archive", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", errors.WrapWithContext(errors.ErrCodeIO, "failed to read archive", err,
			map[string]any{"path": path})
	}
	return n, "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
