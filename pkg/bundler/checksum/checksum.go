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

package checksum

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// FileName is the name of the checksums file written into a bundle.
const FileName = "checksums.txt"

// Generate writes FileName into bundleDir with the SHA256 of every file,
// keyed by its slash-separated path relative to bundleDir and sorted by that
// path. It returns the path of the written file.
func Generate(ctx context.Context, bundleDir string, files []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeTimeout, "checksum generation cancelled", err)
	}

	lines := make([]string, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return "", errors.Wrap(errors.ErrCodeTimeout, "checksum generation cancelled", err)
		}
		sum, err := Sum(file)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(bundleDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", errors.NewWithContext(errors.ErrCodeInternal,
				fmt.Sprintf("file '%s' is outside the bundle directory", file),
				map[string]any{"dir": bundleDir})
		}
		lines = append(lines, sum+"  "+filepath.ToSlash(rel))
	}
	// sort on the path column
	sort.Slice(lines, func(i, j int) bool { return lines[i][66:] < lines[j][66:] })

	path := Path(bundleDir)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to write checksums", err,
			map[string]any{"path": path})
	}

	slog.Debug("checksums generated",
		"file_count", len(lines),
		"path", path,
	)
	return path, nil
}

// Sum returns the hex SHA256 of file.
func Sum(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to read '%s' for checksum", file), err,
			map[string]any{"path": file})
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to read '%s' for checksum", file), err,
			map[string]any{"path": file})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks every entry of the checksums file in bundleDir and returns
// the relative paths whose content no longer matches.
func Verify(bundleDir string) ([]string, error) {
	path := Path(bundleDir)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to open checksums", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	var mismatched []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		want, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("malformed checksum line %q", line),
				map[string]any{"path": path})
		}
		got, err := Sum(filepath.Join(bundleDir, filepath.FromSlash(rel)))
		if err != nil || got != want {
			mismatched = append(mismatched, rel)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read checksums", err,
			map[string]any{"path": path})
	}
	return mismatched, nil
}

// Path returns the checksums file path in bundleDir.
func Path(bundleDir string) string {
	return filepath.Join(bundleDir, FileName)
}
