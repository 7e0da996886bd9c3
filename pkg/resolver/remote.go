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
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// DefaultUserAgent is sent to remote repositories.
const DefaultUserAgent = "cbundle-resolver/1.0"

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaults.ArtifactDownloadTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			ForceAttemptHTTP2:     true,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// download fetches c from the repository at base into file. A missing
// artifact yields an ErrCodeNotFound error so the caller can try the next
// repository.
func (r *Resolver) download(ctx context.Context, base string, c Coordinate, file string) error {
	url := strings.TrimSuffix(base, "/") + "/" + c.RepositoryPath()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid repository url '%s'", base), err,
			map[string]any{"url": url})
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	slog.Info("downloading artifact", "coordinate", c.String(), "url", url)

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeRemote,
			fmt.Sprintf("failed to download '%s'", c), err,
			map[string]any{"url": url})
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("artifact '%s' not found", c),
			map[string]any{"url": url})
	case resp.StatusCode != http.StatusOK:
		return errors.NewWithContext(errors.ErrCodeRemote,
			fmt.Sprintf("failed to download '%s': status %s", c, resp.Status),
			map[string]any{"url": url, "status": resp.StatusCode})
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			"failed to create local repository directory", err,
			map[string]any{"path": filepath.Dir(file)})
	}

	// the local repository never holds a partially written artifact
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to create temporary download file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return errors.WrapWithContext(errors.ErrCodeRemote,
			fmt.Sprintf("failed to read '%s'", c), copyErr,
			map[string]any{"url": url})
	}
	if closeErr != nil {
		return errors.Wrap(errors.ErrCodeIO, "failed to write downloaded artifact", closeErr)
	}
	if err := os.Rename(tmpName, file); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			"failed to move downloaded artifact into local repository", err,
			map[string]any{"path": file})
	}

	slog.Debug("artifact downloaded", "coordinate", c.String(), "bytes", n, "file", file)
	return nil
}
