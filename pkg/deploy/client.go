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

package deploy

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

const (
	// Endpoint is appended to Config.URL.
	Endpoint = "/managedcicsbundles"

	// DefaultUserAgent is sent with every deploy request.
	DefaultUserAgent = "cbundle-deploy/1.0"

	// HeaderRequestID carries a per-request id for correlating server logs.
	HeaderRequestID = "X-Request-ID"

	// maxErrorBody caps how much of an error response is surfaced.
	maxErrorBody = 64 * 1024
)

// Multipart form field names.
const (
	FieldBundle   = "bundle"
	FieldBunddef  = "bunddef"
	FieldCSDGroup = "csdgroup"
	FieldCICSplex = "cicsplex"
	FieldRegion   = "region"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The Insecure setting of the
// deploy configuration is then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// Client deploys bundle archives to a CICS CMCI endpoint. Every call sends
// exactly one request and never retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result describes a successful deploy.
type Result struct {
	RequestID string        `json:"request_id" yaml:"request_id"`
	Status    int           `json:"status" yaml:"status"`
	Message   string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// newHTTPClient has no total timeout: the server installs the bundle
// before it responds.
func newHTTPClient(insecure bool) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaults.DeployConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.DeployTLSHandshakeTimeout,
			ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: insecure, //nolint:gosec // user opted in with insecure: true
			},
		},
	}
}

// Deploy validates cfg and posts archive to the endpoint.
func (c *Client) Deploy(ctx context.Context, archive string, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.deploy(ctx, archive, cfg)
	status := "success"
	if err != nil {
		status = "failure"
	}
	deploysTotal.WithLabelValues(status).Inc()
	deployDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (c *Client) deploy(ctx context.Context, archive string, cfg Config) (*Result, error) {
	body, err := newForm(archive, cfg)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(cfg.URL, "/") + Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		body.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid deploy url '%s'", cfg.URL), err,
			map[string]any{"url": cfg.URL})
	}
	req.ContentLength = body.size

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", body.contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.SetBasicAuth(cfg.Username, cfg.Password)

	client := c.httpClient
	if client == nil {
		client = newHTTPClient(cfg.Insecure)
	}

	slog.Info("deploying bundle",
		"url", url,
		"bunddef", cfg.BundDef,
		"csdgroup", cfg.CSDGroup,
		"cicsplex", cfg.CICSplex,
		"region", cfg.Region,
		"request_id", requestID,
	)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "deploy cancelled", err)
		}
		return nil, errors.WrapWithContext(errors.ErrCodeRemote,
			fmt.Sprintf("deploy request to '%s' failed", url), err,
			map[string]any{"url": url, "request_id": requestID})
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := responseMessage(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code := errors.ErrCodeRemote
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			code = errors.ErrCodeUnauthorized
		}
		if message == "" {
			message = resp.Status
		}
		return nil, errors.NewWithContext(code,
			fmt.Sprintf("deploy failed with status %d: %s", resp.StatusCode, message),
			map[string]any{"url": url, "status": resp.StatusCode, "request_id": requestID})
	}

	slog.Info("bundle deployed", "bunddef", cfg.BundDef, "status", resp.StatusCode, "message", message)

	return &Result{
		RequestID: requestID,
		Status:    resp.StatusCode,
		Message:   message,
	}, nil
}

// form is a multipart request body that streams the archive from disk.
// The form fields and the file part header are rendered up front so the
// total length is known before sending.
type form struct {
	io.Reader
	file        *os.File
	size        int64
	contentType string
}

func (f *form) Close() error {
	return f.file.Close()
}

// switchWriter lets the multipart writer render its closing boundary into a
// different buffer than the part headers.
type switchWriter struct {
	w io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// newForm opens archive and returns the multipart request body. The caller
// closes it.
func newForm(archive string, cfg Config) (*form, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to open bundle archive '%s'", archive), err,
			map[string]any{"path": archive})
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to read bundle archive '%s'", archive), err,
			map[string]any{"path": archive})
	}

	var head, tail bytes.Buffer
	sw := &switchWriter{w: &head}
	w := multipart.NewWriter(sw)

	fields := [][2]string{
		{FieldBunddef, cfg.BundDef},
		{FieldCSDGroup, cfg.CSDGroup},
	}
	if cfg.CICSplex != "" {
		fields = append(fields, [2]string{FieldCICSplex, cfg.CICSplex}, [2]string{FieldRegion, cfg.Region})
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			f.Close()
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to write multipart field", err)
		}
	}
	if _, err := w.CreateFormFile(FieldBundle, filepath.Base(archive)); err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create multipart form", err)
	}

	sw.w = &tail
	if err := w.Close(); err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to close multipart form", err)
	}

	return &form{
		Reader:      io.MultiReader(&head, f, &tail),
		file:        f,
		size:        int64(head.Len()) + info.Size() + int64(tail.Len()),
		contentType: w.FormDataContentType(),
	}, nil
}

// responseMessage extracts the "message" of a JSON response, falling back
// to the trimmed raw body.
func responseMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}
