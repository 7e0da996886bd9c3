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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

func validConfig(url string) Config {
	return Config{
		URL:      url,
		BundDef:  "MYDEF",
		CSDGroup: "MYGROUP",
		CICSplex: "MYPLEX",
		Region:   "MYREGION",
		Username: "user",
		Password: "secret",
		Insecure: true,
	}
}

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "my-bundle-1.0.0.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK-archive"), 0o600))
	return path
}

func TestConfig_Problems(t *testing.T) {
	full := validConfig("https://example.com")

	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{"complete", func(*Config) {}, nil},
		{"no plex and no region", func(c *Config) { c.CICSplex, c.Region = "", "" }, nil},
		{"plex without region", func(c *Config) { c.Region = "" }, []string{MsgMissingRegion}},
		{"region without plex", func(c *Config) { c.CICSplex = "" }, []string{MsgMissingCICSplex}},
		{"everything empty", func(c *Config) { *c = Config{} }, []string{MsgMissingConfig}},
		{"missing credentials", func(c *Config) { c.Username, c.Password = "", "" },
			[]string{MsgMissingUsername, MsgMissingPassword}},
		{"batched", func(c *Config) { c.BundDef, c.CSDGroup, c.URL, c.Region = "", "", "", "" },
			[]string{MsgMissingRegion, MsgMissingBunddef, MsgMissingCSDGroup, MsgMissingURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			assert.Equal(t, tt.want, cfg.Problems())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	err := Config{URL: "x", BundDef: "D"}.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
	assert.Contains(t, err.Error(), MsgPleaseSpecify)
	assert.Contains(t, err.Error(), "csdgroup: MYGROUP")

	assert.NoError(t, validConfig("https://example.com").Validate())
}

func TestConfig_PairProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig("https://example.com")
		cfg.CICSplex = rapid.SampledFrom([]string{"", "PLEX"}).Draw(t, "cicsplex")
		cfg.Region = rapid.SampledFrom([]string{"", "REGION"}).Draw(t, "region")

		problems := cfg.Problems()
		asymmetric := (cfg.CICSplex == "") != (cfg.Region == "")
		if asymmetric {
			assert.Len(t, problems, 1)
		} else {
			assert.Empty(t, problems)
		}
	})
}

func TestDeploy(t *testing.T) {
	type received struct {
		path, user, pass, requestID string
		bundle, filename            string
		bunddef, csdgroup           string
		plex, region                string
	}
	var got received

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.user, got.pass, _ = r.BasicAuth()
		got.requestID = r.Header.Get(HeaderRequestID)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		f, hdr, err := r.FormFile(FieldBundle)
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(f)
		got.bundle = string(data)
		got.filename = hdr.Filename
		got.bunddef = r.FormValue(FieldBunddef)
		got.csdgroup = r.FormValue(FieldCSDGroup)
		got.plex = r.FormValue(FieldCICSplex)
		got.region = r.FormValue(FieldRegion)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bundle deployed"})
	}))
	defer srv.Close()

	res, err := NewClient().Deploy(context.Background(), writeArchive(t), validConfig(srv.URL+"/"))
	require.NoError(t, err)

	assert.Equal(t, Endpoint, got.path)
	assert.Equal(t, "user", got.user)
	assert.Equal(t, "secret", got.pass)
	_, err = uuid.Parse(got.requestID)
	assert.NoError(t, err)
	assert.Equal(t, got.requestID, res.RequestID)
	assert.Equal(t, "PK-archive", got.bundle)
	assert.Equal(t, "my-bundle-1.0.0.zip", got.filename)
	assert.Equal(t, "MYDEF", got.bunddef)
	assert.Equal(t, "MYGROUP", got.csdgroup)
	assert.Equal(t, "MYPLEX", got.plex)
	assert.Equal(t, "MYREGION", got.region)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Bundle deployed", res.Message)
}

func TestDeploy_StreamsArchiveWithLength(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "large.zip")
	content := make([]byte, 3<<20)
	for i := range content {
		content[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(archive, content, 0o600))

	var (
		length   int64
		chunked  bool
		received []byte
	)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		length = r.ContentLength
		chunked = len(r.TransferEncoding) > 0
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		f, _, err := r.FormFile(FieldBundle)
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		received, _ = io.ReadAll(f)
	}))
	defer srv.Close()

	_, err := NewClient().Deploy(context.Background(), archive, validConfig(srv.URL))
	require.NoError(t, err)
	assert.False(t, chunked)
	assert.Greater(t, length, int64(len(content)))
	assert.Equal(t, content, received)
}

func TestNewForm_Length(t *testing.T) {
	f, err := newForm(writeArchive(t), validConfig("https://example.com"))
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, f.size, int64(len(data)))
	assert.Contains(t, f.contentType, "multipart/form-data; boundary=")
}

func TestDeploy_NoPlexFieldsWhenUnset(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			form = r.MultipartForm.Value
		}
	}))
	defer srv.Close()

	cfg := validConfig(srv.URL)
	cfg.CICSplex, cfg.Region = "", ""
	_, err := NewClient().Deploy(context.Background(), writeArchive(t), cfg)
	require.NoError(t, err)
	assert.NotContains(t, form, FieldCICSplex)
	assert.NotContains(t, form, FieldRegion)
}

func TestDeploy_ErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.ErrorCode
		wantMsg  string
	}{
		{"json message", http.StatusBadRequest, `{"message":"BUNDLE MYDEF already installed"}`,
			errors.ErrCodeRemote, "BUNDLE MYDEF already installed"},
		{"raw body", http.StatusInternalServerError, "something broke\n",
			errors.ErrCodeRemote, "something broke"},
		{"empty body", http.StatusBadGateway, "", errors.ErrCodeRemote, "502 Bad Gateway"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad credentials"}`,
			errors.ErrCodeUnauthorized, "bad credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient().Deploy(context.Background(), writeArchive(t), validConfig(srv.URL))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, 1, calls, "deploy must not retry")
		})
	}
}

func TestDeploy_VerifiesTLSUnlessInsecure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	cfg := validConfig(srv.URL)
	cfg.Insecure = false
	_, err := NewClient().Deploy(context.Background(), writeArchive(t), cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRemote, errors.CodeOf(err))
}

func TestDeploy_ValidationBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls++ }))
	defer srv.Close()

	cfg := validConfig(srv.URL)
	cfg.Password = ""
	_, err := NewClient(WithHTTPClient(srv.Client())).Deploy(context.Background(), writeArchive(t), cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
	assert.Zero(t, calls)
}

func TestDeploy_MissingArchive(t *testing.T) {
	_, err := NewClient().Deploy(context.Background(), filepath.Join(t.TempDir(), "nope.zip"),
		validConfig("https://example.invalid"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}

func TestDeploy_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(WithHTTPClient(srv.Client())).Deploy(ctx, writeArchive(t), validConfig(srv.URL))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}
