/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/opencontainers/go-digest"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/deploy"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/oci"
	"github.com/NVIDIA/cics-bundle-go/pkg/oci/ocitest"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

func decode(t *testing.T, s string) result.Output {
	t.Helper()
	var out result.Output
	require.NoError(t, json.Unmarshal([]byte(s), &out), s)
	return out
}

func TestBuildCommand(t *testing.T) {
	path := writeProject(t, baseProject)

	stdout, err := run(t, "build", "--project", path, "--format", "json", "--checksums")
	require.NoError(t, err)

	out := decode(t, stdout)
	assert.Equal(t, "payroll", out.BundleID)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "build", "payroll-1.0.0"), out.OutputDir)
	require.Len(t, out.Parts, 1)
	assert.Equal(t, "web", out.Parts[0].Name)
	assert.Equal(t, "MYJVMS", out.Parts[0].JVMServer)
	assert.Equal(t, []string{"PROG1.program"}, out.StaticResources)
	assert.Contains(t, out.Files, "META-INF/cics.xml")
	assert.NotEmpty(t, out.Checksums)
	assert.Nil(t, out.Archive)
}

func TestBuildCommand_Overrides(t *testing.T) {
	path := writeProject(t, baseProject+"defaultJVMServer: FROMFILE\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "b.bak"), []byte("b"), 0o644))

	t.Setenv(project.EnvDefaultJVMServer, "FROMENV")

	stdout, err := run(t, "build", "-p", path, "-f", "json",
		"--build-dir", "target",
		"--resources-dir", "static",
		"--exclude", "*.bak",
	)
	require.NoError(t, err)
	out := decode(t, stdout)
	assert.Equal(t, filepath.Join(dir, "target", "payroll-1.0.0"), out.OutputDir)
	assert.Equal(t, []string{"a.txt"}, out.StaticResources)
	assert.Equal(t, "FROMENV", out.Parts[0].JVMServer)

	stdout, err = run(t, "build", "-p", path, "-f", "json", "--default-jvmserver", "FROMFLAG")
	require.NoError(t, err)
	assert.Equal(t, "FROMFLAG", decode(t, stdout).Parts[0].JVMServer)
}

func TestBuildCommand_TextAndFile(t *testing.T) {
	path := writeProject(t, baseProject)

	stdout, err := run(t, "build", "-p", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Built bundle payroll 1.0.0: 1 parts"), stdout)

	target := filepath.Join(t.TempDir(), "result.yaml")
	stdout, err = run(t, "build", "-p", path, "-f", "yaml", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bundle_id: payroll\n")
}

func TestBuildCommand_Errors(t *testing.T) {
	t.Run("missing project", func(t *testing.T) {
		_, err := run(t, "build", "-p", filepath.Join(t.TempDir(), "cics-bundle.yaml"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, "build", "-p", writeProject(t, baseProject), "-f", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})

	t.Run("unsupported dependency", func(t *testing.T) {
		path := writeProject(t, "name: x\nversion: 1.0.0\ndependencies:\n  - path: cics-bundle.yaml\n")
		_, err := run(t, "build", "-p", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Supported extensions are")
	})
}

func TestPackageCommand(t *testing.T) {
	t.Setenv(defaults.EnvSourceDateEpoch, "1700000000")
	path := writeProject(t, baseProject)

	stdout, err := run(t, "package", "-p", path, "-f", "json")
	require.NoError(t, err)

	out := decode(t, stdout)
	require.NotNil(t, out.Archive)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "build", "distributions", "payroll-1.0.0.zip"), out.Archive.Path)
	assert.FileExists(t, out.Archive.Path)
	assert.Regexp(t, `^sha256:`, out.Archive.Digest)

	// same inputs, same archive
	again, err := run(t, "package", "-p", path, "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, out.Archive.Digest, decode(t, again).Archive.Digest)
}

type cmciServer struct {
	*httptest.Server
	mu    sync.Mutex
	forms []map[string]string
}

func newCMCIServer(t *testing.T, status int) *cmciServer {
	t.Helper()
	s := &cmciServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form := map[string]string{"path": r.URL.Path}
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
		if files := r.MultipartForm.File[deploy.FieldBundle]; len(files) == 1 {
			form[deploy.FieldBundle] = files[0].Filename
		}
		s.mu.Lock()
		s.forms = append(s.forms, form)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"bundle installed"}`))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *cmciServer) requests() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.forms...)
}

func TestDeployCommand(t *testing.T) {
	srv := newCMCIServer(t, http.StatusOK)
	path := writeProject(t, baseProject+`deploy:
  url: `+srv.URL+`
  bunddef: FROMFILE
  csdgroup: PAYGRP
  username: ibmuser
`)
	t.Setenv(project.EnvBundDef, "FROMENV")
	t.Setenv(project.EnvPassword, "secret")

	stdout, err := run(t, "deploy", "-p", path, "-f", "json", "--csdgroup", "FLAGGRP")
	require.NoError(t, err)

	out := decode(t, stdout)
	assert.Equal(t, "payroll", out.BundleID)
	require.NotNil(t, out.Archive)
	require.NotNil(t, out.Deployment)
	assert.Equal(t, http.StatusOK, out.Deployment.Status)
	assert.Equal(t, "bundle installed", out.Deployment.Message)
	assert.NotEmpty(t, out.Deployment.RequestID)

	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, deploy.Endpoint, reqs[0]["path"])
	assert.Equal(t, "FROMENV", reqs[0][deploy.FieldBunddef])
	assert.Equal(t, "FLAGGRP", reqs[0][deploy.FieldCSDGroup])
	assert.Equal(t, "payroll-1.0.0.zip", reqs[0][deploy.FieldBundle])
	assert.NotContains(t, reqs[0], deploy.FieldCICSplex)
}

func TestDeployCommand_ExistingArchive(t *testing.T) {
	srv := newCMCIServer(t, http.StatusOK)
	path := writeProject(t, baseProject)
	archive := filepath.Join(t.TempDir(), "prebuilt.zip")
	require.NoError(t, os.WriteFile(archive, []byte("PK"), 0o644))

	stdout, err := run(t, "deploy", "-p", path, "-f", "json",
		"--archive", archive,
		"--url", srv.URL,
		"--bunddef", "PAYROLL",
		"--csdgroup", "PAYGRP",
		"--cicsplex", "PLEX1",
		"--region", "REGION1",
		"--username", "ibmuser",
		"--password", "secret",
	)
	require.NoError(t, err)

	out := decode(t, stdout)
	assert.Equal(t, "payroll", out.BundleID)
	assert.Equal(t, archive, out.Archive.Path)
	assert.Empty(t, out.Files)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(path), "build"))

	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "prebuilt.zip", reqs[0][deploy.FieldBundle])
	assert.Equal(t, "PLEX1", reqs[0][deploy.FieldCICSplex])
	assert.Equal(t, "REGION1", reqs[0][deploy.FieldRegion])
}

func TestDeployCommand_Errors(t *testing.T) {
	t.Run("missing configuration fails before building", func(t *testing.T) {
		path := writeProject(t, baseProject)
		_, err := run(t, "deploy", "-p", path)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
		assert.Contains(t, err.Error(), deploy.MsgPleaseSpecify)
		assert.NoDirExists(t, filepath.Join(filepath.Dir(path), "build"))
	})

	t.Run("missing archive", func(t *testing.T) {
		srv := newCMCIServer(t, http.StatusOK)
		_, err := run(t, "deploy", "-p", writeProject(t, baseProject),
			"--archive", filepath.Join(t.TempDir(), "nope.zip"),
			"--url", srv.URL, "--bunddef", "B", "--csdgroup", "G",
			"--username", "u", "--password", "p",
		)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
		assert.Empty(t, srv.requests())
	})

	t.Run("rejected by server", func(t *testing.T) {
		srv := newCMCIServer(t, http.StatusBadRequest)
		_, err := run(t, "deploy", "-p", writeProject(t, baseProject),
			"--url", srv.URL, "--bunddef", "B", "--csdgroup", "G",
			"--username", "u", "--password", "p",
		)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeRemote, errors.CodeOf(err))
		assert.Contains(t, err.Error(), "bundle installed")
	})
}

func TestPublishCommand(t *testing.T) {
	reg := ocitest.NewRegistry(t)
	path := writeProject(t, baseProject+`publish:
  reference: oci://`+reg.Host()+`/acme/payroll
  plainHTTP: true
`)

	stdout, err := run(t, "publish", "-p", path, "-f", "json")
	require.NoError(t, err)

	out := decode(t, stdout)
	assert.Equal(t, "payroll", out.BundleID)
	require.NotNil(t, out.Publication)
	assert.Equal(t, reg.Host()+"/acme/payroll:1.0.0", out.Publication.Reference)

	data, ok := reg.Manifest("acme/payroll", "1.0.0")
	require.True(t, ok, "manifest was not pushed")
	var manifest ociv1.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, digest.FromBytes(data).String(), out.Publication.Digest)
	assert.Equal(t, oci.ArtifactType, manifest.ArtifactType)
	assert.Equal(t, "1.0.0", manifest.Annotations[ociv1.AnnotationVersion])
	require.Len(t, manifest.Layers, 1)
	assert.Equal(t, "payroll-1.0.0", manifest.Layers[0].Annotations[ociv1.AnnotationTitle])

	assert.DirExists(t, filepath.Join(filepath.Dir(path), "build", oci.StoreDir))
}

func TestPublishCommand_Errors(t *testing.T) {
	t.Run("missing reference", func(t *testing.T) {
		_, err := run(t, "publish", "-p", writeProject(t, baseProject))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := run(t, "publish", "-p", writeProject(t, baseProject), "--reference", "oci://Bad Ref")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	})

	t.Run("registry failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		path := writeProject(t, baseProject)
		ref := "oci://" + strings.TrimPrefix(srv.URL, "http://") + "/acme/payroll"
		_, err := run(t, "publish", "-p", path, "--reference", ref, "--plain-http")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeRemote, errors.CodeOf(err))
		assert.Contains(t, err.Error(), ":1.0.0")
		assert.DirExists(t, filepath.Join(filepath.Dir(path), "build", "oci"))
	})
}

func TestPublishReference(t *testing.T) {
	p := &project.Project{Name: "payroll", Version: "1.0.0+b1"}
	p.Publish.Reference = "ghcr.io/acme/payroll"

	ref, err := publishReference(p)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0_b1", ref.Tag)

	p.Publish.Reference = "ghcr.io/acme/payroll:latest"
	ref, err = publishReference(p)
	require.NoError(t, err)
	assert.Equal(t, "latest", ref.Tag)
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, name+" "+version), stdout)

	stdout, err = run(t, "version", "-f", "json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, name, info.Name)
	assert.Equal(t, version, info.Version)
}

func TestMetricsFile(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "cbundle.prom")

	_, err := run(t, "--metrics-file", metrics, "build", "-p", writeProject(t, baseProject))
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cbundle_builds_total")
}
