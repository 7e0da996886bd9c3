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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// ArtifactType is the media type of pushed CICS bundles.
const ArtifactType = "application/vnd.ibm.cics.bundle"

// StoreDir is the OCI image layout directory created under the build
// directory by Package.
const StoreDir = "oci"

// PackageOptions configures Package.
type PackageOptions struct {
	// SourceDir is the bundle directory.
	SourceDir string
	// OutputDir receives the OCI image layout in StoreDir.
	OutputDir string
	// Reference names the artifact. Its tag is required.
	Reference *Reference
	// Annotations are added to the manifest. A title is ignored: it belongs
	// to the layer.
	Annotations map[string]string
	// Created is written as the manifest creation time. When zero,
	// SOURCE_DATE_EPOCH is used if set, else the current time.
	Created time.Time
}

// PackageResult describes a packaged artifact.
type PackageResult struct {
	Digest    string
	Reference string
	StorePath string
}

// PushOptions configures PushFromStore.
type PushOptions struct {
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult describes a pushed artifact.
type PushResult struct {
	Digest    string `json:"digest" yaml:"digest"`
	Reference string `json:"reference" yaml:"reference"`
}

func requireTagged(ref *Reference) error {
	if ref == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "registry reference is required")
	}
	if ref.Tag == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "tag is required for OCI packaging")
	}
	return ValidateRegistryReference(ref.Registry, ref.Repository)
}

// Package stores the bundle directory as a single gzipped tar layer in a
// local OCI image layout, tagged with the reference tag. The layer is named
// after the bundle directory so that pulling recreates it.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if err := requireTagged(opts.Reference); err != nil {
		return nil, err
	}

	absSource, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve bundle directory", err)
	}
	info, err := os.Stat(absSource)
	if err != nil || !info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeIO,
			fmt.Sprintf("bundle directory '%s' does not exist", opts.SourceDir),
			map[string]any{"dir": opts.SourceDir})
	}

	storePath, err := filepath.Abs(filepath.Join(opts.OutputDir, StoreDir))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to resolve store directory", err)
	}
	if err := os.RemoveAll(storePath); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to clear OCI store", err,
			map[string]any{"path": storePath})
	}

	fs, err := file.New(filepath.Dir(absSource))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	tag := opts.Reference.Tag
	layer, err := fs.Add(ctx, filepath.Base(absSource), ociv1.MediaTypeImageLayerGzip, absSource)
	if err != nil {
		return nil, wrapCtx(ctx, errors.ErrCodeIO, "failed to add bundle directory to store", err)
	}

	annotations := map[string]string{}
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	// The file store names every titled descriptor, and the layer already
	// holds the bundle directory's name.
	delete(annotations, ociv1.AnnotationTitle)
	created := opts.Created
	if created.IsZero() {
		if t, ok := defaults.SourceDateEpoch(); ok {
			created = t
		}
	}
	if !created.IsZero() {
		annotations[ociv1.AnnotationCreated] = created.UTC().Format(time.RFC3339)
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, wrapCtx(ctx, errors.ErrCodeInternal, "failed to pack manifest", err)
	}
	if err := fs.Tag(ctx, manifest, tag); err != nil {
		return nil, wrapCtx(ctx, errors.ErrCodeInternal, "failed to tag manifest", err)
	}

	store, err := oci.New(storePath)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to create OCI store", err,
			map[string]any{"path": storePath})
	}
	desc, err := oras.Copy(ctx, fs, tag, store, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, wrapCtx(ctx, errors.ErrCodeIO, "failed to write OCI store", err)
	}

	slog.Debug("bundle packaged as OCI artifact",
		"reference", opts.Reference.ImageReference(),
		"digest", desc.Digest.String(),
		"store", storePath,
	)

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: opts.Reference.ImageReference(),
		StorePath: storePath,
	}, nil
}

// PushFromStore copies the tagged artifact from a local OCI image layout to
// the registry. Credentials come from the Docker configuration when present.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if err := requireTagged(opts.Reference); err != nil {
		return nil, err
	}
	ref := opts.Reference

	store, err := oci.New(storePath)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to open OCI store", err,
			map[string]any{"path": storePath})
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", ref.Registry, ref.Repository))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	ctx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
	defer cancel()

	desc, err := oras.Copy(ctx, store, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, wrapCtx(ctx, errors.ErrCodeRemote,
			fmt.Sprintf("failed to push '%s'", ref.ImageReference()), err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

// PublishOptions configures Publish.
type PublishOptions struct {
	SourceDir   string
	OutputDir   string
	Reference   *Reference
	Annotations map[string]string
	Created     time.Time
	PlainHTTP   bool
	InsecureTLS bool
}

// Publish packages the bundle directory and pushes it.
func Publish(ctx context.Context, opts PublishOptions) (*PushResult, error) {
	if err := requireTagged(opts.Reference); err != nil {
		return nil, err
	}

	slog.Info("publishing bundle",
		"reference", opts.Reference.ImageReference(),
		"dir", opts.SourceDir,
	)

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:   opts.SourceDir,
		OutputDir:   opts.OutputDir,
		Reference:   opts.Reference,
		Annotations: opts.Annotations,
		Created:     opts.Created,
	})
	if err != nil {
		return nil, err
	}

	res, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Reference:   opts.Reference,
		PlainHTTP:   opts.PlainHTTP,
		InsecureTLS: opts.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bundle published",
		"reference", res.Reference,
		"digest", res.Digest,
	)
	return res, nil
}

func wrapCtx(ctx context.Context, code errors.ErrorCode, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(errors.ErrCodeTimeout, msg, err)
	}
	return errors.Wrap(code, msg, err)
}

func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = defaults.HTTPTLSHandshakeTimeout
	transport.ResponseHeaderTimeout = defaults.HTTPResponseHeaderTimeout
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	client.SetUserAgent("cbundle")
	return client
}
