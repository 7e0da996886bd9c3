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

// Package oci publishes built CICS bundles to OCI registries.
//
// A bundle directory is stored as a single gzipped tar layer, named after
// the directory, in an OCI 1.1 artifact manifest with artifact type
// application/vnd.ibm.cics.bundle. Publishing happens in two steps:
//
//   - Package writes the artifact to a local OCI image layout under the
//     build directory (build/oci).
//   - PushFromStore copies the tagged artifact to the registry.
//
// Publish combines both:
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/payroll:1.0.0")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Publish(ctx, oci.PublishOptions{
//	    SourceDir: "build/payroll-1.0.0",
//	    OutputDir: "build",
//	    Reference: ref,
//	})
//
// References may omit the tag; TagFor derives one from the bundle version.
// Credentials are read from the Docker configuration (~/.docker/config.json)
// through the ORAS credential helpers. PlainHTTP and InsecureTLS support
// development registries.
//
// The manifest creation annotation follows SOURCE_DATE_EPOCH when set, so
// identical bundles produce identical digests.
package oci
