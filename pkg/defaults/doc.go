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

// Package defaults holds the constants cbundle falls back on: network
// timeouts, project layout, bundle part defaults and the reproducible build
// time.
//
// Timeouts are grouped by remote: Maven repositories (HTTP* and
// ArtifactDownloadTimeout), the CMCI deploy endpoint (Deploy*) and OCI
// registries (PublishTimeout). The deploy request itself is not bounded,
// since CICS answers only once the bundle is installed.
//
// SourceDateEpoch reads SOURCE_DATE_EPOCH, which pins both the cics.xml
// timestamp and the archive entry times; FallbackArchiveTime applies to
// archives when it is unset.
package defaults
