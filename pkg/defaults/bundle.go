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

package defaults

// Project layout defaults.
const (
	// ProjectFile is the project configuration file looked up in the
	// working directory.
	ProjectFile = "cics-bundle.yaml"

	// BuildDir is the directory, relative to the project, that receives
	// the bundle directory and the archive.
	BuildDir = "build"

	// DistributionsDir is the directory under BuildDir holding archives.
	DistributionsDir = "distributions"

	// ResourcesDir holds static bundle resources.
	ResourcesDir = "src/main/resources"

	// ArchiveExtension is the bundle archive file extension.
	ArchiveExtension = "zip"
)

// Bundle part defaults.
const (
	// JVMServer is used for Java bundle parts that do not name one.
	JVMServer = "MYJVMS"

	// OSGiBundleVersion is used when a bundle's manifest has no Bundle-Version.
	OSGiBundleVersion = "0.0.0"
)

// Dependency resolution defaults.
const (
	// LocalRepository is the Maven local repository, relative to the home
	// directory.
	LocalRepository = ".m2/repository"

	// ArtifactExtension is used for Maven coordinates without an @ext suffix.
	ArtifactExtension = "jar"
)

// Environment variables.
const (
	// EnvPrefix prefixes every environment override of project settings.
	EnvPrefix = "CBUNDLE_"

	// EnvSourceDateEpoch pins the timestamp written into cics.xml and the
	// archive entries.
	EnvSourceDateEpoch = "SOURCE_DATE_EPOCH"
)
