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

// Package config provides configuration options for the bundle assembler.
//
// # Configuration Options
//
//   - DefaultJVMServer: JVM server for Java parts without one (default MYJVMS)
//   - ResourcesDir: static resources directory override
//   - ResourceExcludes: glob patterns of static resources to skip
//   - IncludeChecksums: generate a SHA256 checksums.txt file
//   - Timestamp: cics.xml timestamp (default SOURCE_DATE_EPOCH, else now)
//   - Version: bundler version string
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithDefaultJVMServer(p.JVMServer()),
//	    config.WithIncludeChecksums(true),
//	)
//
// Config is immutable after creation, safe for concurrent use.
package config
