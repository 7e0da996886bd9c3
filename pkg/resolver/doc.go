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

// Package resolver turns declared bundle dependencies into files on disk.
//
// A dependency is either a local path, optionally a glob pattern, relative
// to the project directory:
//
//	dependencies:
//	  - path: build/libs/app.war
//	  - path: "libs/**/*.jar"
//
// or a Maven coordinate resolved against the local repository and, when the
// artifact is missing there, downloaded from the configured remote
// repositories into the local repository:
//
//	dependencies:
//	  - coordinate: org.example:osgi-bundle:1.0.0@jar
//
// Resolution happens per declaration, so every resolved Artifact knows which
// declaration produced it. Any failure is fatal for the whole set.
//
// Usage:
//
//	r := resolver.New(projectDir, resolver.Repositories{Remote: []string{central}})
//	artifacts, err := r.ResolveAll(ctx, deps)
package resolver
