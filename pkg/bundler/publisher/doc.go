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

// Package publisher writes a CICS bundle directory.
//
// Resources are collected in memory with AddResource (generated bundle part
// descriptors plus the artifact they reference) and AddStaticResource (files
// copied verbatim), then written in one step by Publish together with the
// META-INF/cics.xml manifest that defines every resource.
//
// Relative paths inside the bundle are unique: a static resource cannot
// overwrite a generated descriptor, an artifact copy, or the manifest.
package publisher
