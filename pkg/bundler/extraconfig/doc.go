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

// Package extraconfig holds per-artifact bundle part overrides.
//
// An entry targets one declared dependency. At registration the dependency
// is resolved on its own to learn the file names it produces, and the entry
// is stored under each of them; every file name of one dependency shares the
// same *Entry. During assembly the Bundle Assembler looks entries up by the
// resolved file name and, when found, binds the artifact with the entry's
// kind and override instead of inferring the kind from the extension.
package extraconfig
