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

// Package checksum writes and verifies a sha256sum compatible checksums.txt
// for an assembled bundle directory.
//
//	path, err := checksum.Generate(ctx, bundleDir, files)
//	if err != nil {
//	    return err
//	}
//
// The file lists one "<sha256>  <relative path>" line per file, sorted by
// path, and can be checked with:
//
//	sha256sum -c checksums.txt
package checksum
