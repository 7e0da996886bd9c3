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

// Package result describes the outcome of a bundle build.
//
// Output records the bundle parts, static resources and files written by the
// assembler. The package, deploy and publish steps attach their own records
// (Archive, Deployment, Publication) to the same Output so that one summary
// covers the whole run.
//
//	out, err := b.Make(ctx, p)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Summary())
//	// Built bundle my-bundle 1.0.0: 2 parts, 3 static resources, 8 files (12.40KB) in 15ms.
//
// Output serializes to JSON and YAML with snake_case keys.
package result
