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

package version

import (
	"testing"
)

func BenchmarkParseVersion(b *testing.B) {
	tests := []string{
		"1",
		"1.2",
		"1.2.3",
		"1.2.3.4",
		"1.0.0-SNAPSHOT",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		input := tests[i%len(tests)]
		_, _ = ParseVersion(input)
	}
}

func BenchmarkVersionString(b *testing.B) {
	v := MustParseVersion("1.2.3-SNAPSHOT")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.String()
	}
}

func BenchmarkCompare(b *testing.B) {
	v1 := MustParseVersion("1.2.3")
	v2 := MustParseVersion("1.2.0.9")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v1.Compare(v2)
	}
}
