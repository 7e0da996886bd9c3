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

// FuzzParseVersion performs fuzz testing on ParseVersion to find edge cases
func FuzzParseVersion(f *testing.F) {
	// Seed corpus with valid and edge case inputs
	f.Add("1")
	f.Add("1.2")
	f.Add("1.2.3")
	f.Add("1.2.3.4")
	f.Add("1.0.0-SNAPSHOT")
	f.Add("2.1.RELEASE")
	f.Add("0.0.0")
	f.Add("999.999.999")
	f.Add("")
	f.Add(".")
	f.Add("..")
	f.Add("1.")
	f.Add(".1")
	f.Add("1..2")
	f.Add("v1")
	f.Add("-1")
	f.Add("1.-2")
	f.Add("a.b.c")
	f.Add("1.2.3.4.5")
	f.Add("   1.2.3")
	f.Add("1.2.3   ")
	f.Add("1. 2.3")
	f.Add("1.2.3-")

	f.Fuzz(func(t *testing.T, input string) {
		// ParseVersion should never panic
		v, err := ParseVersion(input)
		if err != nil {
			return
		}

		if !v.IsValid() {
			t.Errorf("ParseVersion(%q) returned invalid version: %+v", input, v)
		}

		// Re-parsing the string should produce the same version
		s := v.String()
		v2, err2 := ParseVersion(s)
		if err2 != nil {
			t.Errorf("Re-parsing %q (from %q) failed: %v", s, input, err2)
		} else if v.Compare(v2) != 0 || v.Precision != v2.Precision || v.Qualifier != v2.Qualifier {
			t.Errorf("Round-trip mismatch for %q: %+v != %+v", input, v, v2)
		}
	})
}
