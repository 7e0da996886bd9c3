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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in        string
		want      Version
		wantStr   string
		wantErrIs error
	}{
		{in: "1", want: Version{Major: 1, Precision: 1}, wantStr: "1"},
		{in: "1.2", want: Version{Major: 1, Minor: 2, Precision: 2}, wantStr: "1.2"},
		{in: "1.2.3", want: Version{Major: 1, Minor: 2, Micro: 3, Precision: 3}, wantStr: "1.2.3"},
		{in: "1.2.3.4", want: Version{Major: 1, Minor: 2, Micro: 3, Patch: 4, Precision: 4}, wantStr: "1.2.3.4"},
		{in: "1.0.0-SNAPSHOT", want: Version{Major: 1, Precision: 3, Qualifier: "SNAPSHOT", sep: '-'}, wantStr: "1.0.0-SNAPSHOT"},
		{in: "1.0-beta.2", want: Version{Major: 1, Precision: 2, Qualifier: "beta.2", sep: '-'}, wantStr: "1.0-beta.2"},
		{in: "2.1.RELEASE", want: Version{Major: 2, Minor: 1, Precision: 2, Qualifier: "RELEASE", sep: '.'}, wantStr: "2.1.RELEASE"},
		{in: "3_rc1", want: Version{Major: 3, Precision: 1, Qualifier: "rc1", sep: '_'}, wantStr: "3_rc1"},
		{in: "", wantErrIs: ErrEmptyVersion},
		{in: "v1.0.0", wantErrIs: ErrNonNumeric},
		{in: "a.b.c", wantErrIs: ErrNonNumeric},
		{in: "1.", wantErrIs: ErrNonNumeric},
		{in: "1..2", wantErrIs: ErrNonNumeric},
		{in: "1.2.3 ", wantErrIs: ErrNonNumeric},
		{in: "1.2.3-", wantErrIs: ErrEmptyQualifier},
		{in: "1.2.3.4.5", wantErrIs: ErrTooManyComponents},
		{in: "unspecified", wantErrIs: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErrIs), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.wantStr, v.String())
			assert.True(t, v.IsValid())
		})
	}
}

func TestMustParseVersion(t *testing.T) {
	assert.Equal(t, NewVersion(1, 0, 0), MustParseVersion("1.0.0"))
	assert.Panics(t, func() { MustParseVersion("bad") })
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1", "1.0.0", 0},
		{"1.0.0-SNAPSHOT", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0.1", "1.0.0", 1},
		{"0.9", "1.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.False(t, Version{}.IsValid())
	assert.False(t, Version{Major: -1, Precision: 1}.IsValid())
	assert.False(t, Version{Precision: 5}.IsValid())
	assert.True(t, NewVersion(0, 0, 0).IsValid())
}
