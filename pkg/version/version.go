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
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 4 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrEmptyQualifier    = errors.New("version qualifier is empty")
)

// MaxPrecision is the number of numeric components a project version may carry.
const MaxPrecision = 4

// Version is a project version of the form
// major[.minor[.micro[.patch]]][(-|_|.)qualifier].
// Missing numeric components are zero; Precision records how many were given.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Micro int `json:"micro" yaml:"micro"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is the number of numeric components present (1 to 4).
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Qualifier is the text after the numeric components, e.g. "SNAPSHOT".
	Qualifier string `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`

	// sep is the separator that preceded Qualifier in the parsed text.
	sep byte
}

// NewVersion creates a three component Version.
func NewVersion(major, minor, micro int) Version {
	return Version{
		Major:     major,
		Minor:     minor,
		Micro:     micro,
		Precision: 3,
	}
}

// String returns the version respecting its precision, followed by the
// qualifier when one is set.
func (v Version) String() string {
	var b strings.Builder
	switch v.Precision {
	case 1:
		fmt.Fprintf(&b, "%d", v.Major)
	case 2:
		fmt.Fprintf(&b, "%d.%d", v.Major, v.Minor)
	case 4:
		fmt.Fprintf(&b, "%d.%d.%d.%d", v.Major, v.Minor, v.Micro, v.Patch)
	default:
		fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Micro)
	}
	if v.Qualifier != "" {
		sep := v.sep
		if sep == 0 {
			sep = '-'
		}
		b.WriteByte(sep)
		b.WriteString(v.Qualifier)
	}
	return b.String()
}

// ParseVersion parses a project version string.
// Supported formats: "1", "1.2", "1.2.3", "1.2.3.4", each optionally followed
// by a qualifier introduced by '-', '_' or '.', e.g. "1.0.0-SNAPSHOT" or
// "2.1.RELEASE". Surrounding whitespace and a "v" prefix are not accepted.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	var v Version
	rest := s
	for v.Precision < MaxPrecision {
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			if v.Precision == 0 {
				return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
			}
			// "1.x": the previous '.' introduced a qualifier
			break
		}
		num, err := strconv.Atoi(rest[:end])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, rest[:end])
		}
		v.set(v.Precision, num)
		v.Precision++
		rest = rest[end:]

		if rest == "" {
			return v, nil
		}
		if rest[0] != '.' {
			break
		}
		if len(rest) > 1 && (rest[1] < '0' || rest[1] > '9') {
			break
		}
		if v.Precision < MaxPrecision {
			rest = rest[1:]
		}
	}

	if rest == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	switch rest[0] {
	case '-', '_', '.':
	default:
		return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	if len(rest) == 1 {
		return Version{}, fmt.Errorf("%w: %q", ErrEmptyQualifier, s)
	}
	if v.Precision == MaxPrecision && rest[0] == '.' && rest[1] >= '0' && rest[1] <= '9' {
		return Version{}, ErrTooManyComponents
	}
	if strings.IndexByte("-_.", rest[1]) >= 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, s)
	}
	v.sep = rest[0]
	v.Qualifier = rest[1:]
	return v, nil
}

func (v *Version) set(i, num int) {
	switch i {
	case 0:
		v.Major = num
	case 1:
		v.Minor = num
	case 2:
		v.Micro = num
	case 3:
		v.Patch = num
	}
}

// MustParseVersion parses a version string and panics if parsing fails.
// Only use this for hardcoded strings or in tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1 comparing the numeric components of v and other.
// Qualifiers are not compared.
func (v Version) Compare(other Version) int {
	a := [MaxPrecision]int{v.Major, v.Minor, v.Micro, v.Patch}
	b := [MaxPrecision]int{other.Major, other.Minor, other.Micro, other.Patch}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// IsValid returns true if all components are non-negative and the precision
// is between 1 and 4.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Micro < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= MaxPrecision
}
