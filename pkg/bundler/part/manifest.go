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

package part

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ManifestPath is the location of the manifest inside a jar.
const ManifestPath = "META-INF/MANIFEST.MF"

// OSGi manifest headers.
const (
	HeaderBundleSymbolicName = "Bundle-SymbolicName"
	HeaderBundleVersion      = "Bundle-Version"
)

// Manifest holds the main section attributes of a jar manifest, keyed by
// lower-cased header name. Header names are case-insensitive.
type Manifest map[string]string

// Get returns the value of a header, or "" with false when absent.
func (m Manifest) Get(name string) (string, bool) {
	v, ok := m[strings.ToLower(name)]
	return v, ok
}

// SymbolicName returns Bundle-SymbolicName without its directives, e.g.
// "com.example.app" for "com.example.app;singleton:=true".
func (m Manifest) SymbolicName() (string, bool) {
	v, ok := m.Get(HeaderBundleSymbolicName)
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// ReadManifest reads the main section of META-INF/MANIFEST.MF from the jar
// at path. A jar without a manifest yields an empty Manifest.
func ReadManifest(path string) (Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, ManifestPath) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ParseManifest(rc)
	}
	return Manifest{}, nil
}

// ParseManifest parses the main section of a manifest. Continuation lines
// start with a single space; the main section ends at the first blank line.
func ParseManifest(r io.Reader) (Manifest, error) {
	m := Manifest{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var key string
	var val strings.Builder
	flush := func() {
		if key != "" {
			m[key] = val.String()
		}
		key = ""
		val.Reset()
	}

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if key == "" {
				return nil, fmt.Errorf("manifest continuation line without header: %q", line)
			}
			val.WriteString(line[1:])
			continue
		}
		flush()
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid manifest header line: %q", line)
		}
		key = strings.ToLower(strings.TrimSpace(name))
		val.WriteString(strings.TrimPrefix(value, " "))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return m, nil
}
