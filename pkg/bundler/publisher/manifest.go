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

package publisher

import (
	"bytes"
	"encoding/xml"
	"sort"
	"time"

	"github.com/NVIDIA/cics-bundle-go/pkg/version"
)

const (
	bundleVersion = 1
	bundleRelease = 0
)

type manifest struct {
	XMLName        xml.Name       `xml:"http://www.ibm.com/xmlns/prod/cics/bundle manifest"`
	ID             string         `xml:"id,attr"`
	BundleVersion  int            `xml:"bundleVersion,attr"`
	BundleRelease  int            `xml:"bundleRelease,attr"`
	BundleMajorVer int            `xml:"bundleMajorVer,attr"`
	BundleMinorVer int            `xml:"bundleMinorVer,attr"`
	BundleMicroVer int            `xml:"bundleMicroVer,attr"`
	MetaDirectives metaDirectives `xml:"meta_directives"`
	Defines        []Define       `xml:"define"`
}

type metaDirectives struct {
	Timestamp string `xml:"timestamp"`
}

// renderManifest returns cics.xml for the bundle. Defines are sorted by path.
func renderManifest(id string, v version.Version, ts time.Time, defines []Define) ([]byte, error) {
	sorted := make([]Define, len(defines))
	copy(sorted, defines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	m := manifest{
		ID:             id,
		BundleVersion:  bundleVersion,
		BundleRelease:  bundleRelease,
		BundleMajorVer: v.Major,
		BundleMinorVer: v.Minor,
		BundleMicroVer: v.Micro,
		MetaDirectives: metaDirectives{Timestamp: ts.UTC().Format(time.RFC3339)},
		Defines:        sorted,
	}
	return marshalDocument(m)
}

// marshalDocument renders v as an indented, standalone XML document.
func marshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalDescriptor renders a bundle part descriptor document.
func MarshalDescriptor(v any) ([]byte, error) {
	return marshalDocument(v)
}
