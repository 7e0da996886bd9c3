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
	"fmt"
	"strings"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/publisher"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
)

// Kind identifies a Java bundle part variant.
type Kind string

const (
	KindOSGi Kind = "osgi"
	KindWAR  Kind = "war"
	KindEAR  Kind = "ear"
	KindEBA  Kind = "eba"
)

type kindInfo struct {
	element string
	typ     string
}

var kindInfos = map[Kind]kindInfo{
	KindOSGi: {element: "osgibundle", typ: publisher.TypeOSGiBundle},
	KindWAR:  {element: "warbundle", typ: publisher.TypeWARBundle},
	KindEAR:  {element: "earbundle", typ: publisher.TypeEARBundle},
	KindEBA:  {element: "ebabundle", typ: publisher.TypeEBABundle},
}

// extensions is the dispatch table from artifact extension to kind, in the
// order they are reported to users.
var extensions = []struct {
	ext  string
	kind Kind
}{
	{"ear", KindEAR},
	{"jar", KindOSGi},
	{"war", KindWAR},
	{"eba", KindEBA},
}

// Kinds returns all kinds.
func Kinds() []Kind {
	return []Kind{KindOSGi, KindWAR, KindEAR, KindEBA}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kindInfos[k]; !ok {
		return "", errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown bundle part kind '%s', must be one of %v", s, Kinds()),
			map[string]any{"kind": s})
	}
	return k, nil
}

// DescriptorExtension returns the extension of the part's descriptor file.
func (k Kind) DescriptorExtension() string {
	return kindInfos[k].element
}

// Type returns the CICS resource type URI of the kind.
func (k Kind) Type() string {
	return kindInfos[k].typ
}

// SupportedExtensions returns the artifact extensions that map to a kind.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extensions))
	for _, e := range extensions {
		out = append(out, e.ext)
	}
	return out
}

// KindForExtension returns the kind for an artifact extension.
func KindForExtension(ext string) (Kind, bool) {
	for _, e := range extensions {
		if e.ext == ext {
			return e.kind, true
		}
	}
	return "", false
}

// CheckExtension returns the resolution error for an artifact whose
// extension is missing or unsupported, or nil.
func CheckExtension(a resolver.Artifact) error {
	if a.Extension == "" {
		return errors.NewWithContext(errors.ErrCodeResolution,
			fmt.Sprintf("No file extension found for dependency '%s'", a.FileName()),
			map[string]any{"path": a.Path})
	}
	if _, ok := KindForExtension(a.Extension); !ok {
		return errors.NewWithContext(errors.ErrCodeResolution,
			fmt.Sprintf("Unsupported file extension '%s' for dependency '%s'", a.Extension, a.FileName()),
			map[string]any{"path": a.Path})
	}
	return nil
}

// ForExtension creates the binding for an artifact by its extension.
func ForExtension(ext string, a resolver.Artifact) (Binding, error) {
	k, ok := KindForExtension(ext)
	if !ok {
		a.Extension = ext
		if err := CheckExtension(a); err != nil {
			return nil, err
		}
	}
	return ForKind(k, a)
}

// ForKind creates the binding of kind k for an artifact.
func ForKind(k Kind, a resolver.Artifact) (Binding, error) {
	if _, ok := kindInfos[k]; !ok {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown bundle part kind '%s'", k),
			map[string]any{"kind": string(k)})
	}
	jb := JavaBinding{kind: k, artifact: a}
	if k == KindOSGi {
		return &OSGiBinding{JavaBinding: jb}, nil
	}
	return &jb, nil
}
