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

package extraconfig

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/part"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
)

// Property names accepted in a configuration mapping.
const (
	PropertyName         = "name"
	PropertyJVMServer    = "jvmserver"
	PropertyVersionRange = "versionRange"
)

// Resolver resolves a single dependency.
type Resolver interface {
	Resolve(ctx context.Context, dep resolver.Dependency) ([]resolver.Artifact, error)
}

// Entry is the extra configuration of one dependency.
type Entry struct {
	Dependency resolver.Dependency
	Kind       part.Kind
	Override   part.Override
	// Files are the resolved file names the entry is registered under.
	Files []string
}

// Bind creates the binding for a, patched with the entry's override.
func (e *Entry) Bind(a resolver.Artifact) (part.Binding, error) {
	b, err := part.ForKind(e.Kind, a)
	if err != nil {
		return nil, err
	}
	if err := e.Override.ApplyTo(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Registry maps resolved file names to entries.
type Registry struct {
	resolver Resolver
	entries  map[string]*Entry
}

// NewRegistry creates an empty registry resolving dependencies with r.
func NewRegistry(r Resolver) *Registry {
	return &Registry{
		resolver: r,
		entries:  make(map[string]*Entry),
	}
}

// Register decodes payload into an override for kind, resolves dep on its
// own, and stores the entry under every resolved file name.
//
// Supported payloads: part.Override, *part.Override, func(*part.Override),
// map[string]any, map[string]string, and a YAML mapping node. Anything else
// is a configuration error.
func (r *Registry) Register(ctx context.Context, dep resolver.Dependency, kind part.Kind, payload any) (*Entry, error) {
	o, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if err := o.Validate(kind); err != nil {
		return nil, err
	}

	arts, err := r.resolver.Resolve(ctx, dep)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeResolution,
			fmt.Sprintf("failed to resolve '%s' for extra configuration", dep), err,
			map[string]any{"dependency": dep.String()})
	}

	e := &Entry{Dependency: dep, Kind: kind, Override: o}
	for _, a := range arts {
		name := a.FileName()
		if prev, ok := r.entries[name]; ok {
			if prev == e {
				continue
			}
			return nil, errors.NewWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("extra configuration for '%s' is declared by both '%s' and '%s'",
					name, prev.Dependency, dep),
				map[string]any{"file": name})
		}
		r.entries[name] = e
		e.Files = append(e.Files, name)
	}

	slog.Debug("extra configuration registered",
		"dependency", dep.String(),
		"kind", string(kind),
		"files", e.Files,
	)
	return e, nil
}

// Lookup returns the entry registered for a resolved file name.
func (r *Registry) Lookup(filename string) (*Entry, bool) {
	e, ok := r.entries[filename]
	return e, ok
}

// Len returns the number of registered file names.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Files returns the registered file names, sorted.
func (r *Registry) Files() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func unsupportedPayload(v any) error {
	return errors.NewWithContext(errors.ErrCodeInvalidConfig,
		fmt.Sprintf("'%v' cannot be used to configure a bundle part. Only a mapping is supported.", v),
		map[string]any{"payload": fmt.Sprintf("%T", v)})
}

// Decode converts a configuration payload into an Override.
func Decode(payload any) (part.Override, error) {
	switch p := payload.(type) {
	case part.Override:
		return p, nil
	case *part.Override:
		if p == nil {
			return part.Override{}, unsupportedPayload(payload)
		}
		return *p, nil
	case func(*part.Override):
		var o part.Override
		if p == nil {
			return o, unsupportedPayload(payload)
		}
		p(&o)
		return o, nil
	case map[string]string:
		m := make(map[string]any, len(p))
		for k, v := range p {
			m[k] = v
		}
		return fromMap(m)
	case map[string]any:
		return fromMap(p)
	case yaml.Node:
		return fromNode(&p)
	case *yaml.Node:
		if p == nil {
			return part.Override{}, unsupportedPayload(payload)
		}
		return fromNode(p)
	default:
		return part.Override{}, unsupportedPayload(payload)
	}
}

func fromNode(n *yaml.Node) (part.Override, error) {
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		var v any
		if err := n.Decode(&v); err != nil {
			v = n.Value
		}
		return part.Override{}, unsupportedPayload(v)
	}

	m := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return part.Override{}, errors.NewWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("bundle part property '%s' must be a string (line %d)", k.Value, v.Line),
				map[string]any{"property": k.Value})
		}
		m[k.Value] = v.Value
	}
	return fromMap(m)
}

func fromMap(m map[string]any) (part.Override, error) {
	var o part.Override
	var unknown []string

	for k, v := range m {
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case fmt.Stringer:
			s = val.String()
		case nil:
			continue
		default:
			s = fmt.Sprint(val)
		}

		switch k {
		case PropertyName:
			o.Name = &s
		case PropertyJVMServer:
			o.JVMServer = &s
		case PropertyVersionRange:
			o.VersionRange = &s
		default:
			unknown = append(unknown, k)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return part.Override{}, errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown bundle part properties: %s (supported: %s, %s, %s)",
				strings.Join(unknown, ", "), PropertyName, PropertyJVMServer, PropertyVersionRange),
			map[string]any{"properties": unknown})
	}
	return o, nil
}
