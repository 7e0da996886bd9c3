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
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/publisher"
	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
)

// Binding builds one bundle part from a resolved artifact.
type Binding interface {
	// Kind returns the part variant.
	Kind() Kind
	// Artifact returns the file the part is built from.
	Artifact() resolver.Artifact
	// Name returns the part name, empty until set or defaulted.
	Name() string
	// JVMServer returns the JVM server, empty until set or defaulted.
	JVMServer() string
	SetName(name string)
	SetJVMServer(jvmServer string)
	// ApplyDefaults fills unset fields. It fails when no JVM server is set
	// and defaultJVMServer is empty.
	ApplyDefaults(defaultJVMServer string) error
	// ToBundlePart converts the defaulted binding to a publishable resource.
	ToBundlePart() (publisher.Resource, error)
}

// JavaBinding is the binding for WAR, EAR and EBA parts, and the common
// part of OSGi bindings.
type JavaBinding struct {
	kind      Kind
	artifact  resolver.Artifact
	name      string
	jvmServer string
	defaulted bool
}

func (b *JavaBinding) Kind() Kind                  { return b.kind }
func (b *JavaBinding) Artifact() resolver.Artifact { return b.artifact }
func (b *JavaBinding) Name() string                { return b.name }
func (b *JavaBinding) JVMServer() string           { return b.jvmServer }
func (b *JavaBinding) SetName(name string)         { b.name = name }
func (b *JavaBinding) SetJVMServer(s string)       { b.jvmServer = s }

// ApplyDefaults sets the name to the artifact base name and the JVM server
// to defaultJVMServer when they are empty.
func (b *JavaBinding) ApplyDefaults(defaultJVMServer string) error {
	if b.name == "" {
		b.name = b.artifact.BaseName()
	}
	if b.name == "" {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unable to derive a bundle part name from '%s'", b.artifact.FileName()),
			map[string]any{"path": b.artifact.Path})
	}
	if b.jvmServer == "" {
		b.jvmServer = defaultJVMServer
	}
	if b.jvmServer == "" {
		return missingJVMServer(b)
	}
	b.defaulted = true
	return nil
}

func missingJVMServer(b *JavaBinding) error {
	return errors.NewWithContext(errors.ErrCodeInvalidConfig,
		heredoc.Docf(`
			No JVM server specified for bundle part '%s'. Set a default for all bundle parts:

			  defaultJVMServer: %s

			or set one for this part only:

			  extraConfig:
			    - dependency: {path: %s}
			      kind: %s
			      config: {jvmserver: %s}
		`, b.name, defaults.JVMServer, b.artifact.FileName(), b.kind, defaults.JVMServer),
		map[string]any{"part": b.name, "path": b.artifact.Path})
}

func (b *JavaBinding) paths() (descriptor, binary string) {
	descriptor = b.name + "." + b.kind.DescriptorExtension()
	binary = b.name
	if b.artifact.Extension != "" {
		binary += "." + b.artifact.Extension
	}
	return descriptor, binary
}

func (b *JavaBinding) checkDefaulted() error {
	if !b.defaulted {
		return errors.NewWithContext(errors.ErrCodeInternal,
			"bundle part converted before defaults were applied",
			map[string]any{"path": b.artifact.Path})
	}
	return nil
}

func (b *JavaBinding) resource(descriptor any) (publisher.Resource, error) {
	content, err := publisher.MarshalDescriptor(descriptor)
	if err != nil {
		return publisher.Resource{}, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to render bundle part descriptor", err,
			map[string]any{"part": b.name})
	}
	descPath, binPath := b.paths()
	return publisher.Resource{
		Name:           b.name,
		Type:           b.kind.Type(),
		DescriptorPath: descPath,
		Descriptor:     content,
		Binary:         b.artifact.Path,
		BinaryPath:     binPath,
	}, nil
}

type javaDescriptor struct {
	XMLName      xml.Name
	SymbolicName string `xml:"symbolicname,attr"`
	JVMServer    string `xml:"jvmserver,attr"`
}

// ToBundlePart returns the WAR, EAR or EBA resource.
func (b *JavaBinding) ToBundlePart() (publisher.Resource, error) {
	if err := b.checkDefaulted(); err != nil {
		return publisher.Resource{}, err
	}
	return b.resource(javaDescriptor{
		XMLName:      xml.Name{Local: b.kind.DescriptorExtension()},
		SymbolicName: b.name,
		JVMServer:    b.jvmServer,
	})
}

// OSGiBinding is the binding for OSGi bundles packaged as jars.
type OSGiBinding struct {
	JavaBinding

	symbolicName string
	osgiVersion  string
	versionRange string
}

// SymbolicName returns the Bundle-SymbolicName read by ApplyDefaults.
func (b *OSGiBinding) SymbolicName() string { return b.symbolicName }

// OSGiVersion returns the Bundle-Version read by ApplyDefaults.
func (b *OSGiBinding) OSGiVersion() string { return b.osgiVersion }

// VersionRange returns the configured version range.
func (b *OSGiBinding) VersionRange() string { return b.versionRange }

// SetVersionRange sets the version range written instead of the bundle
// version. Values without a ',' are ignored when the part is converted.
func (b *OSGiBinding) SetVersionRange(r string) { b.versionRange = r }

// ApplyDefaults applies the common defaults and reads the bundle headers
// from the jar manifest.
func (b *OSGiBinding) ApplyDefaults(defaultJVMServer string) error {
	if err := b.JavaBinding.ApplyDefaults(defaultJVMServer); err != nil {
		return err
	}

	m, err := ReadManifest(b.artifact.Path)
	if err != nil {
		b.defaulted = false
		return errors.WrapWithContext(errors.ErrCodeInspection,
			fmt.Sprintf("Error reading OSGi bundle headers in '%s' in: '%s'", ManifestPath, b.artifact.Path),
			err, map[string]any{"path": b.artifact.Path})
	}

	sn, ok := m.SymbolicName()
	if !ok {
		b.defaulted = false
		return errors.NewWithContext(errors.ErrCodeInspection,
			fmt.Sprintf("No value found for mandatory OSGi bundle header '%s' in '%s' in: '%s'",
				HeaderBundleSymbolicName, ManifestPath, b.artifact.Path),
			map[string]any{"path": b.artifact.Path})
	}
	b.symbolicName = sn

	b.osgiVersion = defaults.OSGiBundleVersion
	if v, ok := m.Get(HeaderBundleVersion); ok && strings.TrimSpace(v) != "" {
		b.osgiVersion = strings.TrimSpace(v)
	}
	return nil
}

// effectiveRange returns the version range when it is a real range.
// A value without ',' is treated as absent.
func (b *OSGiBinding) effectiveRange() string {
	if strings.Contains(b.versionRange, ",") {
		return b.versionRange
	}
	return ""
}

type osgiDescriptor struct {
	XMLName      xml.Name `xml:"osgibundle"`
	SymbolicName string   `xml:"symbolicname,attr"`
	Version      string   `xml:"version,attr"`
	JVMServer    string   `xml:"jvmserver,attr"`
}

// ToBundlePart returns the OSGi bundle resource.
func (b *OSGiBinding) ToBundlePart() (publisher.Resource, error) {
	if err := b.checkDefaulted(); err != nil {
		return publisher.Resource{}, err
	}
	v := b.osgiVersion
	if r := b.effectiveRange(); r != "" {
		v = r
	}
	return b.resource(osgiDescriptor{
		SymbolicName: b.symbolicName,
		Version:      v,
		JVMServer:    b.jvmServer,
	})
}
