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

package project

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/part"
	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/deploy"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
)

// Project is the content of a cics-bundle.yaml file.
type Project struct {
	// Dir is the absolute directory holding the project file. Relative
	// paths in the project are resolved against it.
	Dir string `json:"-" yaml:"-"`

	// Name is the bundle id. Defaults to the base name of Dir.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Version is the bundle version, major[.minor[.micro[.patch]]][-qualifier].
	Version string `json:"version" yaml:"version"`

	// BuildDir receives the bundle directory and the archive.
	BuildDir string `json:"buildDir,omitempty" yaml:"buildDir,omitempty"`

	// DefaultJVMServer is used for Java parts without an explicit jvmserver.
	// Unset means defaults.JVMServer; an explicit empty string disables the
	// default.
	DefaultJVMServer *string `json:"defaultJVMServer,omitempty" yaml:"defaultJVMServer,omitempty"`

	// ResourcesDir holds static resources. Unset means the conventional
	// directory, which may be absent.
	ResourcesDir string `json:"resourcesDir,omitempty" yaml:"resourcesDir,omitempty"`

	// ResourceExcludes are glob patterns of static resources to skip,
	// matched against paths relative to ResourcesDir.
	ResourceExcludes []string `json:"resourceExcludes,omitempty" yaml:"resourceExcludes,omitempty"`

	Repositories resolver.Repositories `json:"repositories,omitempty" yaml:"repositories,omitempty"`
	Dependencies []resolver.Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	ExtraConfig  []ExtraConfig         `json:"extraConfig,omitempty" yaml:"extraConfig,omitempty"`

	Deploy  deploy.Config `json:"deploy,omitempty" yaml:"deploy,omitempty"`
	Publish Publish       `json:"publish,omitempty" yaml:"publish,omitempty"`
}

// ExtraConfig overrides the binding of one dependency.
type ExtraConfig struct {
	Dependency resolver.Dependency `json:"dependency" yaml:"dependency"`
	Kind       string              `json:"kind" yaml:"kind"`

	// Config is kept as a node so that shape errors are reported by the
	// extra configuration registry.
	Config yaml.Node `json:"-" yaml:"config"`
}

// Publish configures pushing the bundle to an OCI registry.
type Publish struct {
	// Reference is oci://registry/repository[:tag].
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	PlainHTTP   bool   `json:"plainHTTP,omitempty" yaml:"plainHTTP,omitempty"`
	InsecureTLS bool   `json:"insecureTLS,omitempty" yaml:"insecureTLS,omitempty"`
}

// Load reads and validates the project file at path, applies environment
// overrides and fills defaults.
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
				fmt.Sprintf("project file '%s' not found", path), err,
				map[string]any{"path": path})
		}
		return nil, errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to open project file '%s'", path), err,
			map[string]any{"path": path})
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "failed to resolve project path", err)
	}

	p, err := Parse(f, filepath.Dir(abs))
	if err != nil {
		return nil, errors.WrapWithContext(errors.CodeOf(err),
			fmt.Sprintf("invalid project file '%s'", path), err,
			map[string]any{"path": path})
	}
	p.ApplyEnv(os.LookupEnv)
	return p, nil
}

// Parse decodes a project from r. Unknown fields are rejected. dir becomes
// the project directory.
func Parse(r io.Reader, dir string) (*Project, error) {
	p := &Project{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to parse project", err)
	}
	p.Dir = dir
	p.setDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) setDefaults() {
	if p.Name == "" && p.Dir != "" {
		p.Name = filepath.Base(p.Dir)
	}
	if p.BuildDir == "" {
		p.BuildDir = defaults.BuildDir
	}
}

// Validate checks declarations that can be checked without touching the
// filesystem. The version is checked by the assembler.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "project name must not be empty")
	}
	// name and version become one element of the output directory path
	if strings.ContainsAny(p.Name, `/\`) || p.Name == "." || p.Name == ".." {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("project name '%s' must not contain path separators or be '.' or '..'", p.Name),
			map[string]any{"name": p.Name})
	}
	if strings.ContainsAny(p.Version, `/\`) {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("project version '%s' must not contain path separators", p.Version),
			map[string]any{"version": p.Version})
	}
	for i, d := range p.Dependencies {
		if err := d.Validate(); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid dependency #%d", i+1), err,
				map[string]any{"index": i})
		}
	}
	for i, ec := range p.ExtraConfig {
		if err := ec.Dependency.Validate(); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid extraConfig #%d dependency", i+1), err,
				map[string]any{"index": i})
		}
		if _, err := part.ParseKind(ec.Kind); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid extraConfig #%d kind", i+1), err,
				map[string]any{"index": i})
		}
	}
	return nil
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Environment variables overriding project settings.
const (
	EnvDefaultJVMServer = defaults.EnvPrefix + "DEFAULT_JVMSERVER"
	EnvURL              = defaults.EnvPrefix + "URL"
	EnvBundDef          = defaults.EnvPrefix + "BUNDDEF"
	EnvCSDGroup         = defaults.EnvPrefix + "CSDGROUP"
	EnvCICSplex         = defaults.EnvPrefix + "CICSPLEX"
	EnvRegion           = defaults.EnvPrefix + "REGION"
	EnvUsername         = defaults.EnvPrefix + "USERNAME"
	EnvPassword         = defaults.EnvPrefix + "PASSWORD"
	EnvInsecure         = defaults.EnvPrefix + "INSECURE"
	EnvPublishReference = defaults.EnvPrefix + "PUBLISH_REFERENCE"
)

// ApplyEnv overrides settings from the environment. Set variables win over
// the file, including empty values.
func (p *Project) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		return
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvDefaultJVMServer); ok {
		p.DefaultJVMServer = &v
	}
	str(EnvURL, &p.Deploy.URL)
	str(EnvBundDef, &p.Deploy.BundDef)
	str(EnvCSDGroup, &p.Deploy.CSDGroup)
	str(EnvCICSplex, &p.Deploy.CICSplex)
	str(EnvRegion, &p.Deploy.Region)
	str(EnvUsername, &p.Deploy.Username)
	str(EnvPassword, &p.Deploy.Password)
	str(EnvPublishReference, &p.Publish.Reference)
	if v, ok := lookup(EnvInsecure); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			p.Deploy.Insecure = b
		}
	}
}

// JVMServer returns the default JVM server for Java parts.
func (p *Project) JVMServer() string {
	if p.DefaultJVMServer == nil {
		return defaults.JVMServer
	}
	return *p.DefaultJVMServer
}

// Path resolves a project-relative path.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.Dir, rel)
}

// BuildPath returns the absolute build directory.
func (p *Project) BuildPath() string {
	return p.Path(p.BuildDir)
}

// BundleDirName returns <name>-<version> as written in the project. It names
// the bundle directory and the archive; the bundle id itself is the name.
func (p *Project) BundleDirName() string {
	return p.Name + "-" + p.Version
}

// OutputDir returns the bundle directory, <buildDir>/<name>-<version>.
func (p *Project) OutputDir() string {
	return filepath.Join(p.BuildPath(), p.BundleDirName())
}

// ArchivePath returns the default archive, <buildDir>/distributions/<name>-<version>.zip.
func (p *Project) ArchivePath() string {
	return filepath.Join(p.BuildPath(), defaults.DistributionsDir,
		p.BundleDirName()+"."+defaults.ArchiveExtension)
}

// ResourcesPath returns the static resources directory and whether it was
// configured explicitly.
func (p *Project) ResourcesPath() (string, bool) {
	if p.ResourcesDir == "" {
		return p.Path(defaults.ResourcesDir), false
	}
	return p.Path(p.ResourcesDir), true
}
