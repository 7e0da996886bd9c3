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

package config

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/resolver"
)

// Config provides immutable configuration for the bundle assembler.
// Settings that the project file also carries are expected to be merged by
// the caller (file < environment < flags) before the Config is built.
type Config struct {
	// defaultJVMServer is used for Java parts without an explicit jvmserver.
	// An empty value makes such parts fail.
	defaultJVMServer string

	// resourcesDir overrides the project's static resources directory.
	resourcesDir string

	// resourceExcludes are glob patterns of static resources to skip.
	resourceExcludes []string

	// includeChecksums writes checksums.txt into the bundle directory.
	includeChecksums bool

	// timestamp is written into cics.xml. Zero means SOURCE_DATE_EPOCH or now.
	timestamp time.Time

	// version specifies the bundler version.
	version string

	resolverOptions []resolver.Option
}

// DefaultJVMServer returns the JVM server applied to parts without one.
func (c *Config) DefaultJVMServer() string {
	return c.defaultJVMServer
}

// ResourcesDir returns the static resources directory override, or an
// empty string when the project setting applies.
func (c *Config) ResourcesDir() string {
	return c.resourcesDir
}

// ResourceExcludes returns a copy of the static resource exclude patterns.
func (c *Config) ResourceExcludes() []string {
	return append([]string(nil), c.resourceExcludes...)
}

// IncludeChecksums returns the include checksums setting.
func (c *Config) IncludeChecksums() bool {
	return c.includeChecksums
}

// Timestamp returns the cics.xml timestamp: the configured one, else
// SOURCE_DATE_EPOCH, else the current time.
func (c *Config) Timestamp() time.Time {
	if !c.timestamp.IsZero() {
		return c.timestamp.UTC()
	}
	if t, ok := defaults.SourceDateEpoch(); ok {
		return t
	}
	return time.Now().UTC()
}

// Version returns the bundler version.
func (c *Config) Version() string {
	return c.version
}

// ResolverOptions returns the options passed to the dependency resolver.
func (c *Config) ResolverOptions() []resolver.Option {
	return append([]resolver.Option(nil), c.resolverOptions...)
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	for _, p := range c.resourceExcludes {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("invalid resource exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

type Option func(*Config)

// WithDefaultJVMServer sets the JVM server applied to Java parts that do not
// name one. An empty name is honoured.
func WithDefaultJVMServer(name string) Option {
	return func(c *Config) {
		c.defaultJVMServer = name
	}
}

// WithResourcesDir overrides the static resources directory. A configured
// directory must exist.
func WithResourcesDir(dir string) Option {
	return func(c *Config) {
		c.resourcesDir = dir
	}
}

// WithResourceExcludes appends static resource exclude patterns.
func WithResourceExcludes(patterns ...string) Option {
	return func(c *Config) {
		c.resourceExcludes = append(c.resourceExcludes, patterns...)
	}
}

// WithIncludeChecksums sets whether a checksums file should be included in the bundle.
func WithIncludeChecksums(enabled bool) Option {
	return func(c *Config) {
		c.includeChecksums = enabled
	}
}

// WithTimestamp pins the cics.xml timestamp.
func WithTimestamp(t time.Time) Option {
	return func(c *Config) {
		c.timestamp = t
	}
}

// WithVersion sets the version for the bundler.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// WithResolverOptions configures the dependency resolver.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(c *Config) {
		c.resolverOptions = append(c.resolverOptions, opts...)
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		defaultJVMServer: defaults.JVMServer,
		version:          "dev",
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}
