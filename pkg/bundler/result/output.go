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

package result

import (
	"fmt"
	"strings"
	"time"

	"github.com/inhies/go-bytesize"
)

// Part describes one Java bundle part written into the bundle.
type Part struct {
	// Name is the bundle part name.
	Name string `json:"name" yaml:"name"`

	// Kind is osgi, war, ear or eba.
	Kind string `json:"kind" yaml:"kind"`

	// JVMServer is the JVM server the part is installed into.
	JVMServer string `json:"jvmserver" yaml:"jvmserver"`

	// Source is the resolved artifact file.
	Source string `json:"source" yaml:"source"`

	// Descriptor is the bundle-relative path of the part descriptor.
	Descriptor string `json:"descriptor" yaml:"descriptor"`
}

// Archive describes the zip built from the bundle directory.
type Archive struct {
	Path    string `json:"path" yaml:"path"`
	Size    int64  `json:"size_bytes" yaml:"size_bytes"`
	Entries int    `json:"entries" yaml:"entries"`
	Digest  string `json:"digest,omitempty" yaml:"digest,omitempty"`
}

// Deployment describes a completed deploy request.
type Deployment struct {
	URL       string `json:"url" yaml:"url"`
	BundDef   string `json:"bunddef" yaml:"bunddef"`
	CSDGroup  string `json:"csdgroup" yaml:"csdgroup"`
	RequestID string `json:"request_id" yaml:"request_id"`
	Status    int    `json:"status" yaml:"status"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Publication describes a bundle pushed to an OCI registry.
type Publication struct {
	Reference string `json:"reference" yaml:"reference"`
	Digest    string `json:"digest" yaml:"digest"`
}

// Output summarizes a bundle build and whatever ran after it.
type Output struct {
	// BundleID is the bundle id written into cics.xml.
	BundleID string `json:"bundle_id" yaml:"bundle_id"`

	// Version is the bundle version as written in the project.
	Version string `json:"version" yaml:"version"`

	// OutputDir is the directory the bundle was written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Parts are the Java bundle parts, in resolution order.
	Parts []Part `json:"parts" yaml:"parts"`

	// StaticResources are the bundle-relative paths of copied resources.
	StaticResources []string `json:"static_resources" yaml:"static_resources"`

	// Files are the bundle-relative paths of every written file, sorted.
	Files []string `json:"files" yaml:"files"`

	// TotalSize is the total size in bytes of all written files.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// TotalDuration is the time the build took.
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`

	// Checksums is the checksums file path, when one was written.
	Checksums string `json:"checksums,omitempty" yaml:"checksums,omitempty"`

	Archive     *Archive     `json:"archive,omitempty" yaml:"archive,omitempty"`
	Deployment  *Deployment  `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	Publication *Publication `json:"publication,omitempty" yaml:"publication,omitempty"`
}

// TotalFiles returns the number of written files.
func (o *Output) TotalFiles() int {
	return len(o.Files)
}

// PartsByKind counts parts per kind.
func (o *Output) PartsByKind() map[string]int {
	counts := make(map[string]int)
	for _, p := range o.Parts {
		counts[p.Kind]++
	}
	return counts
}

// Summary returns a human-readable summary of the bundle generation.
func (o *Output) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Built bundle %s %s: %d parts, %d static resources, %d files (%s) in %v.",
		o.BundleID,
		o.Version,
		len(o.Parts),
		len(o.StaticResources),
		o.TotalFiles(),
		FormatBytes(o.TotalSize),
		o.TotalDuration.Round(time.Millisecond),
	)
	if o.Archive != nil {
		fmt.Fprintf(&sb, " Archive: %s (%s).", o.Archive.Path, FormatBytes(o.Archive.Size))
	}
	if o.Deployment != nil {
		fmt.Fprintf(&sb, " Deployed %s to %s.", o.Deployment.BundDef, o.Deployment.URL)
	}
	if o.Publication != nil {
		fmt.Fprintf(&sb, " Published %s@%s.", o.Publication.Reference, o.Publication.Digest)
	}
	return sb.String()
}

// FormatBytes formats a byte count for humans.
func FormatBytes(n int64) string {
	return bytesize.New(float64(n)).String()
}
