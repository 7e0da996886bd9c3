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

package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Dependency is a declared bundle dependency. Exactly one of Path or
// Coordinate is set.
type Dependency struct {
	// Path is a file path or glob pattern relative to the project directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Coordinate is a Maven coordinate group:artifact:version[:classifier][@ext].
	Coordinate string `json:"coordinate,omitempty" yaml:"coordinate,omitempty"`

	// Name is the logical name used in logs. Defaults to the artifact id for
	// coordinates and to the file base name for paths.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// String returns the declaration as written by the user.
func (d Dependency) String() string {
	if d.Coordinate != "" {
		return d.Coordinate
	}
	return d.Path
}

// Validate checks that exactly one source is declared and that coordinates
// parse.
func (d Dependency) Validate() error {
	switch {
	case d.Path == "" && d.Coordinate == "":
		return errors.New(errors.ErrCodeInvalidConfig, "dependency must declare a path or a coordinate")
	case d.Path != "" && d.Coordinate != "":
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			"dependency must declare either a path or a coordinate, not both",
			map[string]any{"path": d.Path, "coordinate": d.Coordinate})
	case d.Coordinate != "":
		_, err := ParseCoordinate(d.Coordinate)
		return err
	}
	return nil
}

// Coordinate is a parsed Maven coordinate.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Extension  string
}

// ParseCoordinate parses group:artifact:version[:classifier][@ext].
// The extension defaults to jar.
func ParseCoordinate(s string) (Coordinate, error) {
	c := Coordinate{Extension: defaults.ArtifactExtension}

	body := s
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		body, c.Extension = s[:i], s[i+1:]
		if c.Extension == "" {
			return Coordinate{}, invalidCoordinate(s, "empty extension after '@'")
		}
	}

	parts := strings.Split(body, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, invalidCoordinate(s, "expected group:artifact:version[:classifier][@ext]")
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" || strings.ContainsAny(p, "/\\") {
			return Coordinate{}, invalidCoordinate(s, "empty or invalid segment")
		}
	}

	c.GroupID, c.ArtifactID, c.Version = parts[0], parts[1], parts[2]
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

func invalidCoordinate(s, reason string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidConfig,
		fmt.Sprintf("invalid dependency coordinate '%s': %s", s, reason),
		map[string]any{"coordinate": s})
}

// FileName returns the repository file name, artifact-version[-classifier].ext.
func (c Coordinate) FileName() string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + "." + c.Extension
}

// RepositoryPath returns the slash-separated path of the artifact relative to
// a repository root.
func (c Coordinate) RepositoryPath() string {
	return path.Join(strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID, c.Version, c.FileName())
}

// String returns the canonical coordinate form.
func (c Coordinate) String() string {
	s := c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s + "@" + c.Extension
}

// Artifact is a resolved dependency file.
type Artifact struct {
	// Path is the absolute path of the resolved file.
	Path string `json:"path" yaml:"path"`

	// Name is the logical name of the declaring dependency.
	Name string `json:"name" yaml:"name"`

	// Extension is the file extension without the dot, empty when the file
	// name has none.
	Extension string `json:"extension" yaml:"extension"`
}

// NewArtifact builds an Artifact for file, naming it name or, when name is
// empty, after the file's base name.
func NewArtifact(file, name string) Artifact {
	if name == "" {
		name = BaseName(file)
	}
	return Artifact{
		Path:      file,
		Name:      name,
		Extension: Extension(file),
	}
}

// FileName returns the last element of the artifact path.
func (a Artifact) FileName() string {
	return filepath.Base(a.Path)
}

// BaseName returns the artifact file name without its extension.
func (a Artifact) BaseName() string {
	return BaseName(a.Path)
}

// Extension returns the text after the last '.' of the file name, or ""
// when there is none.
func Extension(file string) string {
	base := filepath.Base(file)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return ""
}

// BaseName returns the file name up to its last '.'.
func BaseName(file string) string {
	base := filepath.Base(file)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}
