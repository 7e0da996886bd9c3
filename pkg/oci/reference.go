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

package oci

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// URIScheme prefixes registry references on the command line and in the
// project file, e.g. "oci://ghcr.io/org/bundles:1.0.0". It is optional.
const URIScheme = "oci://"

var anchoredTag = regexp.MustCompile(`^` + reference.TagRegexp.String() + `$`)

// Reference is a parsed registry target.
type Reference struct {
	// Registry is the registry host, e.g. "ghcr.io" or "localhost:5000".
	Registry string
	// Repository is the repository path, e.g. "org/bundles".
	Repository string
	// Tag is empty when the reference names none; callers apply a default.
	Tag string
}

// ParseReference parses registry/repository[:tag], with or without the
// oci:// scheme. Digest references are rejected since a push creates the
// digest.
func ParseReference(target string) (*Reference, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(target), URIScheme)
	if raw == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "registry reference is required")
	}

	ref, err := reference.ParseNormalizedNamed(raw)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry reference '%s'", target), err,
			map[string]any{"reference": target})
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("registry reference '%s' must not contain a digest", target),
			map[string]any{"reference": target})
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(r.Registry, r.Repository); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateRegistryReference checks a registry host and repository path.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "registry is required")
	}
	if repository == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "repository is required")
	}
	if _, err := reference.ParseNormalizedNamed(registry + "/" + repository); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry reference '%s/%s'", registry, repository), err,
			map[string]any{"registry": registry, "repository": repository})
	}
	return nil
}

// TagFor turns a bundle version into a registry tag. Semantic version build
// metadata ("+") is not allowed in tags and becomes "_".
func TagFor(version string) (string, error) {
	tag := strings.ReplaceAll(version, "+", "_")
	if !anchoredTag.MatchString(tag) {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("version '%s' cannot be used as a registry tag", version),
			map[string]any{"version": version})
	}
	return tag, nil
}

// String returns the reference with the oci:// scheme.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag].
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with tag set.
func (r *Reference) WithTag(tag string) *Reference {
	c := *r
	c.Tag = tag
	return &c
}
