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

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Override is a partial set of bundle part fields supplied by the user.
// Only non-nil fields are applied.
type Override struct {
	Name         *string `json:"name,omitempty" yaml:"name,omitempty"`
	JVMServer    *string `json:"jvmserver,omitempty" yaml:"jvmserver,omitempty"`
	VersionRange *string `json:"versionRange,omitempty" yaml:"versionRange,omitempty"`
}

// IsEmpty reports whether the override sets nothing.
func (o Override) IsEmpty() bool {
	return o.Name == nil && o.JVMServer == nil && o.VersionRange == nil
}

// Validate checks that every field set applies to kind k.
func (o Override) Validate(k Kind) error {
	if o.VersionRange != nil && k != KindOSGi {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("versionRange cannot be used to configure a %s bundle part, only osgi", k),
			map[string]any{"kind": string(k)})
	}
	return nil
}

// ApplyTo patches b with the fields set in o.
func (o Override) ApplyTo(b Binding) error {
	if err := o.Validate(b.Kind()); err != nil {
		return err
	}
	if o.Name != nil {
		b.SetName(*o.Name)
	}
	if o.JVMServer != nil {
		b.SetJVMServer(*o.JVMServer)
	}
	if o.VersionRange != nil {
		ob, ok := b.(*OSGiBinding)
		if !ok {
			return errors.NewWithContext(errors.ErrCodeInternal,
				"osgi binding expected for versionRange override",
				map[string]any{"kind": string(b.Kind())})
		}
		ob.SetVersionRange(*o.VersionRange)
	}
	return nil
}
