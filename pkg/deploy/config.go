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

package deploy

import (
	"log/slog"

	"github.com/MakeNowJust/heredoc"

	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
)

// Validation messages, one per missing field.
const (
	MsgMissingConfig   = "Missing or empty deploy configuration"
	MsgMissingCICSplex = "Specify cicsplex for deploy"
	MsgMissingRegion   = "Specify region for deploy"
	MsgMissingBunddef  = "Specify bundle definition name for deploy"
	MsgMissingCSDGroup = "Specify csd group for deploy"
	MsgMissingURL      = "Specify url for deploy"
	MsgMissingUsername = "Specify username for deploy"
	MsgMissingPassword = "Specify password for deploy"
	MsgPleaseSpecify   = "Please specify deploy configuration"
)

var configExample = heredoc.Doc(`
	Example:
	  deploy:
	    cicsplex: MYPLEX
	    region:   MYREGION
	    bunddef:  MYDEF
	    csdgroup: MYGROUP
	    url:      https://myserver.site.domain.com:1490
	    # set CBUNDLE_USERNAME and CBUNDLE_PASSWORD in the environment
	    username: my_username
	    password: my_password

	bunddef, csdgroup, url, username and password are required.
	cicsplex and region must be set together or not at all.
`)

// Config is the deploy target of a bundle.
type Config struct {
	// URL is the CMCI endpoint, e.g. https://host:port.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// BundDef is the CICS BUNDLE definition name.
	BundDef string `json:"bunddef,omitempty" yaml:"bunddef,omitempty"`

	// CSDGroup is the CSD group holding the bundle definition.
	CSDGroup string `json:"csdgroup,omitempty" yaml:"csdgroup,omitempty"`

	// CICSplex and Region scope the install. Both or neither.
	CICSplex string `json:"cicsplex,omitempty" yaml:"cicsplex,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`

	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"-" yaml:"password,omitempty"`

	// Insecure disables TLS certificate verification.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
}

// Problems returns the validation message of every missing field, in a
// stable order. Values are only checked for presence.
func (c Config) Problems() []string {
	if c.CICSplex == "" && c.Region == "" && c.BundDef == "" && c.CSDGroup == "" {
		return []string{MsgMissingConfig}
	}

	var problems []string
	if c.CICSplex == "" && c.Region != "" {
		problems = append(problems, MsgMissingCICSplex)
	}
	if c.Region == "" && c.CICSplex != "" {
		problems = append(problems, MsgMissingRegion)
	}
	if c.BundDef == "" {
		problems = append(problems, MsgMissingBunddef)
	}
	if c.CSDGroup == "" {
		problems = append(problems, MsgMissingCSDGroup)
	}
	if c.URL == "" {
		problems = append(problems, MsgMissingURL)
	}
	if c.Username == "" {
		problems = append(problems, MsgMissingUsername)
	}
	if c.Password == "" {
		problems = append(problems, MsgMissingPassword)
	}
	return problems
}

// Validate logs every problem found by Problems and then fails once with an
// example of a complete configuration.
func (c Config) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		slog.Error(p)
	}
	return errors.NewWithContext(errors.ErrCodeInvalidConfig,
		MsgPleaseSpecify+"\n\n"+configExample,
		map[string]any{"problems": problems})
}
