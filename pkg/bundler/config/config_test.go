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
	"testing"
	"time"

	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if got := cfg.DefaultJVMServer(); got != defaults.JVMServer {
		t.Errorf("DefaultJVMServer() = %q, want %q", got, defaults.JVMServer)
	}
	if cfg.ResourcesDir() != "" {
		t.Errorf("ResourcesDir() = %q, want empty", cfg.ResourcesDir())
	}
	if cfg.IncludeChecksums() {
		t.Error("IncludeChecksums() = true, want false")
	}
	if cfg.Version() != "dev" {
		t.Errorf("Version() = %q, want dev", cfg.Version())
	}
}

func TestNewConfigWithOptions(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	cfg := NewConfig(
		WithDefaultJVMServer(""),
		WithResourcesDir("static"),
		WithResourceExcludes("**/.DS_Store"),
		WithResourceExcludes("*.bak"),
		WithIncludeChecksums(true),
		WithTimestamp(ts),
		WithVersion("1.2.3"),
	)

	if cfg.DefaultJVMServer() != "" {
		t.Errorf("DefaultJVMServer() = %q, want empty", cfg.DefaultJVMServer())
	}
	if cfg.ResourcesDir() != "static" {
		t.Errorf("ResourcesDir() = %q, want static", cfg.ResourcesDir())
	}
	if got := cfg.ResourceExcludes(); len(got) != 2 || got[1] != "*.bak" {
		t.Errorf("ResourceExcludes() = %v", got)
	}
	if !cfg.IncludeChecksums() {
		t.Error("IncludeChecksums() = false, want true")
	}
	if got := cfg.Timestamp(); !got.Equal(ts) || got.Location() != time.UTC {
		t.Errorf("Timestamp() = %v, want %v in UTC", got, ts)
	}
	if cfg.Version() != "1.2.3" {
		t.Errorf("Version() = %q, want 1.2.3", cfg.Version())
	}
}

func TestConfigImmutability(t *testing.T) {
	cfg := NewConfig(WithResourceExcludes("a"))
	excludes := cfg.ResourceExcludes()
	excludes[0] = "changed"

	if cfg.ResourceExcludes()[0] != "a" {
		t.Error("ResourceExcludes() exposed internal state")
	}
}

func TestConfigTimestampFromEpoch(t *testing.T) {
	t.Setenv(defaults.EnvSourceDateEpoch, "1700000000")

	if got := NewConfig().Timestamp(); got.Unix() != 1700000000 {
		t.Errorf("Timestamp() = %v, want SOURCE_DATE_EPOCH", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"valid default config", NewConfig(), false},
		{"valid excludes", NewConfig(WithResourceExcludes("**/.git/**", "*.{bak,tmp}")), false},
		{"invalid exclude", NewConfig(WithResourceExcludes("[unterminated")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
