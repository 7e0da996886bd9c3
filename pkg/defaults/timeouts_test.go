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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// HTTP client timeouts
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, 1 * time.Second, 30 * time.Second},

		// Resolution timeouts
		{"ArtifactDownloadTimeout", ArtifactDownloadTimeout, 30 * time.Second, 10 * time.Minute},

		// Deploy timeouts
		{"DeployConnectTimeout", DeployConnectTimeout, 1 * time.Second, 60 * time.Second},
		{"DeployTLSHandshakeTimeout", DeployTLSHandshakeTimeout, 1 * time.Second, 60 * time.Second},

		// Publish timeouts
		{"PublishTimeout", PublishTimeout, 1 * time.Minute, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestHTTPTimeoutRelationships(t *testing.T) {
	// headers must arrive well within the download budget
	if HTTPResponseHeaderTimeout >= ArtifactDownloadTimeout {
		t.Errorf("HTTPResponseHeaderTimeout (%v) should be less than ArtifactDownloadTimeout (%v)",
			HTTPResponseHeaderTimeout, ArtifactDownloadTimeout)
	}

	if HTTPConnectTimeout >= HTTPResponseHeaderTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPResponseHeaderTimeout (%v)",
			HTTPConnectTimeout, HTTPResponseHeaderTimeout)
	}
}

func TestBundleDefaults(t *testing.T) {
	if JVMServer == "" {
		t.Error("JVMServer must not be empty")
	}
	if OSGiBundleVersion != "0.0.0" {
		t.Errorf("OSGiBundleVersion = %q, want 0.0.0", OSGiBundleVersion)
	}
	if ResourcesDir != "src/main/resources" {
		t.Errorf("ResourcesDir = %q", ResourcesDir)
	}
}
