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

import "time"

// HTTP client timeouts for outbound requests.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Artifact resolution timeouts.
const (
	// ArtifactDownloadTimeout bounds a single download from a remote
	// Maven repository, body included.
	ArtifactDownloadTimeout = 2 * time.Minute
)

// Deploy timeouts. The deploy request itself has no total timeout: CICS
// installs the bundle before responding, which can take minutes.
const (
	// DeployConnectTimeout is the timeout for connecting to the CMCI endpoint.
	DeployConnectTimeout = 10 * time.Second

	// DeployTLSHandshakeTimeout is the TLS handshake timeout for deploy.
	DeployTLSHandshakeTimeout = 10 * time.Second
)

// Publish timeouts for OCI registry operations.
const (
	// PublishTimeout bounds a whole OCI push.
	PublishTimeout = 5 * time.Minute
)
