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

// Package deploy installs a packaged CICS bundle through the CMCI
// managedcicsbundles endpoint.
//
// Validation is presence based and batched: every missing field is logged
// before a single configuration error is returned.
//
//	c := deploy.NewClient()
//	res, err := c.Deploy(ctx, "build/distributions/my-bundle-1.0.0.zip", deploy.Config{
//	    URL:      "https://cmci.example.com:1490",
//	    BundDef:  "MYDEF",
//	    CSDGroup: "MYGROUP",
//	    Username: user,
//	    Password: pass,
//	})
//
// The request is a multipart POST carrying the archive and the target
// coordinates, authenticated with HTTP basic auth. It is sent once; a
// failure is never retried because the state of a deployed bundle cannot be
// derived locally.
package deploy
