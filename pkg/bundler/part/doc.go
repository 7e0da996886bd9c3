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

// Package part binds resolved artifacts to CICS bundle parts.
//
// Each supported artifact kind has a Binding that carries the part name,
// the JVM server it runs in, and the artifact file. A binding is created by
// ForExtension (dispatch on the file extension) or ForKind (explicit kind,
// used by extra configuration), optionally patched with an Override,
// defaulted once with ApplyDefaults, and converted with ToBundlePart:
//
//	b, err := part.ForExtension(artifact.Extension, artifact)
//	if err != nil { ... }
//	if err := b.ApplyDefaults(cfg.DefaultJVMServer()); err != nil { ... }
//	res, err := b.ToBundlePart()
//
// | extension | kind | descriptor |
// |-----------|------|------------|
// | jar       | osgi | .osgibundle |
// | war       | war  | .warbundle |
// | ear       | ear  | .earbundle |
// | eba       | eba  | .ebabundle |
//
// OSGi bindings read Bundle-SymbolicName (mandatory) and Bundle-Version
// (default "0.0.0") from the jar's META-INF/MANIFEST.MF.
package part
