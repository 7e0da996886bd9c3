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

// Package bundler assembles CICS bundle directories.
//
// A CICS bundle is a directory with a META-INF/cics.xml manifest that
// defines the bundle's resources. The assembler turns a project into such a
// directory in one synchronous pass:
//
//  1. Validate the project version and delete the previous output directory.
//  2. Register extraConfig blocks, each resolved on its own.
//  3. Resolve the declared dependencies. No dependencies is only a warning.
//  4. Check every resolved file extension. Unsupported extensions are all
//     logged before the build fails.
//  5. Bind each artifact to a bundle part (jar to osgi, war, ear, eba),
//     apply overrides and defaults, and add it to the publisher.
//  6. Add every file of the resources directory as a static resource.
//  7. Publish descriptors, binaries, static resources and cics.xml.
//
// # Usage
//
//	p, err := project.Load("cics-bundle.yaml")
//	if err != nil {
//	    return err
//	}
//	b, err := bundler.New(bundler.WithConfig(config.NewConfig(
//	    config.WithDefaultJVMServer(p.JVMServer()),
//	    config.WithIncludeChecksums(true),
//	)))
//	if err != nil {
//	    return err
//	}
//	out, err := b.Make(ctx, p)
//
// # Output
//
// For a project named my-bundle at version 1.0.0 the directory
// build/my-bundle-1.0.0 holds:
//
//	META-INF/cics.xml          bundle manifest
//	app.warbundle, app.war     one descriptor and binary per Java part
//	a/b/c.xml                  static resources at their relative path
//	checksums.txt              when checksums are enabled
//
// # Subpackages
//
//   - part: bindings from resolved artifacts to bundle parts
//   - extraconfig: per-dependency overrides keyed by resolved file name
//   - publisher: manifest rendering and writing the bundle directory
//   - config, checksum, result: assembler settings and outputs
//
// # Errors
//
// All errors are *errors.StructuredError. Configuration problems use
// INVALID_CONFIG, dependency and extension problems RESOLUTION_FAILED,
// unreadable artifact manifests INSPECTION_FAILED and filesystem failures IO.
package bundler
