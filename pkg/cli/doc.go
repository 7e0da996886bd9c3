/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the cbundle command line.
//
// Commands:
//
//	build    resolve dependencies and write the bundle directory
//	package  build, then zip the bundle into build/distributions
//	deploy   package, then install the zip through the CMCI endpoint
//	publish  build, then push the bundle directory to an OCI registry
//	version  print version information
//
// Every command reads the project file (--project, default cics-bundle.yaml).
// Settings are taken from flags first, then CBUNDLE_* environment
// variables, then the file.
//
// Results are written to stdout, or to --output, in the --format chosen:
// text (a one-line summary), json, yaml or table.
//
// Global flags:
//
//	--log-level     debug, info, warn or error (CBUNDLE_LOG_LEVEL; LOG_LEVEL wins)
//	--log-format    text or json (CBUNDLE_LOG_FORMAT)
//	--metrics-file  write Prometheus metrics in text format on exit
//
// Errors are printed to stderr and the process exits with status 1.
package cli
