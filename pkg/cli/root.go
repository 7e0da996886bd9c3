/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/logging"
)

const (
	name           = "cbundle"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Build, package, deploy and publish CICS bundles",
		Version:               version,
		EnableShellCompletion: true,
		Description: `cbundle turns a project file (cics-bundle.yaml) into a CICS bundle.

build   - resolves the project dependencies and writes the bundle directory
          with its META-INF/cics.xml manifest and bundle part descriptors.
package - builds the bundle and zips it into build/distributions.
deploy  - packages the bundle and installs it through the CMCI bundle
          deployment endpoint.
publish - builds the bundle and pushes it to an OCI registry.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("CBUNDLE_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format (text, json)",
				Value:   logging.FormatText,
				Sources: cli.EnvVars("CBUNDLE_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write Prometheus metrics in text format to this file on exit",
			},
		},
		Before: initLogger,
		After:  writeMetrics,
		Commands: []*cli.Command{
			buildCmd(),
			packageCmd(),
			deployCmd(),
			publishCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog once flags are parsed, so --log-level applies
// before any command runs.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var w io.Writer = os.Stderr
	if cmd.ErrWriter != nil {
		w = cmd.ErrWriter
	}
	logging.SetDefaultLogger(w, cmd.String("log-format"), name, version, cmd.String("log-level"))
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)
	return ctx, nil
}

func writeMetrics(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
