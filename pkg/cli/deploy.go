/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/deploy"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Package the bundle and install it through CMCI",
		Description: `Packages the bundle, unless --archive names an existing zip, and posts it
to the CMCI bundle deployment endpoint, which installs it using the named
BUNDLE definition.

Connection settings come from the deploy section of the project file, the
CBUNDLE_* environment variables and the flags below, flags winning.

Examples:
  cbundle deploy --url https://cicsplex.example.com:1443 \
    --bunddef PAYROLL --csdgroup PAYGRP --username IBMUSER
  CBUNDLE_PASSWORD=secret cbundle deploy --archive build/distributions/payroll-1.0.0.zip`,
		Flags: flags(
			projectFlags(),
			buildFlags(),
			deployFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:  "archive",
					Usage: "deploy this existing bundle zip instead of packaging the project",
				},
			},
			outputFlags(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			out, err := runDeploy(ctx, cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, format, out)
		},
	}
}

func runDeploy(ctx context.Context, cmd *cli.Command) (*result.Output, error) {
	p, err := loadProject(cmd)
	if err != nil {
		return nil, err
	}

	// configuration problems are reported before anything is built
	if err := p.Deploy.Validate(); err != nil {
		return nil, err
	}

	out, err := archiveFor(ctx, cmd, p)
	if err != nil {
		return nil, err
	}

	res, err := deploy.NewClient(deploy.WithUserAgent(fmt.Sprintf("%s/%s", name, version))).
		Deploy(ctx, out.Archive.Path, p.Deploy)
	if err != nil {
		return nil, err
	}

	out.Deployment = &result.Deployment{
		URL:       p.Deploy.URL,
		BundDef:   p.Deploy.BundDef,
		CSDGroup:  p.Deploy.CSDGroup,
		RequestID: res.RequestID,
		Status:    res.Status,
		Message:   res.Message,
	}
	return out, nil
}

// archiveFor packages the project unless --archive names a zip to use as is.
func archiveFor(ctx context.Context, cmd *cli.Command, p *project.Project) (*result.Output, error) {
	path := cmd.String("archive")
	if path == "" {
		return packageProject(ctx, cmd, p)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("bundle archive '%s' not found", path), err,
			map[string]any{"path": path})
	}
	if info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("bundle archive '%s' is a directory", path),
			map[string]any{"path": path})
	}

	slog.Info("deploying existing archive", "path", path)
	return &result.Output{
		BundleID: p.Name,
		Version:  p.Version,
		Archive:  &result.Archive{Path: path, Size: info.Size()},
	}, nil
}
