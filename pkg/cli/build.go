/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the CICS bundle directory",
		Description: `Resolves every dependency of the project, writes a bundle part for each
resolved Java artifact, copies static resources and writes the
META-INF/cics.xml manifest into <buildDir>/<name>-<version>.

Examples:
  cbundle build
  cbundle build --project services/payroll/cics-bundle.yaml --format json
  cbundle build --default-jvmserver DFHWLP --exclude '**/*.bak'`,
		Flags: flags(projectFlags(), buildFlags(), outputFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			_, out, err := runBuild(ctx, cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, format, out)
		},
	}
}

func runBuild(ctx context.Context, cmd *cli.Command) (*project.Project, *result.Output, error) {
	p, err := loadProject(cmd)
	if err != nil {
		return nil, nil, err
	}
	return buildProject(ctx, cmd, p)
}

func buildProject(ctx context.Context, cmd *cli.Command, p *project.Project) (*project.Project, *result.Output, error) {
	b, err := newBundler(cmd, p)
	if err != nil {
		return nil, nil, err
	}
	out, err := b.Make(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return p, out, nil
}
