/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/archive"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

func packageCmd() *cli.Command {
	return &cli.Command{
		Name:  "package",
		Usage: "Build the bundle and zip it",
		Description: `Builds the bundle and writes <buildDir>/distributions/<name>-<version>.zip.
Entries are sorted and carry the SOURCE_DATE_EPOCH time (1980-01-01 when
unset), so the same bundle always produces the same archive.`,
		Flags: flags(projectFlags(), buildFlags(), outputFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			out, err := packageProject(ctx, cmd, p)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, format, out)
		},
	}
}

func packageProject(ctx context.Context, cmd *cli.Command, p *project.Project) (*result.Output, error) {
	_, out, err := buildProject(ctx, cmd, p)
	if err != nil {
		return nil, err
	}
	zipped, err := archive.Zip(ctx, out.OutputDir, p.ArchivePath())
	if err != nil {
		return nil, err
	}
	out.Archive = &result.Archive{
		Path:    zipped.Path,
		Size:    zipped.Size,
		Entries: zipped.Entries,
		Digest:  zipped.Digest,
	}
	return out, nil
}
