/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Summary implements serializer.Summarizer.
func (v VersionInfo) Summary() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s)",
		v.Name, v.Version, v.Commit, v.Date, v.GoVersion, v.Platform)
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: outputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, format, VersionInfo{
				Name:      name,
				Version:   version,
				Commit:    commit,
				Date:      date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}
