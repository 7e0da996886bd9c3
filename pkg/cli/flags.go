/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler"
	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/config"
	"github.com/NVIDIA/cics-bundle-go/pkg/defaults"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
	"github.com/NVIDIA/cics-bundle-go/pkg/serializer"
)

// Flags are built per command: urfave flags keep parse state.

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the result to this file instead of stdout",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("result format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Value:   string(serializer.FormatText),
		},
	}
}

func projectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "project file",
			Value:   defaults.ProjectFile,
		},
		&cli.StringFlag{
			Name:  "build-dir",
			Usage: "build directory, relative to the project (overrides buildDir)",
		},
	}
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "default-jvmserver",
			Usage: "JVM server for Java bundle parts that do not name one (overrides defaultJVMServer)",
		},
		&cli.StringFlag{
			Name:  "resources-dir",
			Usage: "static resources directory, relative to the project (overrides resourcesDir)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "glob of static resources to skip, added to resourceExcludes (can be repeated)",
		},
		&cli.BoolFlag{
			Name:  "checksums",
			Usage: "write checksums.txt with the sha256 of every bundle file",
		},
	}
}

func deployFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "url", Usage: "CMCI base URL, e.g. https://cicsplex.example.com:1443"},
		&cli.StringFlag{Name: "bunddef", Usage: "BUNDLE definition name"},
		&cli.StringFlag{Name: "csdgroup", Usage: "CSD group of the BUNDLE definition"},
		&cli.StringFlag{Name: "cicsplex", Usage: "CICSplex name, set together with --region"},
		&cli.StringFlag{Name: "region", Usage: "region (CSYSDEF) name, set together with --cicsplex"},
		&cli.StringFlag{Name: "username", Usage: "CMCI user name"},
		&cli.StringFlag{Name: "password", Usage: "CMCI password; prefer " + project.EnvPassword},
		&cli.BoolFlag{Name: "insecure", Usage: "skip TLS certificate verification"},
	}
}

func publishFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "reference",
			Usage: "registry reference, oci://registry/repository[:tag]; the tag defaults to the bundle version",
		},
		&cli.BoolFlag{Name: "plain-http", Usage: "use HTTP instead of HTTPS for the registry"},
		&cli.BoolFlag{Name: "insecure-tls", Usage: "skip TLS certificate verification for the registry"},
	}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// parseOutputFormat validates --format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

// loadProject reads the project file and applies command line overrides.
// Flags win over the environment, which wins over the file.
func loadProject(cmd *cli.Command) (*project.Project, error) {
	p, err := project.Load(cmd.String("project"))
	if err != nil {
		return nil, err
	}

	str := func(flag string, dst *string) {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	boolean := func(flag string, dst *bool) {
		if cmd.IsSet(flag) {
			*dst = cmd.Bool(flag)
		}
	}

	str("build-dir", &p.BuildDir)
	if cmd.IsSet("default-jvmserver") {
		jvms := cmd.String("default-jvmserver")
		p.DefaultJVMServer = &jvms
	}
	str("resources-dir", &p.ResourcesDir)
	if cmd.IsSet("exclude") {
		p.ResourceExcludes = append(p.ResourceExcludes, cmd.StringSlice("exclude")...)
	}

	str("url", &p.Deploy.URL)
	str("bunddef", &p.Deploy.BundDef)
	str("csdgroup", &p.Deploy.CSDGroup)
	str("cicsplex", &p.Deploy.CICSplex)
	str("region", &p.Deploy.Region)
	str("username", &p.Deploy.Username)
	str("password", &p.Deploy.Password)
	boolean("insecure", &p.Deploy.Insecure)

	str("reference", &p.Publish.Reference)
	boolean("plain-http", &p.Publish.PlainHTTP)
	boolean("insecure-tls", &p.Publish.InsecureTLS)

	return p, nil
}

func newBundler(cmd *cli.Command, p *project.Project) (*bundler.DefaultBundler, error) {
	return bundler.New(bundler.WithConfig(config.NewConfig(
		config.WithDefaultJVMServer(p.JVMServer()),
		config.WithIncludeChecksums(cmd.Bool("checksums")),
		config.WithVersion(version),
	)))
}

// writeResult serializes v to --output, or to the command writer.
func writeResult(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	var w *serializer.Writer
	if path := cmd.String("output"); path != "" {
		fw, err := serializer.NewFileWriterOrStdout(format, path)
		if err != nil {
			return err
		}
		w = fw
	} else {
		out := cmd.Root().Writer
		if out == nil {
			out = os.Stdout
		}
		w = serializer.NewWriter(format, out)
	}
	defer w.Close()

	return w.Serialize(ctx, v)
}
