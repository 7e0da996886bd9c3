/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cics-bundle-go/pkg/bundler/result"
	"github.com/NVIDIA/cics-bundle-go/pkg/errors"
	"github.com/NVIDIA/cics-bundle-go/pkg/oci"
	"github.com/NVIDIA/cics-bundle-go/pkg/project"
)

func publishCmd() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Build the bundle and push it to an OCI registry",
		Description: `Builds the bundle and pushes the bundle directory as an OCI artifact of
type application/vnd.ibm.cics.bundle. The reference comes from --reference,
CBUNDLE_PUBLISH_REFERENCE or publish.reference in the project file. Without
a tag the bundle version is used.

Registry credentials are read from the Docker configuration
(~/.docker/config.json); log in with docker or oras first.

Examples:
  cbundle publish --reference oci://ghcr.io/acme/payroll
  cbundle publish --reference oci://localhost:5000/payroll:dev --plain-http`,
		Flags: flags(projectFlags(), buildFlags(), publishFlags(), outputFlags()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			out, err := runPublish(ctx, cmd)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, format, out)
		},
	}
}

// publishReference resolves the registry reference, defaulting the tag to
// the bundle version.
func publishReference(p *project.Project) (*oci.Reference, error) {
	if p.Publish.Reference == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"Please specify a registry reference for publish, e.g. --reference oci://ghcr.io/org/"+p.Name)
	}
	ref, err := oci.ParseReference(p.Publish.Reference)
	if err != nil {
		return nil, err
	}
	if ref.Tag == "" {
		tag, err := oci.TagFor(p.Version)
		if err != nil {
			return nil, err
		}
		ref = ref.WithTag(tag)
	}
	return ref, nil
}

func runPublish(ctx context.Context, cmd *cli.Command) (*result.Output, error) {
	p, err := loadProject(cmd)
	if err != nil {
		return nil, err
	}

	ref, err := publishReference(p)
	if err != nil {
		return nil, err
	}

	_, out, err := buildProject(ctx, cmd, p)
	if err != nil {
		return nil, err
	}

	pushed, err := oci.Publish(ctx, oci.PublishOptions{
		SourceDir: out.OutputDir,
		OutputDir: p.BuildPath(),
		Reference: ref,
		Annotations: map[string]string{
			ociv1.AnnotationVersion: p.Version,
		},
		PlainHTTP:   p.Publish.PlainHTTP,
		InsecureTLS: p.Publish.InsecureTLS,
	})
	if err != nil {
		return nil, err
	}

	out.Publication = &result.Publication{
		Reference: pushed.Reference,
		Digest:    pushed.Digest,
	}
	return out, nil
}
