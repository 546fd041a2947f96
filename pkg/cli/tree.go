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

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/docxref/pkg/defaults"
	"github.com/mchmarny/docxref/pkg/loader"
	"github.com/mchmarny/docxref/pkg/oci"
	"github.com/mchmarny/docxref/pkg/xref"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "verify",
		EnableShellCompletion: true,
		Usage:                 "Check every fragment against its provenance trailer",
		Description: `Walks the trait.impl and type.impl trees of each local source and checks
that the byte offsets in each fragment's trailing provenance comment
describe the file. Exits non-zero when any fragment fails.

# Examples

  docxref verify --source ./target/doc`,
		Flags: []cli.Flag{sourceFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			srcs, err := loader.NewSources(cfg.Sources)
			if err != nil {
				return err
			}

			reports := make([]*xref.VerifyReport, 0, len(srcs))
			failed := 0
			for _, s := range srcs {
				r, err := xref.Verify(ctx, s, version)
				if errors.Is(err, loader.ErrWalkUnsupported) {
					return fmt.Errorf("cannot verify %s: only local directories can be walked", s.Name())
				}
				if err != nil {
					return fmt.Errorf("failed to verify %s: %w", s.Name(), err)
				}
				slog.Info("verified source", "source", s.Name(), "checked", r.Checked, "failed", r.Failed)
				failed += r.Failed
				reports = append(reports, r)
			}

			var doc any = reports
			if len(reports) == 1 {
				doc = reports[0]
			}
			if err := writeDocument(ctx, cmd, doc); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d fragment(s) failed verification", failed)
			}
			return nil
		},
	}
}

func mergeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "merge",
		EnableShellCompletion: true,
		Usage:                 "Merge the fragments of several documentation trees into one",
		Description: `For every item found in any local source, the item's fragments from all
sources are combined into one fragment file under --output, with libraries
sorted and a fresh provenance trailer. The merge report is printed to
stdout in --format.

# Examples

  docxref merge -s ./crate-a/target/doc -s ./crate-b/target/doc --output ./merged`,
		Flags: []cli.Flag{
			sourceFlag(),
			concurrencyFlag(),
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLIMergeTimeout,
				Usage: "Timeout for the whole merge",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.String("output")
			if out == "" {
				return fmt.Errorf("--output directory is required for merge")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			srcs, err := loader.NewSources(cfg.Sources)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			report, err := xref.Merge(ctx, srcs, out,
				xref.WithMergeVersion(version),
				xref.WithMergeConcurrency(cfg.Concurrency))
			if err != nil {
				return fmt.Errorf("merge failed: %w", err)
			}
			return writeDocumentTo(ctx, cmd, "", report)
		},
	}
}

func registryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "Use HTTP instead of HTTPS for the OCI registry (for local development)",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "Skip TLS certificate verification for the OCI registry",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaults.CLIOCITimeout,
			Usage: "Timeout for the registry transfer",
		},
	}
}

// referenceArg parses the single oci:// argument of push and pull.
func referenceArg(cmd *cli.Command) (*oci.Reference, error) {
	if cmd.Args().Len() != 1 {
		return nil, fmt.Errorf("expected exactly one %sregistry/repository[:tag] argument", oci.URIScheme)
	}
	return oci.ParseReference(cmd.Args().First())
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:                  "push",
		EnableShellCompletion: true,
		Usage:                 "Push a documentation tree to an OCI registry",
		ArgsUsage:             "oci://registry/repository[:tag]",
		Description: fmt.Sprintf(`Packages a local documentation root as an OCI artifact (%s)
and pushes it. A reference without a tag uses %q.

# Examples

  docxref push --source ./target/doc --fragments-only oci://ghcr.io/acme/docs:v1.2.0
  docxref push --source ./target/doc --plain-http oci://localhost:5000/docs`, oci.ArtifactType, oci.DefaultTag),
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "Local documentation root to push",
			},
			&cli.BoolFlag{
				Name:  "fragments-only",
				Usage: "Push only the trait.impl and type.impl directories",
			},
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref, err := referenceArg(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := oci.Push(ctx, oci.PushConfig{
				SourceDir:     cmd.String("source"),
				Reference:     ref,
				Version:       version,
				FragmentsOnly: cmd.Bool("fragments-only"),
				PlainHTTP:     cmd.Bool("plain-http"),
				InsecureTLS:   cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Pushed %s\nDigest: %s\n", res.Reference, res.Digest)
			return nil
		},
	}
}

func pullCmd() *cli.Command {
	return &cli.Command{
		Name:                  "pull",
		EnableShellCompletion: true,
		Usage:                 "Pull a documentation tree from an OCI registry",
		ArgsUsage:             "oci://registry/repository[:tag]",
		Description: `Fetches an artifact pushed with "docxref push" and unpacks the tree into
--output, ready to use as a --source.

# Examples

  docxref pull oci://ghcr.io/acme/docs:v1.2.0 --output ./docs
  docxref implementors -s ./docs --item acme::Codec`,
		Flags: registryFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref, err := referenceArg(cmd)
			if err != nil {
				return err
			}
			out := cmd.String("output")
			if out == "" {
				return fmt.Errorf("--output directory is required for pull")
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := oci.Pull(ctx, oci.PullConfig{
				Reference:   ref,
				OutputDir:   out,
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "Pulled %s into %s\nDigest: %s\n", res.Reference, res.OutputDir, res.Digest)
			return nil
		},
	}
}
