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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/docxref/pkg/config"
	"github.com/mchmarny/docxref/pkg/k8s/client"
	"github.com/mchmarny/docxref/pkg/loader"
	"github.com/mchmarny/docxref/pkg/serializer"
	"github.com/mchmarny/docxref/pkg/xref"
)

func sourceFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Documentation root: local directory or http(s) URL (can be repeated; overrides config)",
		Sources: cli.EnvVars("DOCXREF_SOURCES"),
	}
}

func concurrencyFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "concurrency",
		Usage: "Parallel source reads per item (overrides config)",
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (must be one of %v)", cmd.String("format"), serializer.SupportedFormats())
	}
	return f, nil
}

// loadConfig loads --config and applies the per-command overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if srcs := cmd.StringSlice("source"); len(srcs) > 0 {
		cfg.Sources = srcs
	}
	if n := cmd.Int("concurrency"); n > 0 {
		cfg.Concurrency = int(n)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("at least one --source is required")
	}
	return cfg, nil
}

func newLoader(cfg *config.Config) (*loader.Loader, error) {
	srcs, err := loader.NewSources(cfg.Sources)
	if err != nil {
		return nil, err
	}
	return loader.New(srcs, loader.WithConcurrency(cfg.Concurrency)), nil
}

func newService(cmd *cli.Command) (*xref.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	l, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}
	return xref.NewService(l, xref.WithVersion(version), xref.WithTimeout(cfg.LoadTimeout())), nil
}

// writeDocument serializes doc to --output in --format.
func writeDocument(ctx context.Context, cmd *cli.Command, doc any) error {
	return writeDocumentTo(ctx, cmd, cmd.String("output"), doc)
}

func writeDocumentTo(ctx context.Context, cmd *cli.Command, output string, doc any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := serializer.NewFileWriterOrStdout(format, output)
	if err != nil {
		return err
	}
	defer func() {
		if c, ok := ser.(serializer.Closer); ok {
			if closeErr := c.Close(); closeErr != nil {
				slog.Warn("failed to close output", "error", closeErr)
			}
		}
	}()

	if cm, ok := ser.(*serializer.ConfigMapWriter); ok {
		if kubeconfig := cmd.String("kubeconfig"); kubeconfig != "" {
			c, _, kerr := client.GetKubeClientWithConfig(kubeconfig)
			if kerr != nil {
				return fmt.Errorf("failed to create kubernetes client: %w", kerr)
			}
			cm.WithKubeClient(c)
		}
	}

	return ser.Serialize(ctx, doc)
}
