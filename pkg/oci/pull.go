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

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

// PullConfig configures Pull.
type PullConfig struct {
	// Reference is the source artifact; a missing tag becomes DefaultTag.
	Reference *Reference
	// OutputDir receives the unpacked documentation tree.
	OutputDir string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PullResult contains the result of a successful OCI pull.
type PullResult struct {
	// Digest is the SHA256 digest of the pulled manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
	// OutputDir is where the tree was unpacked.
	OutputDir string
}

// Pull fetches a fragment tree artifact and unpacks it into cfg.OutputDir.
func Pull(ctx context.Context, cfg PullConfig) (*PullResult, error) {
	if cfg.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	ref := cfg.Reference.WithTag(cfg.Reference.TagOrDefault())

	repo, err := newRepository(ref.Registry, ref.Repository, cfg.PlainHTTP, cfg.InsecureTLS)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	slog.Info("pulling documentation tree", "reference", ref.ImageReference(), "output", cfg.OutputDir)

	res, err := pullFrom(ctx, repo, ref.Tag, cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	res.Reference = ref.ImageReference()

	slog.Info("OCI artifact pulled", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

// pullFrom copies the artifact tagged tag from src into a file store rooted
// at outputDir, which unpacks the directory layer.
func pullFrom(ctx context.Context, src oras.ReadOnlyTarget, tag, outputDir string) (*PullResult, error) {
	if outputDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "output directory is required")
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for output dir: %w", err)
	}
	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fs, err := file.New(absOut)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	desc, err := oras.Copy(ctx, src, tag, fs, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeUnavailable, "failed to pull artifact", err,
			map[string]any{"tag": tag})
	}

	return &PullResult{
		Digest:    desc.Digest.String(),
		OutputDir: absOut,
	}, nil
}
