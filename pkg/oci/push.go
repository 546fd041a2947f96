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
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
)

// ArtifactType is the media type of docxref fragment tree artifacts.
const ArtifactType = "application/vnd.docxref.fragments.v1"

// FragmentDirs returns the documentation subdirectories holding fragments.
func FragmentDirs() []string {
	kinds := fragment.Kinds()
	dirs := make([]string, 0, len(kinds))
	for _, k := range kinds {
		dirs = append(dirs, k.Dir())
	}
	return dirs
}

// PackageOptions configures local OCI packaging.
type PackageOptions struct {
	// SourceDir is the documentation root to package.
	SourceDir string
	// OutputDir receives the OCI Image Layout store.
	OutputDir string
	// Registry, Repository and Tag name the artifact.
	Registry   string
	Repository string
	Tag        string
	// SubDirs limits the artifact to these subdirectories of SourceDir,
	// preserving their paths. Missing subdirectories are skipped.
	SubDirs []string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// ReproducibleTimestamp sets a fixed created annotation.
	ReproducibleTimestamp string
}

// PackageResult is the outcome of Package.
type PackageResult struct {
	// Digest is the SHA256 digest of the manifest.
	Digest string
	// Reference is registry/repository:tag.
	Reference string
	// StorePath is the OCI Image Layout directory.
	StorePath string
}

// PushOptions configures pushing a packaged artifact.
type PushOptions struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "acme/docs").
	Repository string
	// Tag is the artifact tag.
	Tag string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult contains the result of a successful OCI push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed artifact.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Package packs SourceDir as a single gzipped tar layer and stores the
// manifest in an OCI Image Layout under OutputDir.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required for OCI packaging")
	}
	if opts.Registry == "" {
		return nil, fmt.Errorf("registry is required for OCI packaging")
	}
	if opts.Repository == "" {
		return nil, fmt.Errorf("repository is required for OCI packaging")
	}
	if err := ValidateRegistryReference(opts.Registry, opts.Repository); err != nil {
		return nil, err
	}

	packDir, cleanup, err := preparePushDir(opts.SourceDir, opts.SubDirs)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	// ORAS resolves relative paths against the working directory
	absPackDir, err := filepath.Abs(packDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for package dir: %w", err)
	}

	fs, err := file.New(absPackDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absPackDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add source directory to store: %w", err)
	}

	annotations := make(map[string]string, len(opts.Annotations)+1)
	for k, v := range opts.Annotations {
		annotations[k] = v
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: annotations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if tagErr := fs.Tag(ctx, manifestDesc, opts.Tag); tagErr != nil {
		return nil, fmt.Errorf("failed to tag manifest in file store: %w", tagErr)
	}

	storePath := filepath.Join(opts.OutputDir, "store")
	store, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCI layout store: %w", err)
	}

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact to OCI layout: %w", err)
	}

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: fmt.Sprintf("%s/%s:%s", stripProtocol(opts.Registry), opts.Repository, opts.Tag),
		StorePath: storePath,
	}, nil
}

// PushFromStore pushes the artifact tagged opts.Tag in the OCI Image Layout
// at storePath to a remote registry.
func PushFromStore(ctx context.Context, storePath string, opts PushOptions) (*PushResult, error) {
	if opts.Tag == "" {
		return nil, fmt.Errorf("tag is required to push OCI image")
	}

	registryHost := stripProtocol(opts.Registry)
	refString := fmt.Sprintf("%s/%s:%s", registryHost, opts.Repository, opts.Tag)
	if _, parseErr := reference.ParseNormalizedNamed(refString); parseErr != nil {
		return nil, fmt.Errorf("invalid image reference '%s': %w", refString, parseErr)
	}

	store, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCI layout store: %w", err)
	}

	repo, err := newRepository(registryHost, opts.Repository, opts.PlainHTTP, opts.InsecureTLS)
	if err != nil {
		return nil, err
	}

	desc, err := oras.Copy(ctx, store, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push artifact to registry: %w", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// PushConfig configures Push.
type PushConfig struct {
	// SourceDir is the documentation root to push.
	SourceDir string
	// Reference is the target; a missing tag becomes DefaultTag.
	Reference *Reference
	// Version is recorded as the image version annotation.
	Version string
	// FragmentsOnly limits the artifact to the trait.impl and type.impl trees.
	FragmentsOnly bool
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// Push packages a documentation tree in a temporary OCI layout and pushes
// it to the registry named by cfg.Reference.
func Push(ctx context.Context, cfg PushConfig) (*PushResult, error) {
	if cfg.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required")
	}
	ref := cfg.Reference.WithTag(cfg.Reference.TagOrDefault())

	workDir, err := os.MkdirTemp("", "docxref-oci-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create work directory", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	var subDirs []string
	if cfg.FragmentsOnly {
		subDirs = FragmentDirs()
	}

	slog.Info("packaging documentation tree",
		"source", cfg.SourceDir,
		"reference", ref.ImageReference(),
		"fragments_only", cfg.FragmentsOnly)

	pkg, err := Package(ctx, PackageOptions{
		SourceDir:  cfg.SourceDir,
		OutputDir:  workDir,
		Registry:   ref.Registry,
		Repository: ref.Repository,
		Tag:        ref.Tag,
		SubDirs:    subDirs,
		Annotations: map[string]string{
			ociv1.AnnotationVersion: cfg.Version,
			ociv1.AnnotationTitle:   "docxref fragments",
			ociv1.AnnotationSource:  "https://github.com/mchmarny/docxref",
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeOf(err), "failed to package OCI artifact", err)
	}

	res, err := PushFromStore(ctx, pkg.StorePath, PushOptions{
		Registry:    ref.Registry,
		Repository:  ref.Repository,
		Tag:         ref.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push OCI artifact to registry", err)
	}

	slog.Info("OCI artifact pushed", "reference", res.Reference, "digest", res.Digest)
	return res, nil
}

// preparePushDir returns the directory to package. With subDirs set it
// builds a temp tree of hard links holding only those subdirectories.
func preparePushDir(sourceDir string, subDirs []string) (string, func(), error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "source directory not found", err,
			map[string]any{"source": sourceDir})
	}
	if !info.IsDir() {
		return "", nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "source is not a directory",
			map[string]any{"source": sourceDir})
	}
	if len(subDirs) == 0 {
		return sourceDir, nil, nil
	}

	tempDir, err := os.MkdirTemp("", "oras-push-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	linked := 0
	for _, sub := range subDirs {
		srcPath := filepath.Join(sourceDir, sub)
		if _, statErr := os.Stat(srcPath); os.IsNotExist(statErr) {
			continue
		}
		if err := hardLinkDir(srcPath, filepath.Join(tempDir, sub)); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to create hard links: %w", err)
		}
		linked++
	}
	if linked == 0 {
		cleanup()
		return "", nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "none of the requested subdirectories exist",
			map[string]any{"source": sourceDir, "subdirs": strings.Join(subDirs, ",")})
	}

	return tempDir, cleanup, nil
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

func newRepository(registryHost, repository string, plainHTTP, insecureTLS bool) (*remote.Repository, error) {
	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = plainHTTP
	repo.Client = createAuthClient(plainHTTP, insecureTLS)
	return repo, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}

// hardLinkDir recursively creates hard links from src to dst.
func hardLinkDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source directory: %w", err)
	}

	if mkdirErr := os.MkdirAll(dst, srcInfo.Mode()); mkdirErr != nil {
		return fmt.Errorf("failed to create destination directory: %w", mkdirErr)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := hardLinkDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := os.Link(srcPath, dstPath); err != nil {
				return fmt.Errorf("failed to create hard link: %w", err)
			}
		}
	}

	return nil
}
