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

package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/serializer"
)

// ErrWalkUnsupported is returned by sources that cannot enumerate files.
var ErrWalkUnsupported = apperrors.New(apperrors.ErrCodeMethodNotAllowed, "source does not support listing")

// WalkFunc receives the root-relative, slash-separated path of every
// fragment file found.
type WalkFunc func(rel string) error

// Source is one generated documentation tree.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Read returns the file at rel, or a NOT_FOUND error when it does not exist.
	Read(ctx context.Context, rel string) ([]byte, error)
	// Walk calls fn for every fragment file of the given kind.
	Walk(ctx context.Context, kind fragment.Kind, fn WalkFunc) error
}

// NewSource picks a Source implementation for ref: http(s) URLs become an
// HTTPSource, anything else (optionally file://) a DirSource.
func NewSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "source is empty")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return NewHTTPSource(ref)
	}
	return NewDirSource(strings.TrimPrefix(ref, "file://"))
}

// NewSources builds one Source per ref.
func NewSources(refs []string) ([]Source, error) {
	out := make([]Source, 0, len(refs))
	for _, ref := range refs {
		s, err := NewSource(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DirSource reads fragments from a local documentation root.
type DirSource struct {
	root     string
	maxBytes int64
}

// NewDirSource returns a source rooted at dir, which must exist.
func NewDirSource(dir string) (*DirSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid source directory", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound, "source directory not found", err,
			map[string]any{"dir": dir})
	}
	if !info.IsDir() {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "source is not a directory",
			map[string]any{"dir": dir})
	}
	return &DirSource{root: abs, maxBytes: defaults.MaxFragmentBytes}, nil
}

// Name returns the source root.
func (s *DirSource) Name() string { return s.root }

// Root returns the absolute documentation root.
func (s *DirSource) Root() string { return s.root }

func (s *DirSource) Read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(rel) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid fragment path",
			map[string]any{"path": rel})
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "fragment not found",
				map[string]any{"source": s.root, "path": rel})
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to open fragment", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to read fragment", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "fragment exceeds size limit",
			map[string]any{"path": rel, "limit": s.maxBytes})
	}
	return data, nil
}

func (s *DirSource) Walk(ctx context.Context, kind fragment.Kind, fn WalkFunc) error {
	base := filepath.Join(s.root, kind.Dir())
	if _, err := os.Stat(base); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".js") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// HTTPSource reads fragments from a published documentation site.
type HTTPSource struct {
	base   *url.URL
	reader *serializer.HttpReader
}

// NewHTTPSource returns a source for the documentation root at baseURL.
func NewHTTPSource(baseURL string, opts ...serializer.HttpReaderOption) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid source url",
			map[string]any{"url": baseURL})
	}
	opts = append([]serializer.HttpReaderOption{serializer.WithTotalTimeout(defaults.LoaderFragmentTimeout)}, opts...)
	return &HTTPSource{base: u, reader: serializer.NewHttpReader(opts...)}, nil
}

// Name returns the base URL.
func (s *HTTPSource) Name() string { return s.base.String() }

func (s *HTTPSource) Read(ctx context.Context, rel string) ([]byte, error) {
	if !fs.ValidPath(rel) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid fragment path",
			map[string]any{"path": rel})
	}
	return s.reader.ReadWithContext(ctx, s.base.JoinPath(rel).String())
}

// Walk is not possible over plain HTTP.
func (s *HTTPSource) Walk(context.Context, fragment.Kind, WalkFunc) error {
	return ErrWalkUnsupported
}
