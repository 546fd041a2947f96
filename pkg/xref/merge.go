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

package xref

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/header"
	"github.com/mchmarny/docxref/pkg/loader"
	"github.com/mchmarny/docxref/pkg/registry"
)

// MergedItem describes one fragment file written by Merge.
type MergedItem struct {
	Path      string   `json:"path" yaml:"path"`
	Libraries []string `json:"libraries" yaml:"libraries"`
	Records   int      `json:"records" yaml:"records"`
	Sources   int      `json:"sources" yaml:"sources"`
	// Shadowed lists libraries also found in a later source and dropped there.
	Shadowed []string `json:"shadowed,omitempty" yaml:"shadowed,omitempty"`
}

// MergeReport summarizes a Merge run.
type MergeReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Output  string       `json:"output" yaml:"output"`
	Sources []string     `json:"sources" yaml:"sources"`
	Total   int          `json:"total" yaml:"total"`
	Items   []MergedItem `json:"items" yaml:"items"`
}

// MergeOption configures Merge.
type MergeOption func(*mergeOptions)

type mergeOptions struct {
	version     string
	concurrency int
}

// WithMergeVersion sets the version recorded in the report header.
func WithMergeVersion(v string) MergeOption {
	return func(o *mergeOptions) {
		o.version = v
	}
}

// WithMergeConcurrency bounds how many items are merged at once.
func WithMergeConcurrency(n int) MergeOption {
	return func(o *mergeOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Merge combines the fragment files of several documentation trees into one
// tree under out. Each item's fragments are buffered in a registry that never
// gets a consumer, and the pending union is written as a single fragment.
//
// A library owns its entry: when several sources carry the same library for
// an item, the entry of the first source in the list is kept. Merging a tree
// together with its own merged output therefore changes nothing.
func Merge(ctx context.Context, sources []loader.Source, out string, opts ...MergeOption) (*MergeReport, error) {
	o := &mergeOptions{concurrency: defaults.LoaderConcurrency}
	for _, opt := range opts {
		opt(o)
	}
	if out == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "merge output directory is required")
	}
	if len(sources) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "at least one source is required")
	}

	l := loader.New(sources, loader.WithConcurrency(o.concurrency))
	items, err := l.Items(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	report := &MergeReport{Output: out}
	report.Init(header.KindMergeReport, header.APIVersion, o.version)
	report.Metadata["sources"] = strconv.Itoa(len(sources))
	for _, s := range sources {
		report.Sources = append(report.Sources, s.Name())
	}
	order := report.Sources

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, item := range items {
		g.Go(func() error {
			var (
				m   *MergedItem
				err error
			)
			switch item.Kind {
			case fragment.KindTraitImpl:
				m, err = mergeItem(gctx, l, order, item, out, fragment.ParseImplementors)
			case fragment.KindTypeImpl:
				m, err = mergeItem(gctx, l, order, item, out, fragment.ParseTypeImpls)
			default:
				return apperrors.NewWithContext(apperrors.ErrCodeInternal, "unknown item kind",
					map[string]any{"item": item.String()})
			}
			if err != nil {
				return err
			}
			mu.Lock()
			report.Items = append(report.Items, *m)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Items, func(i, j int) bool {
		return report.Items[i].Path < report.Items[j].Path
	})
	report.Total = len(report.Items)

	slog.Info("merge complete", "output", out, "items", report.Total, "sources", len(sources))
	return report, nil
}

func mergeItem[R any](ctx context.Context, l *loader.Loader, order []string, item fragment.Item, out string,
	parse func([]byte) (*fragment.Fragment[R], error)) (*MergedItem, error) {

	var mu sync.Mutex
	bySource := make(map[string]registry.Table[R], len(order))

	res, err := l.Load(ctx, item, func(source string, data []byte) error {
		f, err := parse(data)
		if err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "malformed fragment", err,
				map[string]any{"source": source, "path": item.Path()})
		}
		mu.Lock()
		defer mu.Unlock()
		bySource[source] = f.Table()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// fragments arrive in any order; claim libraries in source order
	reg := registry.New[R](registry.WithName(item.Kind.Variable()))
	owner := make(map[string]string)
	var shadowed []string
	for _, source := range order {
		t, ok := bySource[source]
		if !ok {
			continue
		}
		keep := make(registry.Table[R], len(t))
		for _, lib := range t.Libraries() {
			if first, taken := owner[lib]; taken {
				slog.Debug("library already merged from an earlier source",
					"path", item.Path(), "library", lib, "kept", first, "dropped", source)
				shadowed = append(shadowed, lib)
				continue
			}
			owner[lib] = source
			keep[lib] = t[lib]
		}
		reg.RegisterFragment(keep)
	}
	sort.Strings(shadowed)
	shadowed = slices.Compact(shadowed)

	table := reg.Pending()
	data, err := fragment.FromTable(item.Kind, table).Render()
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to render merged fragment", err,
			map[string]any{"path": item.Path()})
	}

	dst := filepath.Join(out, filepath.FromSlash(item.Path()))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil { //nolint:gosec // fragments are published documentation
		return nil, fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return &MergedItem{
		Path:      item.Path(),
		Libraries: table.Libraries(),
		Records:   table.Len(),
		Sources:   res.Loaded,
		Shadowed:  shadowed,
	}, nil
}
