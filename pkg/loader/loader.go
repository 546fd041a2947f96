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
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
)

// Sink receives each fragment file as soon as it has been read. It is
// called from multiple goroutines.
type Sink func(source string, data []byte) error

// Result summarizes one Load.
type Result struct {
	Loaded  int `json:"loaded" yaml:"loaded"`
	Missing int `json:"missing" yaml:"missing"`
}

// Loader fetches one item's fragments from every source concurrently.
type Loader struct {
	sources         []Source
	concurrency     int
	fragmentTimeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds how many sources are read at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithFragmentTimeout bounds a single source read.
func WithFragmentTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.fragmentTimeout = d
		}
	}
}

// New creates a loader over sources.
func New(sources []Source, opts ...Option) *Loader {
	l := &Loader{
		sources:         sources,
		concurrency:     defaults.LoaderConcurrency,
		fragmentTimeout: defaults.LoaderFragmentTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Sources returns the configured sources.
func (l *Loader) Sources() []Source {
	return l.sources
}

// Load reads item's fragment from every source and passes each one to
// sink in completion order. Sources without the file are skipped. The
// first read or sink error cancels the remaining reads.
func (l *Loader) Load(ctx context.Context, item fragment.Item, sink Sink) (Result, error) {
	start := time.Now()
	defer func() {
		loadDuration.WithLabelValues(item.Kind.String()).Observe(time.Since(start).Seconds())
	}()

	rel := item.Path()
	var loaded, missing atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, src := range l.sources {
		g.Go(func() error {
			readCtx, cancel := context.WithTimeout(gctx, l.fragmentTimeout)
			defer cancel()

			data, err := src.Read(readCtx, rel)
			if err != nil {
				if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
					fragmentsTotal.WithLabelValues(src.Name(), resultMissing).Inc()
					missing.Add(1)
					slog.Debug("fragment not present", "source", src.Name(), "path", rel)
					return nil
				}
				fragmentsTotal.WithLabelValues(src.Name(), resultError).Inc()
				return apperrors.WrapWithContext(apperrors.CodeOf(err), "failed to read fragment", err,
					map[string]any{"source": src.Name(), "path": rel})
			}

			fragmentsTotal.WithLabelValues(src.Name(), resultLoaded).Inc()
			if err := sink(src.Name(), data); err != nil {
				return err
			}
			loaded.Add(1)
			return nil
		})
	}

	err := g.Wait()
	res := Result{Loaded: int(loaded.Load()), Missing: int(missing.Load())}
	if err != nil {
		return res, err
	}

	slog.Debug("fragments loaded",
		"item", item.QualifiedName(),
		"kind", item.Kind,
		"loaded", res.Loaded,
		"missing", res.Missing,
		"duration", time.Since(start))
	return res, nil
}

// Items returns every item with a fragment of the given kind in any
// walkable source, sorted by path and without duplicates. An empty kind
// lists both kinds. Sources that cannot be walked are skipped.
func (l *Loader) Items(ctx context.Context, kind fragment.Kind) ([]fragment.Item, error) {
	kinds := fragment.Kinds()
	if kind != "" {
		kinds = []fragment.Kind{kind}
	}

	seen := make(map[string]fragment.Item)
	for _, src := range l.sources {
		for _, k := range kinds {
			err := src.Walk(ctx, k, func(rel string) error {
				it, err := fragment.ParseItemPath(rel)
				if err != nil {
					slog.Warn("skipping unrecognized fragment file", "source", src.Name(), "path", rel, "error", err)
					return nil
				}
				seen[it.Path()] = it
				return nil
			})
			if errors.Is(err, ErrWalkUnsupported) {
				slog.Debug("source cannot be listed", "source", src.Name())
				break
			}
			if err != nil {
				return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to list fragments", err,
					map[string]any{"source": src.Name(), "kind": k.String()})
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	items := make([]fragment.Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, seen[p])
	}
	return items, nil
}
