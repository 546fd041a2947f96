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
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/loader"
	"github.com/mchmarny/docxref/pkg/registry"
	"github.com/mchmarny/docxref/pkg/render"
)

// Service resolves cross-reference listings from the configured sources.
type Service struct {
	loader  *loader.Loader
	version string
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithVersion sets the producer version recorded in listing headers.
func WithVersion(v string) Option {
	return func(s *Service) {
		s.version = v
	}
}

// WithTimeout bounds one resolution.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates a service reading fragments through l.
func NewService(l *loader.Loader, opts ...Option) *Service {
	s := &Service{
		loader:  l,
		timeout: defaults.LoaderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Implementors returns the listing of every type implementing the trait.
func (s *Service) Implementors(ctx context.Context, item fragment.Item) (*render.ImplementorListing, error) {
	if item.Kind != fragment.KindTraitImpl {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "item is not a trait.impl item",
			map[string]any{"item": item.String()})
	}
	sess := NewSession()
	table, err := resolve(ctx, s, sess.ID, item, sess.Implementors, fragment.ParseImplementors)
	if err != nil {
		return nil, err
	}
	return render.Implementors(item, table, s.version), nil
}

// TypeImpls returns the impl blocks of a generic type, limited to the ones
// shown on alias's page when alias is not empty.
func (s *Service) TypeImpls(ctx context.Context, item fragment.Item, alias string) (*render.TypeImplListing, error) {
	if item.Kind != fragment.KindTypeImpl {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "item is not a type.impl item",
			map[string]any{"item": item.String()})
	}
	sess := NewSession()
	table, err := resolve(ctx, s, sess.ID, item, sess.TypeImpls, fragment.ParseTypeImpls)
	if err != nil {
		return nil, err
	}
	return render.TypeImpls(item, table, s.version).ForAlias(alias), nil
}

// Items lists every item that has fragments of kind (both kinds when empty).
func (s *Service) Items(ctx context.Context, kind fragment.Kind) (*render.ItemIndex, error) {
	items, err := s.loader.Items(ctx, kind)
	if err != nil {
		return nil, err
	}
	return render.Index(kind, items, s.version), nil
}

// resolve loads item's fragments into reg while a render engine attaches
// to it concurrently, so the engine may see a drain, direct deliveries,
// or both. The result is the same either way.
func resolve[R any](ctx context.Context, s *Service, sessionID string, item fragment.Item,
	reg *registry.Registry[R], parse func([]byte) (*fragment.Fragment[R], error)) (registry.Table[R], error) {

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	engine := render.NewEngine[R]()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.loader.Load(gctx, item, func(source string, data []byte) error {
			f, err := parse(data)
			if err != nil {
				// a broken file only loses its own entries
				slog.Warn("skipping malformed fragment",
					"session", sessionID,
					"source", source,
					"path", item.Path(),
					"error", err)
				return nil
			}
			reg.RegisterFragment(f.Table())
			return nil
		})
		return err
	})

	g.Go(func() error {
		return engine.Attach(reg)
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil && apperrors.CodeOf(err) != apperrors.ErrCodeTimeout {
			return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "resolution timed out", err)
		}
		return nil, err
	}

	stats := reg.Stats()
	slog.Debug("resolved item",
		"session", sessionID,
		"item", item.String(),
		"received", stats.Received,
		"deliveries", engine.Deliveries(),
		"libraries", len(engine.Table()))
	return engine.Table(), nil
}
