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
	"net/http"
	"strings"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/serializer"
	"github.com/mchmarny/docxref/pkg/server"
)

// Handler exposes a Service over HTTP.
type Handler struct {
	svc      *Service
	cacheTTL int
}

// NewHandler creates the API handlers for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, cacheTTL: int(defaults.XrefCacheTTL.Seconds())}
}

// Routes returns the API routes keyed by path.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/implementors": h.HandleImplementors,
		"/v1/type-impls":   h.HandleTypeImpls,
		"/v1/items":        h.HandleItems,
	}
}

// HandleImplementors serves GET /v1/implementors?item=core::str::traits::FromStr.
func (h *Handler) HandleImplementors(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	item, err := itemFromQuery(r, fragment.KindTraitImpl)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid item", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.XrefHandlerTimeout)
	defer cancel()

	listing, err := h.svc.Implementors(ctx, item)
	if err != nil {
		slog.Error("failed to resolve implementors", "item", item.String(), "error", err)
		server.WriteErrorFromErr(w, r, err, "failed to resolve implementors", map[string]any{"item": item.QualifiedName()})
		return
	}
	h.cache(w)
	serializer.RespondJSON(w, http.StatusOK, listing)
}

// HandleTypeImpls serves GET /v1/type-impls?item=mycrate::Wrapper&itemType=struct&alias=mycrate::Alias.
func (h *Handler) HandleTypeImpls(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	item, err := itemFromQuery(r, fragment.KindTypeImpl)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid item", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.XrefHandlerTimeout)
	defer cancel()

	listing, err := h.svc.TypeImpls(ctx, item, strings.TrimSpace(r.URL.Query().Get("alias")))
	if err != nil {
		slog.Error("failed to resolve type impls", "item", item.String(), "error", err)
		server.WriteErrorFromErr(w, r, err, "failed to resolve type impls", map[string]any{"item": item.QualifiedName()})
		return
	}
	h.cache(w)
	serializer.RespondJSON(w, http.StatusOK, listing)
}

// HandleItems serves GET /v1/items?kind=trait.impl.
func (h *Handler) HandleItems(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	var kind fragment.Kind
	if k := strings.TrimSpace(r.URL.Query().Get("kind")); k != "" {
		parsed, err := fragment.ParseKind(k)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "invalid kind", nil)
			return
		}
		kind = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ItemsHandlerTimeout)
	defer cancel()

	idx, err := h.svc.Items(ctx, kind)
	if err != nil {
		slog.Error("failed to list items", "kind", kind, "error", err)
		server.WriteErrorFromErr(w, r, err, "failed to list items", nil)
		return
	}
	h.cache(w)
	serializer.RespondJSON(w, http.StatusOK, idx)
}

func (h *Handler) cache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.cacheTTL))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

// itemFromQuery accepts either a qualified name (item=core::clone::Clone)
// or a fragment path (item=trait.impl/core/clone/trait.Clone.js).
func itemFromQuery(r *http.Request, kind fragment.Kind) (fragment.Item, error) {
	q := r.URL.Query()
	ref := strings.TrimSpace(q.Get("item"))
	if ref == "" {
		return fragment.Item{}, apperrors.New(apperrors.ErrCodeInvalidRequest, "item parameter is required")
	}
	return ParseItemRef(kind, ref, strings.TrimSpace(q.Get("itemType")))
}

// ParseItemRef resolves an item given as a qualified name or a fragment
// path. A path must belong to kind.
func ParseItemRef(kind fragment.Kind, ref, itemType string) (fragment.Item, error) {
	if !strings.HasSuffix(ref, ".js") {
		return fragment.NewItem(kind, ref, itemType)
	}
	it, err := fragment.ParseItemPath(ref)
	if err != nil {
		return fragment.Item{}, err
	}
	if it.Kind != kind {
		return fragment.Item{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "fragment path has the wrong kind",
			map[string]any{"path": ref, "want": kind.String()})
	}
	return it, nil
}
