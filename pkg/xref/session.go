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
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/registry"
)

// Session is the state of one page view: a fresh pair of registries that
// receive the page's fragments and at most one consumer each. Sessions are
// discarded once the page has been resolved.
type Session struct {
	ID           string
	Created      time.Time
	Implementors *registry.Registry[fragment.Implementor]
	TypeImpls    *registry.Registry[fragment.TypeImpl]
}

// NewSession creates a session with empty registries.
func NewSession() *Session {
	id := uuid.New().String()
	logger := slog.Default().With("session", id)
	return &Session{
		ID:      id,
		Created: time.Now().UTC(),
		Implementors: registry.New[fragment.Implementor](
			registry.WithName(fragment.KindTraitImpl.Variable()),
			registry.WithLogger(logger),
		),
		TypeImpls: registry.New[fragment.TypeImpl](
			registry.WithName(fragment.KindTypeImpl.Variable()),
			registry.WithLogger(logger),
		),
	}
}
