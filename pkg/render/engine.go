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

package render

import (
	"sync"

	"github.com/mchmarny/docxref/pkg/registry"
)

// Engine is the consumer side of a registry: it collects every table the
// registry delivers so listings can be built from the union.
type Engine[R any] struct {
	mu         sync.Mutex
	table      registry.Table[R]
	deliveries int
}

// NewEngine creates an engine with nothing consumed yet.
func NewEngine[R any]() *Engine[R] {
	return &Engine[R]{table: make(registry.Table[R])}
}

// Attach registers the engine as the registry's consumer. Fragments the
// registry buffered so far are consumed before Attach returns.
func (e *Engine[R]) Attach(reg *registry.Registry[R]) error {
	return reg.RegisterConsumer(e.Consume)
}

// Consume merges one delivered table. It is safe to call from any goroutine.
func (e *Engine[R]) Consume(t registry.Table[R]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.table.Merge(t)
	e.deliveries++
}

// Table returns a copy of everything consumed so far.
func (e *Engine[R]) Table() registry.Table[R] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Clone()
}

// Deliveries returns how many tables were consumed.
func (e *Engine[R]) Deliveries() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deliveries
}
