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

package registry

import (
	"log/slog"
	"sort"
	"sync"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

// Table maps a library name to the records contributed for it so far.
// Records under the same library are concatenated, never overwritten.
type Table[R any] map[string][]R

// Merge appends every record list of other onto t, key by key.
// Record order within each list of other is preserved. A key present in
// other with an empty list is still added to t.
func (t Table[R]) Merge(other Table[R]) {
	for lib, records := range other {
		existing, ok := t[lib]
		if !ok {
			existing = make([]R, 0, len(records))
		}
		t[lib] = append(existing, records...)
	}
}

// Clone returns a deep copy of the table structure. Records are copied by value.
func (t Table[R]) Clone() Table[R] {
	if t == nil {
		return nil
	}
	out := make(Table[R], len(t))
	out.Merge(t)
	return out
}

// Libraries returns the library names in the table, sorted.
func (t Table[R]) Libraries() []string {
	libs := make([]string, 0, len(t))
	for lib := range t {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}

// Len returns the total number of records across all libraries.
func (t Table[R]) Len() int {
	n := 0
	for _, records := range t {
		n += len(records)
	}
	return n
}

// Consumer receives tables from a Registry. It is the render engine's hook.
type Consumer[R any] func(Table[R])

var (
	// ErrConsumerRegistered is returned when a consumer is already set.
	// The first consumer stays in place.
	ErrConsumerRegistered = apperrors.New(apperrors.ErrCodeConflict, "consumer already registered")

	// ErrNilConsumer is returned when RegisterConsumer is called with nil.
	ErrNilConsumer = apperrors.New(apperrors.ErrCodeInvalidRequest, "consumer is nil")
)

// Stats summarizes what a Registry has seen.
type Stats struct {
	// Received counts RegisterFragment calls.
	Received int `json:"received" yaml:"received"`
	// Buffered counts fragments that landed in the pending buffer.
	Buffered int `json:"buffered" yaml:"buffered"`
	// Deliveries counts consumer invocations, including the drain.
	Deliveries int `json:"deliveries" yaml:"deliveries"`
	// Drained is true once the pending buffer was handed to the consumer.
	Drained bool `json:"drained" yaml:"drained"`
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
}

// WithName sets the name used in logs and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Registry accumulates fragment tables until a consumer registers, then
// hands everything to that consumer exactly once and forwards every later
// fragment directly.
//
// Deliveries go through a FIFO queue and the consumer runs without the
// registry lock held. One goroutine delivers at a time, so the consumer sees
// tables strictly in order. A consumer may call back into the same Registry;
// the nested fragment is delivered right after the current call returns.
// Once every RegisterFragment and RegisterConsumer call has returned, every
// accepted fragment has reached the consumer.
type Registry[R any] struct {
	name   string
	logger *slog.Logger

	mu         sync.Mutex
	consumer   Consumer[R]
	pending    Table[R]
	queue      []delivery[R]
	delivering bool
	ready      chan struct{}
	stats      Stats
}

type delivery[R any] struct {
	table Table[R]
	mode  string
}

// New creates an empty Registry with no consumer.
func New[R any](opts ...Option) *Registry[R] {
	o := &options{name: "default"}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Registry[R]{
		name:    o.name,
		logger:  o.logger,
		pending: make(Table[R]),
		ready:   make(chan struct{}),
	}
}

// Name returns the registry name.
func (r *Registry[R]) Name() string {
	return r.name
}

// RegisterFragment contributes one fragment's partial table.
//
// With a consumer set, the consumer is called with exactly partial, as its
// own delivery. Otherwise partial is merged into the pending buffer. Records
// are never inspected and the call never fails.
func (r *Registry[R]) RegisterFragment(partial Table[R]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Received++

	if r.consumer != nil {
		fragmentsTotal.WithLabelValues(r.name, outcomeDelivered).Inc()
		r.queue = append(r.queue, delivery[R]{table: partial, mode: modeDirect})
		r.flush()
		return
	}

	r.pending.Merge(partial)
	r.stats.Buffered++
	fragmentsTotal.WithLabelValues(r.name, outcomeBuffered).Inc()
	r.logger.Debug("fragment buffered",
		"registry", r.name,
		"libraries", len(partial),
		"pending_libraries", len(r.pending))
}

// RegisterConsumer sets the consumer. Any buffered fragments are delivered
// to cb first, merged into a single table, before the hook is set.
//
// Only one consumer may ever be registered. A second call leaves the first
// consumer in place, logs a warning and returns ErrConsumerRegistered.
func (r *Registry[R]) RegisterConsumer(cb Consumer[R]) error {
	if cb == nil {
		return ErrNilConsumer
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consumer != nil {
		consumerRejections.WithLabelValues(r.name).Inc()
		r.logger.Warn("consumer already registered, ignoring second registration",
			"registry", r.name,
			"deliveries", r.stats.Deliveries)
		return apperrors.NewWithContext(ErrConsumerRegistered.Code, ErrConsumerRegistered.Message,
			map[string]any{"registry": r.name})
	}

	drained := r.pending
	r.pending = nil
	r.consumer = cb
	defer close(r.ready)

	if len(drained) > 0 {
		r.stats.Drained = true
		r.logger.Debug("draining pending fragments",
			"registry", r.name,
			"fragments", r.stats.Buffered,
			"libraries", len(drained))
		// The queue is empty here: nothing is queued before a consumer exists.
		r.queue = append(r.queue, delivery[R]{table: drained, mode: modeDrain})
		r.flush()
	}
	return nil
}

// flush delivers queued tables in order. It is called with r.mu held and
// returns with it held. A call made while another delivery is in progress
// only enqueues; the active deliverer picks the table up before returning.
func (r *Registry[R]) flush() {
	if r.delivering {
		return
	}
	r.delivering = true
	defer func() { r.delivering = false }()

	for len(r.queue) > 0 {
		d := r.queue[0]
		r.queue[0] = delivery[R]{}
		r.queue = r.queue[1:]

		r.stats.Deliveries++
		deliveriesTotal.WithLabelValues(r.name, d.mode).Inc()

		cb := r.consumer
		func() {
			r.mu.Unlock()
			defer r.mu.Lock()
			cb(d.table)
		}()
	}
	r.queue = nil
}

// HasConsumer reports whether a consumer has been registered.
func (r *Registry[R]) HasConsumer() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.consumer != nil
}

// Ready returns a channel closed once a consumer is registered.
func (r *Registry[R]) Ready() <-chan struct{} {
	return r.ready
}

// Pending returns a copy of the pending buffer. It is empty once a consumer
// has registered.
func (r *Registry[R]) Pending() Table[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return Table[R]{}
	}
	return r.pending.Clone()
}

// Stats returns a snapshot of the registry counters.
func (r *Registry[R]) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
