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

// Package registry implements a deferred cross-reference registry.
//
// Documentation fragments each contribute a partial table mapping a library
// name to a list of opaque records (an implementor of a trait, or an impl
// block of a generic type). Fragments arrive in any order, possibly before
// the render engine that consumes them exists. The Registry buffers early
// fragments and hands their union to the consumer the moment it registers;
// later fragments go straight to the consumer, one delivery per fragment.
//
// # Guarantees
//
//   - Every fragment reaches the consumer exactly once.
//   - Fragments registered before the consumer are delivered in one call,
//     merged key-wise by list concatenation, before any later fragment.
//   - Record order within one fragment's list is preserved.
//   - Without a consumer the pending buffer simply keeps growing; this is
//     an expected outcome, not an error.
//   - A second consumer is rejected with ErrConsumerRegistered and a
//     warning. The first consumer stays.
//   - The consumer runs without the registry lock. It may register further
//     fragments; those are delivered after the current call returns.
//
// # Usage
//
//	reg := registry.New[fragment.Implementor](registry.WithName("implementors"))
//	reg.RegisterFragment(registry.Table[fragment.Implementor]{"core": records})
//
//	engine := render.NewEngine[fragment.Implementor]()
//	if err := reg.RegisterConsumer(engine.Consume); err != nil {
//	    return err
//	}
//
// A Registry lives for one session (one page view, one API request) and is
// dropped with it. There is no teardown.
package registry
