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

// Package render is the consumer of the cross-reference registry.
//
// An Engine registers itself as a registry's consumer and accumulates every
// delivered table, whether it arrives as the one-shot drain of fragments
// loaded before the engine was ready or as an individual late fragment.
// Listing builders then turn the accumulated union into the sorted,
// grouped views a documentation page shows:
//
//   - Implementors: libraries sorted by name, implementors in file order
//   - TypeImpls: inherent impls first, then trait impls by trait name,
//     optionally filtered to the blocks shown on one type alias
//   - Index: every item that has fragments
package render
