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

// Package xref resolves rustdoc cross-references across documentation trees.
//
// Each lookup runs in its own Session: a fresh pair of registries, one per
// fragment kind. The loader fetches the item's fragment from every source
// concurrently while the render engine attaches as the registry consumer, so
// fragments may arrive before or after the engine without changing the
// resulting listing.
//
// Usage:
//
//	srcs, _ := loader.NewSources([]string{"./target/doc", "https://docs.example.com/"})
//	svc := xref.NewService(loader.New(srcs), xref.WithVersion(version))
//	item, _ := fragment.NewItem(fragment.KindTraitImpl, "core::str::traits::FromStr", "")
//	listing, err := svc.Implementors(ctx, item)
//
// Merge uses the same registries without ever registering a consumer: the
// buffered union of every tree is written back as one fragment per item.
// Verify checks each fragment's provenance trailer.
package xref
