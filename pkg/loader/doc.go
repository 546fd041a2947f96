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

// Package loader fetches rustdoc fragment files from one or more
// documentation trees.
//
// A Source is a local directory (DirSource) or a published site
// (HTTPSource). Loader.Load reads one item's fragment from every source
// in parallel, bounded by the configured concurrency, and hands each file
// to a Sink in whatever order the reads complete. That arbitrary order is
// what the deferred registry exists to absorb.
//
// A source that does not have the file is not an error; any other read
// failure cancels the load.
package loader
