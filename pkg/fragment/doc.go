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

// Package fragment reads and writes rustdoc cross-reference fragment files.
//
// rustdoc emits one JavaScript file per trait under trait.impl/ listing the
// types that implement it, and one file per generic type under type.impl/
// listing impl blocks shared with its type aliases. Each file declares a
// library-keyed table and hands it to the page's render engine if one is
// registered, or parks it in a window variable otherwise:
//
//	(function() {
//	    var implementors = Object.fromEntries([["core",[["impl ..."]]]]);
//	    if (window.register_implementors) {
//	        window.register_implementors(implementors);
//	    } else {
//	        window.pending_implementors = implementors;
//	    }
//	})()
//	//{"start":57,"fragment_lengths":[...]}
//
// The trailing comment records the byte offset of the first entry and the
// byte length of every entry. Verify checks a file against it; Render
// recomputes it.
//
// Records are decoded into Implementor and TypeImpl values that keep their
// original JSON, so Parse followed by Render reproduces the input file.
package fragment
