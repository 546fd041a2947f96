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

package fragment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Render writes f in the exact layout rustdoc emits, including a provenance
// trailer computed for the rendered bytes. Records decoded from a file are
// written back unchanged.
func (f *Fragment[R]) Render() ([]byte, error) {
	v := f.Kind.Variable()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(function() {\n    var %s = Object.fromEntries([", v)

	p := Provenance{Start: buf.Len(), FragmentLengths: make([]int, 0, len(f.Entries))}
	for i, e := range f.Entries {
		before := buf.Len()
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeEntry(&buf, e); err != nil {
			return nil, fmt.Errorf("failed to render entry %q: %w", e.Library, err)
		}
		p.FragmentLengths = append(p.FragmentLengths, buf.Len()-before)
	}

	fmt.Fprintf(&buf, "]);\n    if (window.%[2]s) {\n        window.%[2]s(%[1]s);\n    } else {\n        window.%[3]s = %[1]s;\n    }\n})()\n",
		v, f.Kind.Hook(), f.Kind.PendingVariable())

	trailer, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to render provenance: %w", err)
	}
	buf.WriteString("//")
	buf.Write(trailer)

	return buf.Bytes(), nil
}

func writeEntry[R any](buf *bytes.Buffer, e Entry[R]) error {
	lib, err := marshalNoEscape(e.Library)
	if err != nil {
		return err
	}
	buf.WriteByte('[')
	buf.Write(lib)
	buf.WriteString(",[")
	for i, r := range e.Records {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalNoEscape(r)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	buf.WriteString("]]")
	return nil
}
