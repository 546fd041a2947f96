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

	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/registry"
)

// Kind identifies the family of a fragment file.
type Kind string

const (
	// KindTraitImpl fragments list the implementors of one trait.
	KindTraitImpl Kind = "trait.impl"
	// KindTypeImpl fragments list the impl blocks of one generic type,
	// shared by its type aliases.
	KindTypeImpl Kind = "type.impl"
)

// Kinds returns all fragment kinds.
func Kinds() []Kind {
	return []Kind{KindTraitImpl, KindTypeImpl}
}

// ParseKind parses a kind name as used in directory names and query strings.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTraitImpl, KindTypeImpl:
		return Kind(s), nil
	default:
		return "", apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown fragment kind",
			map[string]any{"kind": s})
	}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Dir is the directory under a documentation root holding fragments of this kind.
func (k Kind) Dir() string {
	return string(k)
}

// Variable is the JavaScript variable a fragment of this kind declares.
func (k Kind) Variable() string {
	if k == KindTypeImpl {
		return "type_impls"
	}
	return "implementors"
}

// Hook is the window function a fragment calls when the render engine is ready.
func (k Kind) Hook() string {
	return "register_" + k.Variable()
}

// PendingVariable is the window variable a fragment writes when it is not.
func (k Kind) PendingVariable() string {
	return "pending_" + k.Variable()
}

// DefaultItemType is the item type assumed when a caller does not specify one.
func (k Kind) DefaultItemType() string {
	if k == KindTypeImpl {
		return "struct"
	}
	return "trait"
}

// Implementor is one "impl Trait for Type" line of a trait.impl fragment.
// The raw JSON array is kept so the record round-trips unchanged.
type Implementor struct {
	HTML string `json:"html" yaml:"html"`

	raw json.RawMessage
}

// NewImplementor builds a record from its markup.
func NewImplementor(html string) Implementor {
	return Implementor{HTML: html}
}

// UnmarshalJSON decodes the rustdoc array form ["<html>", ...].
func (i *Implementor) UnmarshalJSON(b []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("implementor record is not an array: %w", err)
	}
	if len(arr) == 0 {
		return fmt.Errorf("implementor record is empty")
	}
	if err := json.Unmarshal(arr[0], &i.HTML); err != nil {
		return fmt.Errorf("implementor markup is not a string: %w", err)
	}
	i.raw = bytes.Clone(b)
	return nil
}

// MarshalJSON returns the original array, or ["<html>"] for records built in Go.
func (i Implementor) MarshalJSON() ([]byte, error) {
	if i.raw != nil {
		return i.raw, nil
	}
	return marshalNoEscape([]string{i.HTML})
}

// TypeImpl is one impl block of a type.impl fragment.
type TypeImpl struct {
	// HTML is the rendered impl block.
	HTML string `json:"html" yaml:"html"`
	// Trait is the implemented trait name, empty for inherent impls.
	Trait string `json:"trait,omitempty" yaml:"trait,omitempty"`
	// Aliases are the fully qualified type aliases the block is shown on.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	raw json.RawMessage
}

// NewTypeImpl builds a record from its parts.
func NewTypeImpl(html, trait string, aliases ...string) TypeImpl {
	return TypeImpl{HTML: html, Trait: trait, Aliases: aliases}
}

// IsInherent reports whether the block is an inherent impl.
func (t TypeImpl) IsInherent() bool {
	return t.Trait == ""
}

// UnmarshalJSON decodes the rustdoc array form ["<html>", "Trait"|0, "alias"...].
func (t *TypeImpl) UnmarshalJSON(b []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("type impl record is not an array: %w", err)
	}
	if len(arr) < 2 {
		return fmt.Errorf("type impl record has %d elements, want at least 2", len(arr))
	}
	if err := json.Unmarshal(arr[0], &t.HTML); err != nil {
		return fmt.Errorf("type impl markup is not a string: %w", err)
	}

	t.Trait = ""
	if len(arr[1]) > 0 && arr[1][0] == '"' {
		if err := json.Unmarshal(arr[1], &t.Trait); err != nil {
			return fmt.Errorf("type impl trait is not a string: %w", err)
		}
	}

	t.Aliases = nil
	for _, a := range arr[2:] {
		var alias string
		if err := json.Unmarshal(a, &alias); err != nil {
			return fmt.Errorf("type impl alias is not a string: %w", err)
		}
		t.Aliases = append(t.Aliases, alias)
	}

	t.raw = bytes.Clone(b)
	return nil
}

// MarshalJSON returns the original array, or a freshly encoded one.
func (t TypeImpl) MarshalJSON() ([]byte, error) {
	if t.raw != nil {
		return t.raw, nil
	}
	arr := make([]any, 0, 2+len(t.Aliases))
	arr = append(arr, t.HTML)
	if t.Trait == "" {
		arr = append(arr, 0)
	} else {
		arr = append(arr, t.Trait)
	}
	for _, a := range t.Aliases {
		arr = append(arr, a)
	}
	return marshalNoEscape(arr)
}

// Entry is one library's contribution inside a fragment file.
type Entry[R any] struct {
	Library string `json:"library" yaml:"library"`
	Records []R    `json:"records" yaml:"records"`
}

// Provenance is the trailer rustdoc appends to every fragment file.
// Offsets are in bytes: Start is the offset of the first entry and each
// length spans one entry including its leading comma.
type Provenance struct {
	Start           int   `json:"start"`
	FragmentLengths []int `json:"fragment_lengths"`
}

// End returns the offset just past the last entry.
func (p Provenance) End() int {
	end := p.Start
	for _, l := range p.FragmentLengths {
		end += l
	}
	return end
}

// Fragment is a decoded fragment file.
type Fragment[R any] struct {
	Kind       Kind        `json:"kind" yaml:"kind"`
	Entries    []Entry[R]  `json:"entries" yaml:"entries"`
	Provenance *Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// Table returns the fragment as a registry table. Two entries for the same
// library in one file are concatenated in file order.
func (f *Fragment[R]) Table() registry.Table[R] {
	t := make(registry.Table[R], len(f.Entries))
	for _, e := range f.Entries {
		t.Merge(registry.Table[R]{e.Library: e.Records})
	}
	return t
}

// Libraries returns the library names in file order.
func (f *Fragment[R]) Libraries() []string {
	libs := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		libs = append(libs, e.Library)
	}
	return libs
}

// FromTable builds a fragment from a table with libraries in sorted order,
// the order rustdoc writes them in.
func FromTable[R any](kind Kind, t registry.Table[R]) *Fragment[R] {
	f := &Fragment[R]{Kind: kind}
	for _, lib := range t.Libraries() {
		f.Entries = append(f.Entries, Entry[R]{Library: lib, Records: t[lib]})
	}
	return f
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
