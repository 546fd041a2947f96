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
	"regexp"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

var (
	declPattern    = regexp.MustCompile(`var\s+(implementors|type_impls)\s*=\s*Object\.fromEntries\(`)
	trailerPattern = regexp.MustCompile(`(?m)^//(\{.*\})\s*\z`)
)

// DetectKind reports which kind of fragment data holds.
func DetectKind(data []byte) (Kind, error) {
	m := declPattern.FindSubmatch(data)
	if m == nil {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "no fragment declaration found")
	}
	if string(m[1]) == KindTypeImpl.Variable() {
		return KindTypeImpl, nil
	}
	return KindTraitImpl, nil
}

// ParseImplementors decodes a trait.impl fragment.
func ParseImplementors(data []byte) (*Fragment[Implementor], error) {
	return parse[Implementor](data, KindTraitImpl)
}

// ParseTypeImpls decodes a type.impl fragment.
func ParseTypeImpls(data []byte) (*Fragment[TypeImpl], error) {
	return parse[TypeImpl](data, KindTypeImpl)
}

func parse[R any](data []byte, want Kind) (*Fragment[R], error) {
	loc := declPattern.FindSubmatchIndex(data)
	if loc == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "no fragment declaration found")
	}
	got := string(data[loc[2]:loc[3]])
	if got != want.Variable() {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "fragment kind mismatch",
			map[string]any{"want": want.Variable(), "got": got})
	}

	body := data[loc[1]:]
	dec := json.NewDecoder(bytes.NewReader(body))
	var rawEntries []json.RawMessage
	if err := dec.Decode(&rawEntries); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to decode fragment entries", err)
	}

	rest := bytes.TrimLeft(body[dec.InputOffset():], " \t\r\n")
	if len(rest) == 0 || rest[0] != ')' {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "unterminated Object.fromEntries call")
	}

	f := &Fragment[R]{
		Kind:    want,
		Entries: make([]Entry[R], 0, len(rawEntries)),
	}
	for i, raw := range rawEntries {
		entry, err := parseEntry[R](raw)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid fragment entry", err,
				map[string]any{"index": i})
		}
		f.Entries = append(f.Entries, entry)
	}

	p, err := parseProvenance(data)
	if err != nil {
		return nil, err
	}
	f.Provenance = p

	return f, nil
}

func parseEntry[R any](raw json.RawMessage) (Entry[R], error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil {
		return Entry[R]{}, fmt.Errorf("entry is not an array: %w", err)
	}
	if len(pair) != 2 {
		return Entry[R]{}, fmt.Errorf("entry has %d elements, want 2", len(pair))
	}

	var e Entry[R]
	if err := json.Unmarshal(pair[0], &e.Library); err != nil {
		return Entry[R]{}, fmt.Errorf("library name is not a string: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Records); err != nil {
		return Entry[R]{}, fmt.Errorf("records of %q: %w", e.Library, err)
	}
	if e.Records == nil {
		e.Records = []R{}
	}
	return e, nil
}

// parseProvenance reads the trailing //{"start":..,"fragment_lengths":[..]}
// comment. Files without a trailer yield nil.
func parseProvenance(data []byte) (*Provenance, error) {
	m := trailerPattern.FindSubmatch(data)
	if m == nil {
		return nil, nil
	}
	var p Provenance
	if err := json.Unmarshal(m[1], &p); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid provenance trailer", err)
	}
	return &p, nil
}

// Verify checks data against its own provenance trailer: every recorded
// span must hold exactly one JSON entry and the spans must cover the whole
// entry list.
func Verify(data []byte) error {
	p, err := parseProvenance(data)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.New(apperrors.ErrCodeNotFound, "fragment has no provenance trailer")
	}
	return p.Verify(data)
}

// Verify checks that p describes data.
func (p Provenance) Verify(data []byte) error {
	if p.Start <= 0 || p.Start > len(data) || data[p.Start-1] != '[' {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "provenance start does not point at the entry list",
			map[string]any{"start": p.Start})
	}

	pos := p.Start
	for i, l := range p.FragmentLengths {
		if l <= 0 || pos+l > len(data) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "provenance span out of range",
				map[string]any{"index": i, "offset": pos, "length": l})
		}
		seg := data[pos : pos+l]
		if i > 0 {
			if seg[0] != ',' {
				return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "provenance span does not start at an entry separator",
					map[string]any{"index": i, "offset": pos})
			}
			seg = seg[1:]
		}
		if !json.Valid(seg) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "provenance span is not a single JSON entry",
				map[string]any{"index": i, "offset": pos, "length": l})
		}
		pos += l
	}

	if pos >= len(data) || data[pos] != ']' {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "provenance spans do not cover the entry list",
			map[string]any{"end": pos})
	}
	return nil
}
