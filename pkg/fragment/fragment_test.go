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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

func readFixture(t *testing.T, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", rel, err)
	}
	return data
}

var fixtures = []string{
	"trait.impl/structopt_toml/trait.StructOptToml.js",
	"trait.impl/core/iter/traits/collect/trait.FromIterator.js",
	"trait.impl/core/str/traits/trait.FromStr.js",
	"type.impl/darkfi_sdk/crypto/smt/struct.MemoryStorage.js",
}

func TestParseImplementors(t *testing.T) {
	f, err := ParseImplementors(readFixture(t, "trait.impl/core/str/traits/trait.FromStr.js"))
	if err != nil {
		t.Fatalf("ParseImplementors() error = %v", err)
	}

	if f.Kind != KindTraitImpl {
		t.Errorf("Kind = %s, want %s", f.Kind, KindTraitImpl)
	}

	wantLibs := []string{"darkfi", "darkfi_dao_contract", "darkfi_money_contract", "darkfi_sdk", "explorerd", "taud"}
	gotLibs := f.Libraries()
	if strings.Join(gotLibs, ",") != strings.Join(wantLibs, ",") {
		t.Errorf("Libraries() = %v, want %v", gotLibs, wantLibs)
	}

	table := f.Table()
	if n := len(table["darkfi_sdk"]); n != 8 {
		t.Errorf("darkfi_sdk has %d records, want 8", n)
	}
	if n := table.Len(); n != 18 {
		t.Errorf("table has %d records, want 18", n)
	}
	for _, r := range table["darkfi"] {
		if !strings.HasPrefix(r.HTML, "impl ") {
			t.Errorf("unexpected markup %q", r.HTML)
		}
	}

	if f.Provenance == nil {
		t.Fatal("expected provenance trailer")
	}
	if f.Provenance.Start != 57 {
		t.Errorf("Provenance.Start = %d, want 57", f.Provenance.Start)
	}
	if len(f.Provenance.FragmentLengths) != len(wantLibs) {
		t.Errorf("got %d fragment lengths, want %d", len(f.Provenance.FragmentLengths), len(wantLibs))
	}
}

func TestParseTypeImpls(t *testing.T) {
	f, err := ParseTypeImpls(readFixture(t, "type.impl/darkfi_sdk/crypto/smt/struct.MemoryStorage.js"))
	if err != nil {
		t.Fatalf("ParseTypeImpls() error = %v", err)
	}

	records := f.Table()["darkfi_sdk"]
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	wantTraits := []string{"Clone", "Default", "", "StorageAdapter"}
	for i, want := range wantTraits {
		if records[i].Trait != want {
			t.Errorf("records[%d].Trait = %q, want %q", i, records[i].Trait, want)
		}
		if len(records[i].Aliases) != 1 || records[i].Aliases[0] != "darkfi_sdk::crypto::smt::MemoryStorageFp" {
			t.Errorf("records[%d].Aliases = %v", i, records[i].Aliases)
		}
	}
	if !records[2].IsInherent() {
		t.Error("third block should be inherent")
	}
}

func TestRenderRoundTripsFixtures(t *testing.T) {
	for _, rel := range fixtures {
		t.Run(rel, func(t *testing.T) {
			data := readFixture(t, rel)

			kind, err := DetectKind(data)
			if err != nil {
				t.Fatalf("DetectKind() error = %v", err)
			}

			var out []byte
			switch kind {
			case KindTraitImpl:
				f, perr := ParseImplementors(data)
				if perr != nil {
					t.Fatalf("parse error = %v", perr)
				}
				out, err = f.Render()
			case KindTypeImpl:
				f, perr := ParseTypeImpls(data)
				if perr != nil {
					t.Fatalf("parse error = %v", perr)
				}
				out, err = f.Render()
			}
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if !bytes.Equal(out, data) {
				t.Errorf("rendered fragment differs from input (%d vs %d bytes)", len(out), len(data))
			}
		})
	}
}

func TestVerifyFixtures(t *testing.T) {
	for _, rel := range fixtures {
		t.Run(rel, func(t *testing.T) {
			if err := Verify(readFixture(t, rel)); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
		})
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	data := readFixture(t, "trait.impl/core/iter/traits/collect/trait.FromIterator.js")

	tests := []struct {
		name    string
		trailer string
	}{
		{"short span", `//{"start":57,"fragment_lengths":[845,472]}`},
		{"missing span", `//{"start":57,"fragment_lengths":[846]}`},
		{"bad start", `//{"start":56,"fragment_lengths":[846,472]}`},
		{"out of range", `//{"start":57,"fragment_lengths":[846,99999]}`},
	}

	body := data[:bytes.LastIndex(data, []byte("//"))]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append(append([]byte(nil), body...), tt.trailer...)
			err := Verify(tampered)
			if err == nil {
				t.Fatal("expected verification error")
			}
			if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidRequest {
				t.Errorf("code = %s, want %s", apperrors.CodeOf(err), apperrors.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestVerifyWithoutTrailer(t *testing.T) {
	data := readFixture(t, "trait.impl/structopt_toml/trait.StructOptToml.js")
	body := data[:bytes.LastIndex(data, []byte("//"))]
	err := Verify(body)
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Errorf("Verify() error = %v, want NOT_FOUND", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no declaration", `console.log("hi")`},
		{"wrong kind", `(function() { var type_impls = Object.fromEntries([]); })()`},
		{"broken json", `(function() { var implementors = Object.fromEntries([["a",[["x"]]); })()`},
		{"not a pair", `(function() { var implementors = Object.fromEntries([["a"]]); })()`},
		{"record not array", `(function() { var implementors = Object.fromEntries([["a",["x"]]]); })()`},
		{"unterminated", `(function() { var implementors = Object.fromEntries([]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImplementors([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			var se *apperrors.StructuredError
			if !errors.As(err, &se) || se.Code != apperrors.ErrCodeInvalidRequest {
				t.Errorf("error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestDuplicateLibraryInOneFileConcatenates(t *testing.T) {
	data := `(function() {
    var implementors = Object.fromEntries([["a",[["r1"]]],["b",[["r2"]]],["a",[["r3"]]]]);
})()`
	f, err := ParseImplementors([]byte(data))
	if err != nil {
		t.Fatalf("ParseImplementors() error = %v", err)
	}
	got := f.Table()["a"]
	if len(got) != 2 || got[0].HTML != "r1" || got[1].HTML != "r3" {
		t.Errorf("a = %+v, want [r1 r3]", got)
	}
	if f.Provenance != nil {
		t.Error("expected no provenance without trailer")
	}
}

func TestFromTableRenderParse(t *testing.T) {
	f := FromTable[TypeImpl](KindTypeImpl, map[string][]TypeImpl{
		"zeta":  {NewTypeImpl(`<a href="x.html">Zeta</a> & co`, "")},
		"alpha": {NewTypeImpl("<h3>impl Clone</h3>", "Clone", "alpha::A", "alpha::B")},
	})

	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := Verify(out); err != nil {
		t.Fatalf("Verify(rendered) error = %v", err)
	}
	if !bytes.Contains(out, []byte(`window.pending_type_impls = type_impls;`)) {
		t.Error("rendered fragment lacks the pending fallback")
	}
	if bytes.Contains(out, []byte(`\u003c`)) {
		t.Error("markup must not be HTML-escaped")
	}

	back, err := ParseTypeImpls(out)
	if err != nil {
		t.Fatalf("ParseTypeImpls() error = %v", err)
	}
	if libs := back.Libraries(); len(libs) != 2 || libs[0] != "alpha" || libs[1] != "zeta" {
		t.Errorf("Libraries() = %v, want [alpha zeta]", libs)
	}
	a := back.Table()["alpha"][0]
	if a.Trait != "Clone" || len(a.Aliases) != 2 {
		t.Errorf("alpha record = %+v", a)
	}
	z := back.Table()["zeta"][0]
	if !z.IsInherent() || z.HTML != `<a href="x.html">Zeta</a> & co` {
		t.Errorf("zeta record = %+v", z)
	}
}

func TestRenderEmptyFragment(t *testing.T) {
	f := &Fragment[Implementor]{Kind: KindTraitImpl}
	out, err := f.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := Verify(out); err != nil {
		t.Errorf("Verify(empty) error = %v", err)
	}
	back, err := ParseImplementors(out)
	if err != nil {
		t.Fatalf("ParseImplementors() error = %v", err)
	}
	if len(back.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(back.Entries))
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("src"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if KindTypeImpl.Hook() != "register_type_impls" {
		t.Errorf("Hook() = %s", KindTypeImpl.Hook())
	}
	if KindTraitImpl.PendingVariable() != "pending_implementors" {
		t.Errorf("PendingVariable() = %s", KindTraitImpl.PendingVariable())
	}
}
