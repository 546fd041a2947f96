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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/registry"
)

// writeTree writes one FromStr trait.impl fragment under a new doc root.
func writeTree(t *testing.T, lib, html string) string {
	t.Helper()
	root := t.TempDir()
	item, err := fragment.NewItem(fragment.KindTraitImpl, "core::str::traits::FromStr", "")
	if err != nil {
		t.Fatal(err)
	}
	data, err := fragment.FromTable(item.Kind, registry.Table[fragment.Implementor]{
		lib: {fragment.NewImplementor(html)},
	}).Render()
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(root, filepath.FromSlash(item.Path()))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"DOCXREF_SOURCES", "DOCXREF_CONFIG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"implementors", "type-impls", "items", "verify", "merge", "push", "pull"}
	got := make(map[string]bool)
	for _, c := range cmd.Commands {
		got[c.Name] = true
	}
	for _, n := range want {
		if !got[n] {
			t.Errorf("expected command %q", n)
		}
	}

	flags := make(map[string]bool)
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			flags[n] = true
		}
	}
	for _, n := range []string{"log-level", "config", "format", "output", "kubeconfig"} {
		if !flags[n] {
			t.Errorf("expected global flag %q", n)
		}
	}
}

func TestImplementorsCmd(t *testing.T) {
	a := writeTree(t, "alpha", "impl FromStr for Alpha")
	b := writeTree(t, "beta", "impl FromStr for Beta")
	out := filepath.Join(t.TempDir(), "listing.json")

	if _, err := run(t, "--format", "json", "--output", out,
		"implementors", "-s", a, "-s", b, "--item", "core::str::traits::FromStr"); err != nil {
		t.Fatalf("implementors failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var listing struct {
		Kind      string `json:"kind"`
		Total     int    `json:"total"`
		Libraries []struct {
			Library string `json:"library"`
		} `json:"libraries"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, data)
	}
	if listing.Kind != "ImplementorListing" || listing.Total != 2 {
		t.Errorf("unexpected listing: %+v", listing)
	}
	if len(listing.Libraries) != 2 || listing.Libraries[0].Library != "alpha" {
		t.Errorf("libraries = %+v, want alpha then beta", listing.Libraries)
	}
}

func TestLookupErrors(t *testing.T) {
	src := writeTree(t, "alpha", "impl FromStr for Alpha")
	tests := []struct {
		name string
		args []string
	}{
		{"no sources", []string{"implementors", "--item", "core::str::traits::FromStr"}},
		{"bad item", []string{"implementors", "-s", src, "--item", "FromStr"}},
		{"wrong kind path", []string{"type-impls", "-s", src, "--item", "trait.impl/core/str/traits/trait.FromStr.js"}},
		{"bad kind", []string{"items", "-s", src, "--kind", "nope"}},
		{"bad format", []string{"--format", "xml", "items", "-s", src}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestVerifyCmd(t *testing.T) {
	src := writeTree(t, "alpha", "impl FromStr for Alpha")
	out := filepath.Join(t.TempDir(), "verify.yaml")

	if _, err := run(t, "--output", out, "verify", "-s", src); err != nil {
		t.Fatalf("verify failed on a valid tree: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "kind: VerifyReport") {
		t.Errorf("unexpected report:\n%s", data)
	}

	p := filepath.Join(src, "trait.impl", "core", "str", "traits", "trait.FromStr.js")
	orig, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, append([]byte("  "), orig...), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--output", out, "verify", "-s", src); err == nil {
		t.Error("verify succeeded on a corrupted tree")
	}
}

func TestMergeCmd(t *testing.T) {
	a := writeTree(t, "alpha", "impl FromStr for Alpha")
	b := writeTree(t, "beta", "impl FromStr for Beta")
	dst := t.TempDir()

	if _, err := run(t, "--output", dst, "merge", "-s", a, "-s", b); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "trait.impl", "core", "str", "traits", "trait.FromStr.js"))
	if err != nil {
		t.Fatalf("merged fragment missing: %v", err)
	}
	f, err := fragment.ParseImplementors(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Libraries(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("merged libraries = %v", got)
	}

	if _, err := run(t, "merge", "-s", a); err == nil {
		t.Error("merge without --output succeeded")
	}
}

func TestReferenceArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"valid", []string{"oci://ghcr.io/acme/docs:v1"}, false},
		{"missing", nil, true},
		{"too many", []string{"oci://ghcr.io/a/b", "oci://ghcr.io/c/d"}, true},
		{"no scheme", []string{"ghcr.io/acme/docs"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Name: "test",
				Action: func(_ context.Context, c *cli.Command) error {
					_, err := referenceArg(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("referenceArg() error = %v, wantErr %v", err, tt.wantErr)
					}
					return nil
				},
			}
			if err := cmd.Run(context.Background(), append([]string{"test"}, tt.args...)); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPullRequiresOutput(t *testing.T) {
	if _, err := run(t, "pull", "oci://localhost:5000/docs:v1"); err == nil {
		t.Error("pull without --output succeeded")
	}
}

func TestCommandLister(_ *testing.T) {
	commandLister(context.Background(), nil)

	rootCmd := &cli.Command{
		Name: "root",
		Commands: []*cli.Command{
			{Name: "visible1"},
			{Name: "hidden", Hidden: true},
			{Name: "visible2"},
		},
	}
	commandLister(context.Background(), rootCmd)
}
