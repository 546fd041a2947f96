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

package render

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/header"
	"github.com/mchmarny/docxref/pkg/registry"
)

const (
	sectionInherent = "implementations"
	sectionTrait    = "trait implementations"
)

// ImplementorGroup lists one library's implementors of a trait.
type ImplementorGroup struct {
	Library      string   `json:"library" yaml:"library"`
	Implementors []string `json:"implementors" yaml:"implementors"`
}

// ImplementorListing is the cross-reference listing of a trait page.
type ImplementorListing struct {
	header.Header `json:",inline" yaml:",inline"`

	Item      fragment.Item      `json:"item" yaml:"item"`
	Heading   string             `json:"heading" yaml:"heading"`
	Total     int                `json:"total" yaml:"total"`
	Libraries []ImplementorGroup `json:"libraries" yaml:"libraries"`
}

// Implementors builds the listing for a trait from the consumed table.
// Libraries are sorted by name; record order within a library is kept.
func Implementors(item fragment.Item, t registry.Table[fragment.Implementor], version string) *ImplementorListing {
	l := &ImplementorListing{
		Item:      item,
		Heading:   heading(item),
		Libraries: make([]ImplementorGroup, 0, len(t)),
	}
	l.Init(header.KindImplementorListing, header.APIVersion, version)
	l.Metadata["item"] = item.QualifiedName()

	for _, lib := range t.Libraries() {
		g := ImplementorGroup{Library: lib, Implementors: make([]string, 0, len(t[lib]))}
		for _, r := range t[lib] {
			g.Implementors = append(g.Implementors, r.HTML)
		}
		l.Total += len(g.Implementors)
		l.Libraries = append(l.Libraries, g)
	}
	return l
}

// TypeImplBlock is one impl block shown on a type page.
type TypeImplBlock struct {
	Library string   `json:"library" yaml:"library"`
	Trait   string   `json:"trait,omitempty" yaml:"trait,omitempty"`
	HTML    string   `json:"html" yaml:"html"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// TypeImplSection groups impl blocks under one heading.
type TypeImplSection struct {
	Title  string          `json:"title" yaml:"title"`
	Blocks []TypeImplBlock `json:"blocks" yaml:"blocks"`
}

// TypeImplListing is the cross-reference listing of a generic type page.
type TypeImplListing struct {
	header.Header `json:",inline" yaml:",inline"`

	Item     fragment.Item     `json:"item" yaml:"item"`
	Heading  string            `json:"heading" yaml:"heading"`
	Alias    string            `json:"alias,omitempty" yaml:"alias,omitempty"`
	Total    int               `json:"total" yaml:"total"`
	Sections []TypeImplSection `json:"sections" yaml:"sections"`
}

// TypeImpls builds the listing for a generic type. Inherent impls come
// first, then trait impls sorted by trait name.
func TypeImpls(item fragment.Item, t registry.Table[fragment.TypeImpl], version string) *TypeImplListing {
	l := &TypeImplListing{
		Item:    item,
		Heading: heading(item),
	}
	l.Init(header.KindTypeImplListing, header.APIVersion, version)
	l.Metadata["item"] = item.QualifiedName()

	var inherent, traits []TypeImplBlock
	for _, lib := range t.Libraries() {
		for _, r := range t[lib] {
			b := TypeImplBlock{Library: lib, Trait: r.Trait, HTML: r.HTML, Aliases: r.Aliases}
			if r.IsInherent() {
				inherent = append(inherent, b)
			} else {
				traits = append(traits, b)
			}
		}
	}
	sort.SliceStable(traits, func(i, j int) bool {
		return traits[i].Trait < traits[j].Trait
	})

	caser := cases.Title(language.English)
	if len(inherent) > 0 {
		l.Sections = append(l.Sections, TypeImplSection{Title: caser.String(sectionInherent), Blocks: inherent})
	}
	if len(traits) > 0 {
		l.Sections = append(l.Sections, TypeImplSection{Title: caser.String(sectionTrait), Blocks: traits})
	}
	l.Total = len(inherent) + len(traits)
	return l
}

// ForAlias returns a copy of the listing that keeps only the impl blocks
// shown on the page of the given type alias. Sections left empty are
// dropped. An empty alias returns the listing unchanged.
func (l *TypeImplListing) ForAlias(alias string) *TypeImplListing {
	if alias == "" {
		return l
	}
	out := *l
	out.Alias = alias
	out.Total = 0
	out.Sections = nil
	out.Metadata = make(map[string]string, len(l.Metadata)+1)
	for k, v := range l.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata["alias"] = alias

	for _, sec := range l.Sections {
		var kept []TypeImplBlock
		for _, b := range sec.Blocks {
			if contains(b.Aliases, alias) {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out.Sections = append(out.Sections, TypeImplSection{Title: sec.Title, Blocks: kept})
		out.Total += len(kept)
	}
	return &out
}

// ItemIndex lists every item that has fragments in the configured sources.
type ItemIndex struct {
	header.Header `json:",inline" yaml:",inline"`

	ItemKind fragment.Kind `json:"itemKind" yaml:"itemKind"`
	Total    int           `json:"total" yaml:"total"`
	Items    []string      `json:"items" yaml:"items"`
}

// Index builds an item index for one fragment kind.
func Index(kind fragment.Kind, items []fragment.Item, version string) *ItemIndex {
	idx := &ItemIndex{ItemKind: kind, Items: make([]string, 0, len(items))}
	idx.Init(header.KindItemIndex, header.APIVersion, version)
	for _, it := range items {
		idx.Items = append(idx.Items, it.String())
	}
	sort.Strings(idx.Items)
	idx.Total = len(idx.Items)
	return idx
}

// heading builds a fresh caser per call; a cases.Caser is stateful.
func heading(item fragment.Item) string {
	return cases.Title(language.English).String(item.ItemType) + " " + item.QualifiedName()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
