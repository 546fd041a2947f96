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
	"path"
	"regexp"
	"strings"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

const fileExt = ".js"

// Rust identifiers are XID_Start (or _) followed by XID_Continue. The classes
// below approximate XID with Unicode general categories.
var segmentPattern = regexp.MustCompile(`^[\p{L}\p{Nl}_][\p{L}\p{Nl}\p{Mn}\p{Mc}\p{Nd}\p{Pc}]*$`)

// rawPrefix marks a raw identifier such as r#try. rustdoc drops it from
// file names, so it is stripped from qualified names.
const rawPrefix = "r#"

var itemTypes = map[string]bool{
	"trait":       true,
	"struct":      true,
	"enum":        true,
	"union":       true,
	"type":        true,
	"primitive":   true,
	"foreigntype": true,
}

// Item addresses the trait or type a fragment file belongs to.
type Item struct {
	Kind Kind `json:"kind" yaml:"kind"`
	// Module is the module path including the crate, e.g. ["core", "str", "traits"].
	Module []string `json:"module" yaml:"module"`
	// ItemType is the rustdoc item type prefix, e.g. "trait" or "struct".
	ItemType string `json:"itemType" yaml:"itemType"`
	Name     string `json:"name" yaml:"name"`
}

// NewItem addresses an item by its qualified name, e.g. "core::str::traits::FromStr".
// An empty itemType selects the kind's default.
func NewItem(kind Kind, qualified, itemType string) (Item, error) {
	if itemType == "" {
		itemType = kind.DefaultItemType()
	}
	segs := strings.Split(strings.TrimSpace(qualified), "::")
	for i, seg := range segs {
		segs[i] = strings.TrimPrefix(seg, rawPrefix)
	}
	if len(segs) < 2 {
		return Item{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"qualified name must include the crate", map[string]any{"item": qualified})
	}
	it := Item{
		Kind:     kind,
		Module:   append([]string(nil), segs[:len(segs)-1]...),
		ItemType: itemType,
		Name:     segs[len(segs)-1],
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// ParseItemPath addresses an item by its fragment path relative to the
// documentation root, e.g. "trait.impl/core/str/traits/trait.FromStr.js".
func ParseItemPath(rel string) (Item, error) {
	rel = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(rel, "\\", "/")), "/")
	parts := strings.Split(rel, "/")
	if len(parts) < 3 {
		return Item{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"fragment path too short", map[string]any{"path": rel})
	}

	kind, err := ParseKind(parts[0])
	if err != nil {
		return Item{}, err
	}

	file := parts[len(parts)-1]
	if !strings.HasSuffix(file, fileExt) {
		return Item{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"fragment path must end in .js", map[string]any{"path": rel})
	}
	itemType, name, ok := strings.Cut(strings.TrimSuffix(file, fileExt), ".")
	if !ok {
		return Item{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"fragment file name must be <type>.<name>.js", map[string]any{"path": rel})
	}

	it := Item{
		Kind:     kind,
		Module:   append([]string(nil), parts[1:len(parts)-1]...),
		ItemType: itemType,
		Name:     name,
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	return it, nil
}

// Validate checks every path component so an Item can never escape its
// documentation root.
func (it Item) Validate() error {
	if !itemTypes[it.ItemType] {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "unknown item type",
			map[string]any{"itemType": it.ItemType})
	}
	if it.Kind == KindTraitImpl && it.ItemType != "trait" {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "trait.impl fragments only exist for traits",
			map[string]any{"itemType": it.ItemType})
	}
	if len(it.Module) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "item has no crate")
	}
	for _, seg := range append(append([]string(nil), it.Module...), it.Name) {
		if !segmentPattern.MatchString(seg) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid path segment",
				map[string]any{"segment": seg})
		}
	}
	return nil
}

// Crate returns the crate that defines the item.
func (it Item) Crate() string {
	return it.Module[0]
}

// QualifiedName returns the Rust path, e.g. "core::str::traits::FromStr".
func (it Item) QualifiedName() string {
	return strings.Join(append(append([]string(nil), it.Module...), it.Name), "::")
}

// Path returns the fragment path relative to the documentation root.
func (it Item) Path() string {
	parts := make([]string, 0, len(it.Module)+2)
	parts = append(parts, it.Kind.Dir())
	parts = append(parts, it.Module...)
	parts = append(parts, it.ItemType+"."+it.Name+fileExt)
	return path.Join(parts...)
}

// String returns e.g. "trait core::str::traits::FromStr".
func (it Item) String() string {
	return it.ItemType + " " + it.QualifiedName()
}
