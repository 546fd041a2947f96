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
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/xref"
)

func itemFlags(defaultType string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "item",
			Aliases:  []string{"i"},
			Required: true,
			Usage: `Item to resolve: qualified name (core::str::traits::FromStr)
	or fragment path (trait.impl/core/str/traits/trait.FromStr.js)`,
		},
		&cli.StringFlag{
			Name:  "item-type",
			Value: defaultType,
			Usage: "rustdoc item type used with a qualified name (trait, struct, enum, union, ...)",
		},
	}
}

func implementorsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "implementors",
		EnableShellCompletion: true,
		Usage:                 "List the implementors of a trait across documentation trees",
		Description: `Loads the trait's trait.impl fragment from every source concurrently and
lists the implementing types grouped by library.

# Examples

  docxref implementors -s ./target/doc -s https://docs.example.com/ --item core::str::traits::FromStr
  docxref implementors -s ./target/doc --item trait.impl/serde/ser/trait.Serialize.js --format json`,
		Flags: append([]cli.Flag{sourceFlag(), concurrencyFlag()}, itemFlags(fragment.KindTraitImpl.DefaultItemType())...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			item, err := xref.ParseItemRef(fragment.KindTraitImpl, cmd.String("item"), cmd.String("item-type"))
			if err != nil {
				return fmt.Errorf("invalid --item: %w", err)
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			listing, err := svc.Implementors(ctx, item)
			if err != nil {
				return fmt.Errorf("failed to resolve implementors of %s: %w", item.QualifiedName(), err)
			}
			slog.Debug("resolved implementors", "item", item.String(), "total", listing.Total)
			return writeDocument(ctx, cmd, listing)
		},
	}
}

func typeImplsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "type-impls",
		EnableShellCompletion: true,
		Usage:                 "List the impl blocks of a type across documentation trees",
		Description: `Loads the type's type.impl fragment from every source and lists its inherent
and trait impl blocks. With --alias only blocks shown on that type alias
page are kept.

# Examples

  docxref type-impls -s ./target/doc --item mycrate::Wrapper --item-type struct
  docxref type-impls -s ./target/doc --item mycrate::Wrapper --alias mycrate::Bytes`,
		Flags: append(append([]cli.Flag{sourceFlag(), concurrencyFlag()}, itemFlags(fragment.KindTypeImpl.DefaultItemType())...),
			&cli.StringFlag{
				Name:  "alias",
				Usage: "Keep only impls shown on this type alias (qualified name)",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			item, err := xref.ParseItemRef(fragment.KindTypeImpl, cmd.String("item"), cmd.String("item-type"))
			if err != nil {
				return fmt.Errorf("invalid --item: %w", err)
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			listing, err := svc.TypeImpls(ctx, item, cmd.String("alias"))
			if err != nil {
				return fmt.Errorf("failed to resolve impls of %s: %w", item.QualifiedName(), err)
			}
			return writeDocument(ctx, cmd, listing)
		},
	}
}

func itemsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "items",
		EnableShellCompletion: true,
		Usage:                 "List every item with fragments in the local documentation trees",
		Flags: []cli.Flag{
			sourceFlag(),
			concurrencyFlag(),
			&cli.StringFlag{
				Name:  "kind",
				Usage: fmt.Sprintf("Limit to one fragment kind (%s or %s)", fragment.KindTraitImpl, fragment.KindTypeImpl),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var kind fragment.Kind
			if k := cmd.String("kind"); k != "" {
				parsed, err := fragment.ParseKind(k)
				if err != nil {
					return fmt.Errorf("invalid --kind: %w", err)
				}
				kind = parsed
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			idx, err := svc.Items(ctx, kind)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}
			return writeDocument(ctx, cmd, idx)
		},
	}
}
