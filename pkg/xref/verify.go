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

package xref

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mchmarny/docxref/pkg/fragment"
	"github.com/mchmarny/docxref/pkg/header"
	"github.com/mchmarny/docxref/pkg/loader"
)

// VerifyFailure is one fragment whose trailer does not describe its content.
type VerifyFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// VerifyReport summarizes a Verify run.
type VerifyReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Source   string          `json:"source" yaml:"source"`
	Checked  int             `json:"checked" yaml:"checked"`
	Failed   int             `json:"failed" yaml:"failed"`
	Failures []VerifyFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// OK reports whether every checked fragment passed.
func (r *VerifyReport) OK() bool {
	return r.Failed == 0
}

// Verify checks the provenance trailer of every fragment under src.
// Files that fail are reported, not returned as errors.
func Verify(ctx context.Context, src loader.Source, version string) (*VerifyReport, error) {
	report := &VerifyReport{Source: src.Name()}
	report.Init(header.KindVerifyReport, header.APIVersion, version)

	for _, kind := range fragment.Kinds() {
		err := src.Walk(ctx, kind, func(rel string) error {
			data, err := src.Read(ctx, rel)
			if err != nil {
				return err
			}
			report.Checked++
			if verr := fragment.Verify(data); verr != nil {
				slog.Debug("fragment failed verification", "path", rel, "error", verr)
				report.Failed++
				report.Failures = append(report.Failures, VerifyFailure{Path: rel, Error: verr.Error()})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	report.Metadata["result"] = strconv.FormatBool(report.OK())
	return report, nil
}
