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

// Package serializer reads and writes docxref documents.
//
// Writers encode listings, item indexes and reports as JSON, YAML or a
// flattened FIELD/VALUE table:
//
//	s, err := serializer.NewFileWriterOrStdout(serializer.FormatYAML, output)
//	if err != nil {
//	    return err
//	}
//	if c, ok := s.(serializer.Closer); ok {
//	    defer c.Close()
//	}
//	return s.Serialize(ctx, listing)
//
// The output location is a file path, stdout ("" or "-"), or a Kubernetes
// ConfigMap (cm://namespace/name) written with server-side apply.
//
// FromFile loads a JSON or YAML document from a file, an http(s) URL or a
// ConfigMap, and is used for configuration files.
//
// HttpReader is the shared outbound HTTP client. It reports 404 as a
// NOT_FOUND structured error so fragment sources can treat a missing file
// as absence, and caps response sizes.
//
// RespondJSON writes buffered JSON API responses.
package serializer
