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

// Package header provides the common document header for docxref output.
//
// Every listing, index and report written by the CLI or returned by the API
// server starts with a Kubernetes-style header:
//
//	kind: ImplementorListing
//	apiVersion: docxref.dev/v1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.3.0
//
// Use New with options, or Init on an embedded Header:
//
//	var l Listing
//	l.Init(header.KindImplementorListing, header.APIVersion, version)
package header
