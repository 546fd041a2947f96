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

// Package oci ships documentation trees as OCI artifacts using ORAS.
//
// A tree, or only its trait.impl and type.impl fragment directories, is
// packed as one reproducible gzipped tar layer under an OCI 1.1 manifest
// with artifact type "application/vnd.docxref.fragments.v1".
//
// Operations:
//   - Package: build the artifact in a local OCI Image Layout
//   - PushFromStore: copy a packaged artifact to a remote registry
//   - Push: Package then PushFromStore through a temporary layout
//   - Pull: fetch an artifact and unpack the tree into a directory
//
// References use the oci:// scheme and are parsed with
// github.com/distribution/reference:
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/docs:v1.2.0")
//	res, err := oci.Push(ctx, oci.PushConfig{
//	    SourceDir:     "./target/doc",
//	    Reference:     ref,
//	    FragmentsOnly: true,
//	})
//
// Registry credentials come from the Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
package oci
