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

// Package cli implements the docxref command-line interface.
//
// # Commands
//
// Lookups resolve one item across every --source and write the listing in
// --format to --output (stdout by default, a file, or cm://namespace/name):
//
//	docxref implementors -s ./target/doc --item core::str::traits::FromStr
//	docxref type-impls -s ./target/doc --item mycrate::Wrapper --alias mycrate::Bytes
//	docxref items -s ./target/doc --kind trait.impl
//
// Tree maintenance works on local documentation roots:
//
//	docxref verify -s ./target/doc
//	docxref merge -s ./a/target/doc -s ./b/target/doc --output ./merged
//
// Distribution through OCI registries:
//
//	docxref push -s ./target/doc --fragments-only oci://ghcr.io/acme/docs:v1
//	docxref pull oci://ghcr.io/acme/docs:v1 --output ./docs
//
// # Global Flags
//
//	--output, -o      Output file, cm://namespace/name, or directory for merge and pull
//	--format, -t      Output format: yaml, json, table (default: yaml)
//	--config, -c      Config file (DOCXREF_CONFIG)
//	--log-level       debug, info, warn, error (DOCXREF_LOG_LEVEL)
//	--kubeconfig, -k  Kubeconfig for ConfigMap output
//
// Sources default to the config file and DOCXREF_SOURCES; --source
// replaces them.
package cli
