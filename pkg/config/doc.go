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

// Package config loads docxref runtime configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML or JSON
// file, then DOCXREF_* environment variables:
//
//	DOCXREF_SOURCES               comma separated documentation roots
//	DOCXREF_CONCURRENCY           parallel source reads per item
//	DOCXREF_LOAD_TIMEOUT_SECONDS  per item resolution budget
//	DOCXREF_ADDRESS, DOCXREF_PORT daemon listener
//	DOCXREF_RATE_LIMIT            requests per second
//	DOCXREF_RATE_LIMIT_BURST      burst size
//	DOCXREF_LOG_LEVEL             debug, info, warn or error
//
// Example file:
//
//	sources:
//	  - ./target/doc
//	  - https://docs.example.com/
//	concurrency: 4
//	server:
//	  port: 9090
package config
