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

// Package api runs docxrefd, the cross-reference HTTP daemon.
//
// Serve loads configuration (DOCXREF_CONFIG names an optional file), builds
// a loader over the configured documentation sources and exposes:
//
//	GET /v1/implementors?item=core::str::traits::FromStr
//	GET /v1/type-impls?item=mycrate::Wrapper&itemType=struct&alias=mycrate::Alias
//	GET /v1/items?kind=trait.impl
//
// alongside /health, /ready and /metrics. Once listening the daemon sends
// READY=1 to systemd when NOTIFY_SOCKET is set.
package api
