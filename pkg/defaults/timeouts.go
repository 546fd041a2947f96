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

package defaults

import "time"

// Loader settings for fetching fragment files.
const (
	// LoaderTimeout bounds a single item load across all sources.
	LoaderTimeout = 15 * time.Second

	// LoaderFragmentTimeout bounds the read of one fragment file from one source.
	LoaderFragmentTimeout = 5 * time.Second

	// LoaderConcurrency is the default number of sources read in parallel.
	LoaderConcurrency = 8

	// MaxFragmentBytes caps the size of a single fragment file.
	// rustdoc type.impl fragments for heavily generic types reach a few MB.
	MaxFragmentBytes = 32 << 20
)

// Handler timeouts for HTTP request processing.
const (
	// XrefHandlerTimeout is the timeout for implementor and type-impl lookups.
	XrefHandlerTimeout = 20 * time.Second

	// ItemsHandlerTimeout is the timeout for item index requests, which walk
	// every source and are slower than a single lookup.
	ItemsHandlerTimeout = 60 * time.Second

	// XrefCacheTTL is the Cache-Control max-age for lookup responses.
	// Documentation trees only change on redeploy.
	XrefCacheTTL = 5 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// ConfigMap timeouts for Kubernetes ConfigMap operations.
const (
	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIMergeTimeout is the default timeout for merging whole documentation trees.
	CLIMergeTimeout = 10 * time.Minute

	// CLIOCITimeout is the default timeout for OCI push and pull.
	CLIOCITimeout = 5 * time.Minute
)
