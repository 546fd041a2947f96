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

// Package server is the HTTP front end of docxrefd.
//
// Routes registered with WithHandler run behind one middleware chain:
// Prometheus RED metrics, API version negotiation
// (Accept: application/vnd.docxref.v1+json), X-Request-Id assignment,
// panic recovery, token-bucket rate limiting (golang.org/x/time/rate) and
// debug request logging. System routes bypass the chain:
//
//	GET /         server name, version, readiness and routes
//	GET /health   liveness, always 200
//	GET /ready    200 once listening, 503 before and during shutdown
//	GET /metrics  Prometheus exposition
//
// Errors are written as ErrorResponse JSON. WriteErrorFromErr maps a
// structured error code to its HTTP status and retryability:
//
//	{
//	  "code": "NOT_FOUND",
//	  "message": "no fragments found",
//	  "details": {"item": "core::str::traits::FromStr"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T12:00:00Z",
//	  "retryable": false
//	}
//
// Run blocks until SIGINT or SIGTERM and then shuts down gracefully within
// Config.ShutdownTimeout (SHUTDOWN_TIMEOUT_SECONDS).
//
//	s := server.New(
//	    server.WithName("docxrefd"),
//	    server.WithVersion(version),
//	    server.WithHandler(routes),
//	)
//	return s.Run(ctx)
package server
