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

package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestBuildKubeClient_InvalidPaths(t *testing.T) {
	tests := []struct {
		name          string
		kubeconfigArg string
		kubeconfigEnv string
	}{
		{name: "explicit invalid path", kubeconfigArg: "/nonexistent/path/to/kubeconfig"},
		{name: "env var with invalid path", kubeconfigEnv: "/nonexistent/env/kubeconfig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("KUBECONFIG", tt.kubeconfigEnv)

			_, _, err := BuildKubeClient(tt.kubeconfigArg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "failed to build kube config") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildKubeClient_MalformedFile(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "kubeconfig")
	if err := os.WriteFile(invalid, []byte("invalid yaml content"), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, _, err := BuildKubeClient(invalid); err == nil {
		t.Error("expected error for malformed kubeconfig")
	}
}

func TestResolveKubeconfig(t *testing.T) {
	t.Setenv("KUBECONFIG", "/from/env")
	if got := resolveKubeconfig("/explicit"); got != "/explicit" {
		t.Errorf("explicit path ignored, got %q", got)
	}
	if got := resolveKubeconfig(""); got != "/from/env" {
		t.Errorf("env path ignored, got %q", got)
	}

	t.Setenv("KUBECONFIG", "")
	t.Setenv("HOME", t.TempDir())
	if got := resolveKubeconfig(""); got != "" {
		t.Errorf("expected in-cluster fallback, got %q", got)
	}
}

func TestGetKubeClient_Consistent(t *testing.T) {
	reset := func() {
		clientOnce = sync.Once{}
		cachedClient = nil
		cachedConfig = nil
		clientErr = nil
	}
	reset()
	defer reset()

	const n = 8
	type result struct {
		ok  bool
		err error
	}
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go func() {
			c, _, err := GetKubeClient()
			results <- result{ok: c != nil, err: err}
		}()
	}

	first := <-results
	for i := 1; i < n; i++ {
		r := <-results
		if r.ok != first.ok {
			t.Fatal("GetKubeClient returned inconsistent results")
		}
		// nolint:errorlint // same cached error instance
		if r.err != first.err {
			t.Fatalf("GetKubeClient returned different errors: %v vs %v", r.err, first.err)
		}
	}
}
