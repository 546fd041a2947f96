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

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/mchmarny/docxref/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.LoadTimeout().Seconds() != float64(cfg.LoadTimeoutSeconds) {
		t.Errorf("LoadTimeout() = %v, want %ds", cfg.LoadTimeout(), cfg.LoadTimeoutSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"zero timeout", func(c *Config) { c.LoadTimeoutSeconds = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"ephemeral port", func(c *Config) { c.Server.Port = 0 }, false},
		{"zero rate", func(c *Config) { c.Server.RateLimit = 0 }, true},
		{"zero burst", func(c *Config) { c.Server.RateLimitBurst = 0 }, true},
		{"blank source", func(c *Config) { c.Sources = []string{"./doc", " "} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperrors.CodeOf(err) != apperrors.ErrCodeInvalidRequest {
				t.Errorf("code = %s, want %s", apperrors.CodeOf(err), apperrors.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DOCXREF_SOURCES":     "./a, https://docs.example.com/ ,,",
		"DOCXREF_CONCURRENCY": "3",
		"DOCXREF_PORT":        "9090",
		"DOCXREF_RATE_LIMIT":  "2.5",
		"DOCXREF_LOG_LEVEL":   "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() = %v", err)
	}
	if want := []string{"./a", "https://docs.example.com/"}; !reflect.DeepEqual(cfg.Sources, want) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, want)
	}
	if cfg.Concurrency != 3 || cfg.Server.Port != 9090 || cfg.Server.RateLimit != 2.5 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config after env: %+v", cfg)
	}

	env["DOCXREF_PORT"] = "nope"
	err := Default().applyEnv(lookup)
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidRequest {
		t.Errorf("applyEnv() with bad port = %v, want INVALID_REQUEST", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docxref.yaml")
	content := `sources:
  - ./target/doc
concurrency: 4
server:
  port: 9191
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOCXREF_CONCURRENCY", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"./target/doc"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.Concurrency != 6 {
		t.Errorf("Concurrency = %d, want env override 6", cfg.Concurrency)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Server.RateLimitBurst != 200 {
		t.Errorf("Server.RateLimitBurst = %d, want default 200", cfg.Server.RateLimitBurst)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file succeeded")
	}

	t.Setenv("DOCXREF_CONCURRENCY", "0")
	if _, err := Load(""); err == nil {
		t.Error("Load() with zero concurrency succeeded")
	}
}
