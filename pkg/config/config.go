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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mchmarny/docxref/pkg/defaults"
	apperrors "github.com/mchmarny/docxref/pkg/errors"
	"github.com/mchmarny/docxref/pkg/serializer"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCXREF_"

// ServerConfig holds the daemon listener settings.
type ServerConfig struct {
	Address        string  `json:"address,omitempty" yaml:"address,omitempty"`
	Port           int     `json:"port,omitempty" yaml:"port,omitempty"`
	RateLimit      float64 `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	RateLimitBurst int     `json:"rateLimitBurst,omitempty" yaml:"rateLimitBurst,omitempty"`
}

// Config is the docxref runtime configuration shared by the CLI and daemon.
type Config struct {
	// Sources are documentation roots: local directories or http(s) base URLs.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// Concurrency bounds parallel source reads per item.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// LoadTimeoutSeconds bounds one item resolution across all sources.
	LoadTimeoutSeconds int `json:"loadTimeoutSeconds,omitempty" yaml:"loadTimeoutSeconds,omitempty"`

	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Concurrency:        defaults.LoaderConcurrency,
		LoadTimeoutSeconds: int(defaults.LoaderTimeout.Seconds()),
		LogLevel:           "info",
		Server: ServerConfig{
			Port:           8080,
			RateLimit:      100,
			RateLimitBurst: 200,
		},
	}
}

// Load builds the configuration from defaults, then the optional file at
// path (YAML or JSON, local, http(s) or cm://), then DOCXREF_* environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := serializer.FromFile[Config](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		cfg.overlay(fileCfg)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTimeout returns LoadTimeoutSeconds as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutSeconds) * time.Second
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "concurrency must be at least 1",
			map[string]any{"concurrency": c.Concurrency})
	}
	if c.LoadTimeoutSeconds < 1 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "load timeout must be at least 1 second",
			map[string]any{"loadTimeoutSeconds": c.LoadTimeoutSeconds})
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "invalid server port",
			map[string]any{"port": c.Server.Port})
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst < 1 {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "rate limit and burst must be positive",
			map[string]any{"rateLimit": c.Server.RateLimit, "rateLimitBurst": c.Server.RateLimitBurst})
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s) == "" {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "source is empty",
				map[string]any{"index": i})
		}
	}
	return nil
}

// overlay copies every field set in o onto c.
func (c *Config) overlay(o *Config) {
	if o == nil {
		return
	}
	if len(o.Sources) > 0 {
		c.Sources = append([]string(nil), o.Sources...)
	}
	if o.Concurrency != 0 {
		c.Concurrency = o.Concurrency
	}
	if o.LoadTimeoutSeconds != 0 {
		c.LoadTimeoutSeconds = o.LoadTimeoutSeconds
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Server.Address != "" {
		c.Server.Address = o.Server.Address
	}
	if o.Server.Port != 0 {
		c.Server.Port = o.Server.Port
	}
	if o.Server.RateLimit != 0 {
		c.Server.RateLimit = o.Server.RateLimit
	}
	if o.Server.RateLimitBurst != 0 {
		c.Server.RateLimitBurst = o.Server.RateLimitBurst
	}
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup(EnvPrefix + "SOURCES"); ok && v != "" {
		c.Sources = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "ADDRESS"); ok {
		c.Server.Address = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CONCURRENCY", &c.Concurrency},
		{"LOAD_TIMEOUT_SECONDS", &c.LoadTimeoutSeconds},
		{"PORT", &c.Server.Port},
		{"RATE_LIMIT_BURST", &c.Server.RateLimitBurst},
	}
	for _, e := range ints {
		v, ok := lookup(EnvPrefix + e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid integer in environment", err,
				map[string]any{"var": EnvPrefix + e.key, "value": v})
		}
		*e.dst = n
	}

	if v, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid number in environment", err,
				map[string]any{"var": EnvPrefix + "RATE_LIMIT", "value": v})
		}
		c.Server.RateLimit = f
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
