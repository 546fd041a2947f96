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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/time/rate"

	"github.com/mchmarny/docxref/pkg/config"
	"github.com/mchmarny/docxref/pkg/loader"
	"github.com/mchmarny/docxref/pkg/logging"
	"github.com/mchmarny/docxref/pkg/server"
	"github.com/mchmarny/docxref/pkg/xref"
)

const (
	name           = "docxrefd"
	versionDefault = "dev"

	// configEnv names the optional config file for the daemon.
	configEnv = config.EnvPrefix + "CONFIG"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/mchmarny/docxref/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve runs the cross-reference daemon until SIGINT or SIGTERM.
func Serve() error {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv(configEnv))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"sources", len(cfg.Sources),
	)

	s, err := newServer(cfg)
	if err != nil {
		return err
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// newServer wires the xref handlers for cfg into an HTTP server.
func newServer(cfg *config.Config) (*server.Server, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no documentation sources configured (set %sSOURCES or sources in %s)",
			config.EnvPrefix, configEnv)
	}

	srcs, err := loader.NewSources(cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("invalid source: %w", err)
	}

	svc := xref.NewService(
		loader.New(srcs, loader.WithConcurrency(cfg.Concurrency)),
		xref.WithVersion(version),
		xref.WithTimeout(cfg.LoadTimeout()),
	)

	sc := server.NewConfig()
	sc.Address = cfg.Server.Address
	sc.Port = cfg.Server.Port
	sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	sc.RateLimitBurst = cfg.Server.RateLimitBurst

	return server.New(
		server.WithConfig(sc),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(xref.NewHandler(svc).Routes()),
		server.WithReadyHook(notifyReady),
	), nil
}

// notifyReady tells systemd the daemon is serving. Outside systemd it is a no-op.
func notifyReady() {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		slog.Warn("failed to notify systemd", "error", err)
		return
	}
	if sent {
		slog.Debug("notified systemd of readiness")
	}
}
