// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/basketwise/internal/api"
	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/database"
	"github.com/tomtom215/basketwise/internal/events"
	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/recommend"
	"github.com/tomtom215/basketwise/internal/supervisor"
	"github.com/tomtom215/basketwise/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("sqlite_attached", cfg.Database.SQLitePath != "").
		Bool("cache_enabled", cfg.Recommend.Cache.Enabled).
		Bool("breaker_enabled", cfg.Breaker.Enabled).
		Msg("Starting Basketwise")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(context.Background()); err != nil {
			return err
		}
		logging.Info().Msg("Demo data seeded")
	}

	var store recommend.Store = db
	var breaker *database.BreakerStore
	if cfg.Breaker.Enabled {
		breaker = database.NewBreakerStore(db, cfg.Breaker)
		store = breaker
	}

	engine, err := recommend.NewEngine(store, recommend.ConfigFromSettings(cfg.Recommend), logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	handler := api.NewHandler(cfg, engine, db, version)
	if breaker != nil {
		handler.SetBreaker(breaker)
	}

	if cache := engine.Cache(); cache != nil {
		bus := events.NewBus(events.DefaultBusConfig())
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		bus.SubscribeInvalidator("snapshot-cache", cache)

		handler.SetCache(cache)
		handler.SetEventPublisher(bus)

		tree.AddMessagingService(services.NewEventBusService(bus))
		tree.AddDataService(services.NewSnapshotWarmerService(cache, services.SnapshotWarmerConfig{
			WarmOnStartup: true,
			Interval:      cfg.Recommend.Cache.TTL,
		}, logging.WithComponent("supervisor")))
		logging.Info().Dur("ttl", cfg.Recommend.Cache.TTL).Msg("Snapshot cache and event bus added to supervisor tree")
	}

	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	if len(unstopped) > 0 {
		return fmt.Errorf("%d services failed to stop", len(unstopped))
	}
	return nil
}
