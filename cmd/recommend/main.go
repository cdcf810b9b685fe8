// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

// Command recommend prints product recommendations for one shopper as JSON.
//
//	recommend --user_id u-1001 --limit 5 --current_items "7, 8"
//
// Output is an indented JSON array in rank order. Any failure prints
// {"error": "..."} and exits with status 1.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/database"
	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/models"
	"github.com/tomtom215/basketwise/internal/recommend"
)

type options struct {
	userID       string
	limit        int
	currentItems string
	configPath   string
	dbPath       string
	sqlitePath   string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.userID, "user_id", "", "user id for personalized recommendations")
	fs.IntVar(&opts.limit, "limit", recommend.DefaultLimit, "number of recommendations to return")
	fs.StringVar(&opts.currentItems, "current_items", "", "comma separated product ids in the cart")
	fs.StringVar(&opts.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	fs.StringVar(&opts.dbPath, "db", "", "DuckDB database path (overrides database.path)")
	fs.StringVar(&opts.sqlitePath, "sqlite", "", "legacy checkout.db to attach read-only (overrides database.sqlite_path)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.sqlitePath != "" {
		cfg.Database.SQLitePath = opts.sqlitePath
	}
	return cfg, nil
}

func recommendations(ctx context.Context, opts options) ([]models.Recommendation, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing database")
		}
	}()

	engineCfg := recommend.ConfigFromSettings(cfg.Recommend)
	engineCfg.CacheEnabled = false
	engine, err := recommend.NewEngine(db, engineCfg, logging.WithComponent("recommend"))
	if err != nil {
		return nil, err
	}

	return engine.Recommend(ctx, recommend.Request{
		UserID:       strings.TrimSpace(opts.userID),
		Limit:        opts.limit,
		CurrentItems: models.ParseProductIDs(opts.currentItems),
	})
}

// run writes the result document to stdout and returns the exit status.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	var (
		recs []models.Recommendation
		err  error
	)
	opts, err := parseFlags(args)
	if err == nil {
		recs, err = recommendations(ctx, opts)
	}
	if errors.Is(err, flag.ErrHelp) {
		err = errors.New("usage: recommend [--user_id ID] [--limit N] [--current_items a,b] [--config FILE] [--db PATH] [--sqlite PATH]")
	}

	var doc any = recs
	status := 0
	switch {
	case err != nil:
		doc = models.ErrorResponse{Error: err.Error()}
		status = 1
	case recs == nil:
		doc = []models.Recommendation{}
	}

	out, merr := json.MarshalIndent(doc, "", "  ")
	if merr != nil {
		out = []byte(`{"error": "failed to encode result"}`)
		status = 1
	}
	_, _ = fmt.Fprintln(stdout, string(out))
	return status
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(status)
}
