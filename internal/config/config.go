// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// config file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Breaker   BreakerConfig   `koanf:"breaker"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory database.
	Path string `koanf:"path"`

	// SQLitePath optionally points at a legacy SQLite checkout database. When set,
	// it is attached read-only and all recommendation queries read from it.
	SQLitePath string `koanf:"sqlite_path"`

	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = use NumCPU
	QueryTimeout time.Duration `koanf:"query_timeout"`
	SeedDemoData bool          `koanf:"seed_demo_data"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds recommendation pipeline settings.
type RecommendConfig struct {
	// DefaultLimit is used when a request does not carry a limit.
	DefaultLimit int `koanf:"default_limit"`

	// HistorySize is how many of the user's most recent purchased items feed
	// the history signal.
	HistorySize int `koanf:"history_size"`

	// PopularSize is the length of the best-seller fallback slate.
	PopularSize int `koanf:"popular_size"`

	CartWeight    float64 `koanf:"cart_weight"`
	HistoryWeight float64 `koanf:"history_weight"`

	// LargeBasketWarn logs a sampled warning when a basket has more items than
	// this, since pair counting is quadratic in basket size. 0 disables it.
	LargeBasketWarn int `koanf:"large_basket_warn"`

	Cache RecommendCacheConfig `koanf:"cache"`
}

// RecommendCacheConfig controls the optional co-occurrence snapshot cache.
// Disabled by default: every request rebuilds from a fresh read.
type RecommendCacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// BreakerConfig configures the circuit breaker in front of the data store.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
