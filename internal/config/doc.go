// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package config provides centralized configuration management for Basketwise.

Configuration is loaded with Koanf v2 from three layers, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, config.yaml, /etc/basketwise/config.yaml)
 3. Environment variables mapped explicitly to config keys

A .env file in the working directory is read before the environment layer so
local runs can keep settings next to the checkout database.

# Environment Variables

Database (DatabaseConfig):
  - DATABASE_PATH: DuckDB file path (default: ./database/checkout.duckdb)
  - SQLITE_PATH: legacy checkout.db to attach read-only (default: empty)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 512MB)
  - DUCKDB_THREADS: DuckDB worker threads (default: 0 = NumCPU)
  - DATABASE_QUERY_TIMEOUT: per-query timeout (default: 30s)
  - SEED_DEMO_DATA: create a small demo catalog on startup (default: false)

HTTP Server (ServerConfig):
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - HTTP_PORT: listen port (default: 3858)
  - HTTP_TIMEOUT: read/write timeout (default: 30s)

Recommendations (RecommendConfig):
  - RECOMMEND_DEFAULT_LIMIT: default number of recommendations (default: 5)
  - RECOMMEND_HISTORY_SIZE: recent purchases used as history (default: 10)
  - RECOMMEND_POPULAR_SIZE: size of the best-seller slate (default: 20)
  - RECOMMEND_CACHE_ENABLED: cache the co-occurrence snapshot (default: false)
  - RECOMMEND_CACHE_TTL: snapshot freshness window (default: 5m)

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Thread Safety

Config is immutable after loading and safe for concurrent reads.
*/
package config
