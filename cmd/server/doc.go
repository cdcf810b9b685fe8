// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package main is the entry point for the Basketwise recommendation server.

Basketwise answers "what else should this shopper buy?" from checkout
history: products bought together with the cart, products related to the
shopper's recent purchases, and best sellers to fill any remaining slots.

# Application Architecture

	RootSupervisor ("basketwise")
	├── DataSupervisor ("data-layer")
	│   └── Snapshot warmer (RECOMMEND_CACHE_ENABLED=true)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event bus (RECOMMEND_CACHE_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: koanf v2 over defaults, config.yaml, .env and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB, optionally attaching a legacy SQLite checkout.db
 4. Circuit breaker around the store (BREAKER_ENABLED=true)
 5. Recommendation engine and optional snapshot cache
 6. Supervisor tree, then the HTTP server

# Configuration

	# Server
	HTTP_PORT=3858
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Store
	DATABASE_PATH=./database/checkout.duckdb
	SQLITE_PATH=                 # attach checkout.db read-only
	SEED_DEMO_DATA=false

	# Recommendations
	RECOMMEND_DEFAULT_LIMIT=5
	RECOMMEND_CACHE_ENABLED=false
	RECOMMEND_CACHE_TTL=5m

# Example Usage

	SEED_DEMO_DATA=true LOG_FORMAT=console ./basketwise-server
	curl 'http://localhost:3858/api/v1/recommendations?user_id=u-1001&current_items=7'

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for HTTP_SHUTDOWN_TIMEOUT before the database is closed.
*/
package main
