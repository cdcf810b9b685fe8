// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

// Package database provides the DuckDB-backed checkout store for Basketwise.
//
// # Overview
//
// The package is the data layer between the recommendation engine and the
// checkout database. It implements recommend.Store with four read queries
// and owns schema creation, demo seeding and the circuit breaker that sits
// in front of the store.
//
// Files:
//   - database.go: connection lifecycle (open, ping, close) and the sqlite attach
//   - schema.go: users, transactions, transaction_items and products tables
//   - recommend_store.go: the recommend.Store queries
//   - writes.go: product and transaction inserts used by seeding and tests
//   - seed.go: small deterministic demo catalog and basket history
//   - circuit_breaker.go: BreakerStore, a gobreaker wrapper around any Store
//
// # Legacy SQLite Checkout Database
//
// When database.sqlite_path is set, the sqlite_scanner extension attaches the
// existing checkout.db read-only and every query reads from it instead of the
// native DuckDB tables:
//
//	SQLITE_PATH=./backend/database/checkout.db basketwise-server
//
// # Timeouts
//
// Every query runs under database.query_timeout (default 30s) derived from the
// caller's context. Errors are wrapped with the query name:
//
//	query transaction pairs: context deadline exceeded
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools the DuckDB connections.
package database
