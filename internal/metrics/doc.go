// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the HTTP server at /metrics:

	curl http://localhost:3858/metrics

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Pipeline runs (counter)
    Labels: outcome (ok, empty, error)
  - recommend_duration_seconds: End-to-end pipeline latency (histogram)
  - recommend_fallback_fills_total: Popularity items used to fill results (counter)
  - recommend_hydration_drops_total: Ranked ids with no catalog row (counter)
  - recommend_large_baskets_total: Baskets above the warning threshold (counter)

Snapshot Cache Metrics:
  - recommend_snapshot_cache_hits_total / _misses_total (counter)
  - recommend_snapshot_rebuilds_total (counter)
  - recommend_snapshot_invalidations_total (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: query
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: query

HTTP Metrics:
  - http_requests_total, http_request_duration_seconds, http_requests_in_flight

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

Event Bus Metrics:
  - events_published_total / events_processed_total: Labels topic (and status)

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("transaction_pairs", time.Since(start), err)
*/
package metrics
