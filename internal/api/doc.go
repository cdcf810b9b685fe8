// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package api provides the HTTP REST API layer for Basketwise.

The API is a thin adapter over the recommendation engine: it parses and
validates requests, applies the configured default limit and renders the
engine's ranked slate as JSON.

Key Components:

  - Router: chi route configuration and middleware stack integration
  - Handler: request handlers for recommendations, cache control and health
  - ChiMiddleware: CORS, per-IP rate limiting (httprate) and security headers
  - Response formatting: goccy/go-json encoding with uniform error bodies

Endpoints:

 1. Recommendations (/api/v1/recommendations):
    - GET  /?user_id=u-1001&limit=5&current_items=7,8
    - POST / with {"user_id": "u-1001", "limit": 5, "current_items": [7, 8]}
    - POST /cache/invalidate with an optional {"reason": "..."}

 2. Health (/api/v1/health):
    - GET /      detailed status, always 200; "degraded" when the store is
    unreachable or the circuit breaker is open
    - GET /live  liveness probe
    - GET /ready readiness probe, 503 until the store answers a ping

 3. Metrics:
    - GET /metrics Prometheus exposition

Response Format:

A successful recommendation call returns a bare JSON array, possibly empty:

	[
	  {"id": 8, "name": "Salsa Dip", "price": 2.19, "barcode": "",
	   "image_url": "", "description": "",
	   "recommendation_reason": "Goes well with your cart"}
	]

Errors use a single shape with an appropriate status code:

	{"error": "limit must be at most 100"}

Usage Example:

	handler := api.NewHandler(cfg, engine, store, version)
	handler.SetEventPublisher(bus)
	handler.SetCache(engine.Cache())

	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}

Thread Safety:

Handlers hold no per-request state and are safe for concurrent use. Cache
invalidation either publishes an event or drops the snapshot directly; both
paths are safe to race with in-flight recommendation requests.
*/
package api
