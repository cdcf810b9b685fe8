// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package api

import (
	"context"
	"time"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/models"
	"github.com/tomtom215/basketwise/internal/recommend"
)

// Recommender runs the recommendation pipeline. *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]models.Recommendation, error)
}

// Pinger reports store reachability. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// InvalidationPublisher announces a snapshot invalidation. *events.Bus implements it.
type InvalidationPublisher interface {
	PublishInvalidate(ctx context.Context, reason string) error
}

// Invalidator drops cached snapshots. *recommend.SnapshotCache implements it.
type Invalidator interface {
	Invalidate()
}

// BreakerStater exposes a circuit breaker state. *database.BreakerStore implements it.
type BreakerStater interface {
	State() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, optional dependency setters
//   - handlers_helpers.go: JSON and error responses
//   - handlers_recommend.go: recommendation and cache invalidation endpoints
//   - handlers_health.go: health, liveness and readiness endpoints
type Handler struct {
	config    *config.Config
	engine    Recommender
	store     Pinger
	publisher InvalidationPublisher
	cache     Invalidator
	breaker   BreakerStater
	version   string
	startTime time.Time
}

// NewHandler creates a handler. Event publishing, direct cache access and
// breaker reporting are optional and attached with the Set* methods.
//
// Example:
//
//	handler := api.NewHandler(cfg, engine, db, version)
//	handler.SetEventPublisher(bus)
//	handler.SetCache(engine.Cache())
//	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(cfg *config.Config, engine Recommender, store Pinger, version string) *Handler {
	return &Handler{
		config:    cfg,
		engine:    engine,
		store:     store,
		version:   version,
		startTime: time.Now(),
	}
}

// SetEventPublisher routes cache invalidation through the event bus.
func (h *Handler) SetEventPublisher(p InvalidationPublisher) {
	h.publisher = p
}

// SetCache gives the handler direct access to the snapshot cache. A nil
// *recommend.SnapshotCache means caching is disabled.
func (h *Handler) SetCache(c *recommend.SnapshotCache) {
	if c == nil {
		h.cache = nil
		return
	}
	h.cache = c
}

// SetBreaker reports the store circuit breaker in health responses.
func (h *Handler) SetBreaker(b BreakerStater) {
	h.breaker = b
}

func (h *Handler) defaultLimit() int {
	if h.config == nil {
		return recommend.DefaultLimit
	}
	return h.config.Recommend.DefaultLimit
}

func (h *Handler) cacheEnabled() bool {
	return h.cache != nil
}
