// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/basketwise/internal/models"
)

// healthPingTimeout bounds the store ping in health checks.
const healthPingTimeout = 2 * time.Second

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	breakerOpen    = "open"
)

func (h *Handler) pingStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.store.Ping(ctx)
}

// Health handles GET /api/v1/health. It always answers 200; a failed store
// ping or an open breaker marks the status degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeOK := h.store != nil && h.pingStore(r.Context()) == nil

	resp := models.HealthResponse{
		Status:        statusHealthy,
		Version:       h.version,
		StoreOK:       storeOK,
		CacheEnabled:  h.cacheEnabled(),
		Uptime:        time.Since(h.startTime).Seconds(),
		LastCheckTime: time.Now().UTC(),
	}
	if h.breaker != nil {
		resp.BreakerState = h.breaker.State()
	}
	if !storeOK || resp.BreakerState == breakerOpen {
		resp.Status = statusDegraded
	}

	respondJSON(w, http.StatusOK, resp)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 only when the store answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondRequestError(w, r, http.StatusServiceUnavailable, "store not configured", nil)
		return
	}
	if err := h.pingStore(r.Context()); err != nil {
		respondRequestError(w, r, http.StatusServiceUnavailable, "store not ready", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ready": true})
}
