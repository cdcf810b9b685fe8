// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package models

import "time"

// RecommendationRequest is the body of POST /api/v1/recommendations.
// CurrentItems accepts numbers and strings: [12, "13", " 014 "].
type RecommendationRequest struct {
	UserID       string      `json:"user_id" validate:"omitempty,max=64"`
	Limit        *int        `json:"limit,omitempty" validate:"omitempty,max=100"`
	CurrentItems []ProductID `json:"current_items" validate:"omitempty,max=200,dive,product_id"`
}

// ErrorResponse is the single error document every surface emits.
//
//	{"error": "query transaction pairs: database is closed"}
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	StoreOK       bool      `json:"store_ok"`
	BreakerState  string    `json:"breaker_state,omitempty"`
	CacheEnabled  bool      `json:"cache_enabled"`
	Uptime        float64   `json:"uptime_seconds"`
	LastCheckTime time.Time `json:"last_check"`
}
