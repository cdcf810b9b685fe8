// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/models"
	"github.com/tomtom215/basketwise/internal/recommend"
	"github.com/tomtom215/basketwise/internal/validation"
)

// maxRequestBodyBytes bounds POST bodies.
const maxRequestBodyBytes = 64 << 10

// InvalidateStatus values returned by the cache invalidation endpoint.
const (
	InvalidateQueued        = "queued"
	InvalidateDone          = "invalidated"
	InvalidateCacheDisabled = "cache_disabled"
)

// RecommendationsGet handles GET /api/v1/recommendations.
//
// Query parameters: user_id, limit, current_items (comma separated).
func (h *Handler) RecommendationsGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := models.RecommendationRequest{
		UserID:       strings.TrimSpace(q.Get("user_id")),
		CurrentItems: models.ParseProductIDs(q.Get("current_items")),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondRequestError(w, r, http.StatusBadRequest, "limit must be an integer", nil)
			return
		}
		req.Limit = &limit
	}

	h.recommend(w, r, &req)
}

// RecommendationsPost handles POST /api/v1/recommendations.
//
//	{"user_id": "u-1001", "limit": 5, "current_items": [7, "8"]}
//
// An empty body is an anonymous request with the default limit.
func (h *Handler) RecommendationsPost(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)

	h.recommend(w, r, &req)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req *models.RecommendationRequest) {
	if verr := validation.ValidateStruct(req); verr != nil {
		respondRequestError(w, r, http.StatusBadRequest, verr.Error(), nil)
		return
	}

	limit := h.defaultLimit()
	if req.Limit != nil {
		limit = *req.Limit
	}

	recs, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:       req.UserID,
		Limit:        limit,
		CurrentItems: req.CurrentItems,
	})
	if err != nil {
		respondRequestError(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// decodeBody reads an optional JSON body into v. It writes the error
// response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondRequestError(w, r, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return false
		}
		respondRequestError(w, r, http.StatusBadRequest, "read request body failed", err)
		return false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return true
	}
	if err := json.Unmarshal(data, v); err != nil {
		respondRequestError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error(), nil)
		return false
	}
	return true
}

type invalidateRequest struct {
	Reason string `json:"reason"`
}

type invalidateResponse struct {
	Status string `json:"status"`
}

// InvalidateCache handles POST /api/v1/recommendations/cache/invalidate.
//
// With an event bus the invalidation is published and the response is 202
// "queued". If publishing fails, or there is no bus, the cache is dropped
// directly and the response is 200 "invalidated". With caching disabled the
// response is 200 "cache_disabled".
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reason := req.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "api request"
	}

	if !h.cacheEnabled() {
		respondJSON(w, http.StatusOK, invalidateResponse{Status: InvalidateCacheDisabled})
		return
	}

	if h.publisher != nil {
		err := h.publisher.PublishInvalidate(r.Context(), reason)
		if err == nil {
			respondJSON(w, http.StatusAccepted, invalidateResponse{Status: InvalidateQueued})
			return
		}
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Publishing invalidation failed, invalidating directly")
	}

	h.cache.Invalidate()
	respondJSON(w, http.StatusOK, invalidateResponse{Status: InvalidateDone})
}
