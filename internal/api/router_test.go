// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/models"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		store      Pinger
		breaker    BreakerStater
		wantStatus string
		wantStore  bool
	}{
		{"healthy", fakePinger{}, fakeBreaker("closed"), statusHealthy, true},
		{"store down", fakePinger{err: errors.New("database is closed")}, nil, statusDegraded, false},
		{"breaker open", fakePinger{}, fakeBreaker("open"), statusDegraded, true},
		{"no store", nil, nil, statusDegraded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(testConfig(), &fakeRecommender{}, tt.store, "1.2.3")
			if tt.breaker != nil {
				h.SetBreaker(tt.breaker)
			}
			rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}

			var resp models.HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus || resp.StoreOK != tt.wantStore || resp.Version != "1.2.3" {
				t.Errorf("health = %+v", resp)
			}
			if tt.breaker != nil && resp.BreakerState != tt.breaker.State() {
				t.Errorf("BreakerState = %q", resp.BreakerState)
			}
		})
	}
}

func TestHealthReadyAndLive(t *testing.T) {
	t.Parallel()

	up := NewHandler(testConfig(), &fakeRecommender{}, fakePinger{}, "test")
	if rec := serve(t, up, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}
	if rec := serve(t, up, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}

	down := NewHandler(testConfig(), &fakeRecommender{}, fakePinger{err: errors.New("boom")}, "test")
	rec := serve(t, down, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "store not ready" {
		t.Errorf("error = %q", msg)
	}
	if rec := serve(t, down, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)); rec.Code != http.StatusOK {
		t.Errorf("live status with store down = %d, want 200", rec.Code)
	}
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), &fakeRecommender{}, fakePinger{}, "test")

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound || decodeError(t, rec) != "not found" {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/api/v1/recommendations", nil))
	if rec.Code != http.StatusMethodNotAllowed || decodeError(t, rec) != "method not allowed" {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterHeaders(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), &fakeRecommender{}, fakePinger{}, "test")
	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := NewHandler(testConfig(), &fakeRecommender{}, fakePinger{}, "test")
	_ = serve(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("metrics output missing http_requests_total")
	}
}

func TestRouterRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RateLimitReqs: 1, RateLimitWindow: time.Minute}
	h := NewHandler(cfg, &fakeRecommender{}, fakePinger{}, "test")
	handler := NewRouter(h, ChiMiddlewareConfigFromSecurity(&cfg.Security)).SetupChi()

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "too many requests" {
		t.Errorf("error = %q", msg)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://shop.example.com"}
	h := NewHandler(cfg, &fakeRecommender{}, fakePinger{}, "test")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(t, h, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	if got := ChiMiddlewareConfigFromSecurity(nil); got.RateLimitRequests != 100 || got.RateLimitWindow != time.Minute {
		t.Errorf("nil security = %+v", got)
	}

	got := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitReqs:     7,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
	})
	if got.RateLimitRequests != 7 || got.RateLimitWindow != time.Second || !got.RateLimitDisabled || got.CORSAllowedOrigins[0] != "*" {
		t.Errorf("mapped = %+v", got)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\tc"); got != `a\x0ab\x09c` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
