// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/models"
)

func newTestEngine(t *testing.T, store Store, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewEngine(store, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// scenarioStore holds {1,2,3} five times and {1,4} once.
func scenarioStore() *memStore {
	s := newMemStore().addProducts(1, 2, 3, 4)
	for i := 0; i < 5; i++ {
		s.addBasket(1, 2, 3)
	}
	s.addBasket(1, 4)
	return s
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, DefaultConfig(), zerolog.Nop()); !errors.Is(err, ErrNoStore) {
		t.Errorf("NewEngine(nil) error = %v, want ErrNoStore", err)
	}

	cfg := DefaultConfig()
	cfg.Weights.Cart = -1
	if _, err := NewEngine(newMemStore(), cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() should reject negative weights")
	}

	e := newTestEngine(t, newMemStore(), nil)
	if e.Cache() != nil {
		t.Error("cache should be disabled by default")
	}
}

func TestRecommendPopularOnly(t *testing.T) {
	t.Parallel()

	store := newMemStore().addProducts(7, 3, 12, 1, 5, 9, 2)
	e := newTestEngine(t, store, nil)

	recs, err := e.Recommend(context.Background(), Request{Limit: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got := recIDs(recs); !slices.Equal(got, ids(1, 2, 3, 5, 7)) {
		t.Errorf("ids = %v, want [1 2 3 5 7]", got)
	}
	for _, r := range recs {
		if r.Reason != ReasonPopular {
			t.Errorf("%s reason = %q, want %q", r.ID, r.Reason, ReasonPopular)
		}
	}
}

func TestRecommendCartNeighbors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, scenarioStore(), nil)

	recs, err := e.Recommend(context.Background(), Request{Limit: 3, CurrentItems: ids(1)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got := recIDs(recs); !slices.Equal(got, ids(2, 3, 4)) {
		t.Errorf("ids = %v, want [2 3 4]", got)
	}
	for _, r := range recs {
		if r.Reason != ReasonCart {
			t.Errorf("%s reason = %q, want %q", r.ID, r.Reason, ReasonCart)
		}
	}
}

func TestRecommendNormalizedCartExcluded(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, scenarioStore(), nil)

	cart := models.ParseProductIDs(" 002 ")
	recs, err := e.Recommend(context.Background(), Request{Limit: 10, CurrentItems: cart})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range recs {
		if r.ID == models.ProductIDFromInt(2) {
			t.Fatalf("cart product 2 was recommended: %v", recIDs(recs))
		}
	}
	if len(recs) != 3 {
		t.Errorf("len = %d, want 3 (every other product)", len(recs))
	}
}

func TestRecommendUnknownCartItem(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	store.addProducts(50)
	e := newTestEngine(t, store, nil)

	// 50 has no baskets: it contributes nothing and is still excluded
	recs, err := e.Recommend(context.Background(), Request{Limit: 10, CurrentItems: ids(50)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := recIDs(recs); !slices.Equal(got, ids(1, 2, 3, 4)) {
		t.Errorf("ids = %v, want popularity order [1 2 3 4]", got)
	}
}

func TestRecommendMissingCatalogRow(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	store.hideProduct[models.ProductIDFromInt(2)] = true
	e := newTestEngine(t, store, nil)

	recs, err := e.Recommend(context.Background(), Request{Limit: 3, CurrentItems: ids(1)})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := recIDs(recs); !slices.Equal(got, ids(3, 4)) {
		t.Errorf("ids = %v, want [3 4]", got)
	}
}

func TestRecommendHistory(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	store.history["u1"] = ids(4)
	e := newTestEngine(t, store, nil)

	recs, err := e.Recommend(context.Background(), Request{UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].ID != "1" || recs[0].Reason != ReasonHistory {
		t.Errorf("recs[0] = (%s, %q), want (1, %q)", recs[0].ID, recs[0].Reason, ReasonHistory)
	}
	if recs[1].Reason != ReasonPopular {
		t.Errorf("recs[1].Reason = %q, want %q", recs[1].Reason, ReasonPopular)
	}
}

func TestRecommendLimitZero(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	e := newTestEngine(t, store, nil)

	for _, limit := range []int{0, -3} {
		recs, err := e.Recommend(context.Background(), Request{Limit: limit})
		if err != nil {
			t.Fatalf("Recommend(limit=%d) error = %v", limit, err)
		}
		if recs == nil || len(recs) != 0 {
			t.Errorf("Recommend(limit=%d) = %v, want empty", limit, recs)
		}
	}
}

func TestRecommendNoProducts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, newMemStore(), nil)
	recs, err := e.Recommend(context.Background(), Request{Limit: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recommend() = %v, want empty", recs)
	}
}

func TestRecommendStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("database is locked")
	tests := []struct {
		name   string
		mutate func(*memStore)
		req    Request
	}{
		{name: "transaction pairs", mutate: func(s *memStore) { s.pairsErr = boom }, req: Request{Limit: 3}},
		{name: "sale counts", mutate: func(s *memStore) { s.countsErr = boom }, req: Request{Limit: 3}},
		{name: "history", mutate: func(s *memStore) { s.historyErr = boom }, req: Request{UserID: "u1", Limit: 3}},
		{name: "catalog", mutate: func(s *memStore) { s.fetchErr = boom }, req: Request{Limit: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := scenarioStore()
			tt.mutate(store)
			e := newTestEngine(t, store, nil)

			recs, err := e.Recommend(context.Background(), tt.req)
			if !errors.Is(err, boom) {
				t.Errorf("Recommend() error = %v, want wrapped %v", err, boom)
			}
			if recs != nil {
				t.Errorf("Recommend() returned partial results %v", recs)
			}
		})
	}
}

func TestRecommendDeterministic(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	store.addProducts(8, 9)
	store.addBasket(2, 8, 9)
	store.addBasket(3, 9)
	store.history["u"] = ids(9, 2)

	req := Request{UserID: "u", Limit: 5, CurrentItems: ids(1)}
	var first []byte
	for i := 0; i < 10; i++ {
		e := newTestEngine(t, store, nil)
		recs, err := e.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		out, err := json.Marshal(recs)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if first == nil {
			first = out
			continue
		}
		if string(out) != string(first) {
			t.Fatalf("run %d output differs:\n%s\n%s", i, out, first)
		}
	}
}

func TestRecommendWithSnapshotCache(t *testing.T) {
	t.Parallel()

	store := scenarioStore()
	e := newTestEngine(t, store, func(c *Config) {
		c.CacheEnabled = true
		c.CacheTTL = time.Hour
	})

	for i := 0; i < 3; i++ {
		if _, err := e.Recommend(context.Background(), Request{Limit: 3, CurrentItems: ids(1)}); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	}
	if n := store.pairsCalls.Load(); n != 1 {
		t.Errorf("transaction pairs read %d times with a warm cache, want 1", n)
	}

	// A new basket is invisible until the snapshot is invalidated
	store.addBasket(1, 4)
	store.addBasket(1, 4)
	store.addBasket(1, 4)
	store.addBasket(1, 4)
	store.addBasket(1, 4)

	recs, _ := e.Recommend(context.Background(), Request{Limit: 1, CurrentItems: ids(1)})
	if got := recIDs(recs); !slices.Equal(got, ids(2)) {
		t.Errorf("cached ids = %v, want [2]", got)
	}

	e.Cache().Invalidate()
	recs, _ = e.Recommend(context.Background(), Request{Limit: 1, CurrentItems: ids(1)})
	if got := recIDs(recs); !slices.Equal(got, ids(4)) {
		t.Errorf("ids after invalidation = %v, want [4]", got)
	}
	if n := store.pairsCalls.Load(); n != 2 {
		t.Errorf("transaction pairs read %d times, want 2", n)
	}
}

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	rc := config.RecommendConfig{
		HistorySize:     7,
		PopularSize:     15,
		CartWeight:      3,
		HistoryWeight:   0.5,
		LargeBasketWarn: 99,
		Cache:           config.RecommendCacheConfig{Enabled: true, TTL: time.Minute},
	}
	got := ConfigFromSettings(rc)
	want := Config{
		HistorySize:     7,
		PopularSize:     15,
		Weights:         Weights{Cart: 3, History: 0.5},
		LargeBasketWarn: 99,
		CacheEnabled:    true,
		CacheTTL:        time.Minute,
	}
	if got != want {
		t.Errorf("ConfigFromSettings() = %+v, want %+v", got, want)
	}
}
