// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/models"
)

// ErrNoStore is returned when the engine has no store to read from.
var ErrNoStore = errors.New("recommend: no store configured")

// Store is the read-only view of the checkout database the engine needs.
// It is typically implemented by the database package.
type Store interface {
	Catalog

	// TransactionPairs returns every (transaction, product) line item.
	TransactionPairs(ctx context.Context) ([]models.TransactionItem, error)

	// RecentProducts returns up to n product ids the user bought, most
	// recent transaction first.
	RecentProducts(ctx context.Context, userID string, n int) ([]models.ProductID, error)

	// ProductSaleCounts returns the line item count per product, including
	// catalog products that never sold.
	ProductSaleCounts(ctx context.Context) ([]models.ProductCount, error)
}

// Request is one recommendation query.
type Request struct {
	// UserID selects the purchase history signal. Empty means anonymous.
	UserID string

	// Limit bounds the result size. Zero or less returns an empty result.
	Limit int

	// CurrentItems is the in-progress cart.
	CurrentItems []models.ProductID
}

// Engine runs the recommendation pipeline. It is safe for concurrent use.
type Engine struct {
	store     Store
	config    Config
	logger    zerolog.Logger
	assembler *Assembler
	cache     *SnapshotCache
}

// NewEngine creates an engine reading from store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store Store, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		store:     store,
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		assembler: NewAssembler(store),
	}
	if cfg.CacheEnabled {
		e.cache = NewSnapshotCache(cfg.CacheTTL, e.buildSnapshot)
	}
	return e, nil
}

// Cache returns the snapshot cache, or nil when caching is disabled.
func (e *Engine) Cache() *SnapshotCache {
	return e.cache
}

// Recommend produces up to req.Limit recommendations. Any store error aborts
// the whole request; there are no partial results.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) ([]models.Recommendation, error) {
	start := time.Now()
	recs, err := e.recommend(ctx, req)
	metrics.RecordRecommendation(time.Since(start), len(recs), err)
	return recs, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request) ([]models.Recommendation, error) {
	if e == nil || e.store == nil {
		return nil, ErrNoStore
	}
	logger := logging.CtxWith(ctx).
		Str("component", "recommend").
		Str("user_id", req.UserID).
		Int("limit", req.Limit).
		Int("cart_size", len(req.CurrentItems)).
		Logger()

	if req.Limit <= 0 {
		return []models.Recommendation{}, nil
	}

	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var history []models.ProductID
	if req.UserID != "" && e.config.HistorySize > 0 {
		history, err = e.store.RecentProducts(ctx, req.UserID, e.config.HistorySize)
		if err != nil {
			return nil, fmt.Errorf("read purchase history: %w", err)
		}
	}

	candidates := NewScorer(snap.Matrix, e.config.Weights).Score(req.CurrentItems, history)

	recs, stats, err := e.assembler.Assemble(ctx, AssembleInput{
		Candidates: candidates,
		Slate:      snap.Slate,
		Cart:       req.CurrentItems,
		Matrix:     snap.Matrix,
		Limit:      req.Limit,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecommendFallbackFills.Add(float64(stats.Filled))
	metrics.RecommendHydrationDrops.Add(float64(stats.Dropped))
	if stats.Dropped > 0 {
		logger.Warn().Int("dropped", stats.Dropped).Msg("ranked products missing from catalog")
	}
	logger.Debug().
		Int("history_size", len(history)).
		Int("candidates", len(candidates.Ranked)).
		Int("scored", stats.Scored).
		Int("filled", stats.Filled).
		Int("returned", stats.Returned).
		Msg("recommendation complete")

	return recs, nil
}

func (e *Engine) snapshot(ctx context.Context) (*Snapshot, error) {
	if e.cache != nil {
		return e.cache.Get(ctx)
	}
	return e.buildSnapshot(ctx)
}

// buildSnapshot reads the transaction log and sale counts and derives the
// matrix and popularity slate.
func (e *Engine) buildSnapshot(ctx context.Context) (*Snapshot, error) {
	pairs, err := e.store.TransactionPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transaction pairs: %w", err)
	}
	counts, err := e.store.ProductSaleCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read product sale counts: %w", err)
	}

	matrix := BuildCoOccurrence(pairs, BuildOptions{
		LargeBasketWarn: e.config.LargeBasketWarn,
		Logger:          e.logger,
	})
	return &Snapshot{
		Matrix:  matrix,
		Slate:   BuildPopularitySlate(counts, e.config.PopularSize),
		BuiltAt: time.Now(),
	}, nil
}
