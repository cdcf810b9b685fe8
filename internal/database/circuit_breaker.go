// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/models"
	"github.com/tomtom215/basketwise/internal/recommend"
)

// BreakerName labels the store breaker in logs and metrics.
const BreakerName = "checkout-store"

// BreakerStore wraps a recommend.Store with the circuit breaker pattern.
// While the store keeps failing, calls fail fast with gobreaker.ErrOpenState
// instead of piling up behind query timeouts. It never retries.
//
// The breaker uses real time for its interval and timeout; tests drive it
// through request counts, not clocks.
type BreakerStore struct {
	store recommend.Store
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

var _ recommend.Store = (*BreakerStore)(nil)

// NewBreakerStore wraps store. The breaker opens once at least
// cfg.MinRequests calls were seen in the interval and the failure ratio
// reaches cfg.FailureRatio.
//
//nolint:gocritic // cfg passed by value
func NewBreakerStore(store recommend.Store, cfg config.BreakerConfig) *BreakerStore {
	name := BreakerName

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A caller giving up is not a store failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{store: store, cb: cb, name: name}
}

// State returns the breaker state: closed, half-open or open.
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

// execute wraps a store call with circuit breaker protection
func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// TransactionPairs reads the transaction log with circuit breaker protection
func (b *BreakerStore) TransactionPairs(ctx context.Context) ([]models.TransactionItem, error) {
	return castResult[[]models.TransactionItem](b.execute(func() (any, error) {
		return b.store.TransactionPairs(ctx)
	}))
}

// RecentProducts reads purchase history with circuit breaker protection
func (b *BreakerStore) RecentProducts(ctx context.Context, userID string, n int) ([]models.ProductID, error) {
	return castResult[[]models.ProductID](b.execute(func() (any, error) {
		return b.store.RecentProducts(ctx, userID, n)
	}))
}

// ProductSaleCounts reads sale counts with circuit breaker protection
func (b *BreakerStore) ProductSaleCounts(ctx context.Context) ([]models.ProductCount, error) {
	return castResult[[]models.ProductCount](b.execute(func() (any, error) {
		return b.store.ProductSaleCounts(ctx)
	}))
}

// ProductsByIDs reads catalog rows with circuit breaker protection
func (b *BreakerStore) ProductsByIDs(ctx context.Context, ids []models.ProductID) ([]models.Product, error) {
	return castResult[[]models.Product](b.execute(func() (any, error) {
		return b.store.ProductsByIDs(ctx, ids)
	}))
}
