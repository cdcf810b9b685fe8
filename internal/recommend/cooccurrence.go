// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/models"
)

// CoOccurrenceMatrix counts how often two products share a basket.
// Increment is the only mutator, so counts stay symmetric and self pairs never
// appear.
type CoOccurrenceMatrix struct {
	counts map[models.ProductID]map[models.ProductID]int
}

// Neighbor is one entry of a matrix row.
type Neighbor struct {
	ID    models.ProductID
	Count int
}

// NewCoOccurrenceMatrix returns an empty matrix.
func NewCoOccurrenceMatrix() *CoOccurrenceMatrix {
	return &CoOccurrenceMatrix{counts: make(map[models.ProductID]map[models.ProductID]int)}
}

// Increment adds one to count[a][b]. Self pairs are ignored.
func (m *CoOccurrenceMatrix) Increment(a, b models.ProductID) {
	if a == b {
		return
	}
	row, ok := m.counts[a]
	if !ok {
		row = make(map[models.ProductID]int)
		m.counts[a] = row
	}
	row[b]++
}

// Count returns how many times a and b were seen together.
func (m *CoOccurrenceMatrix) Count(a, b models.ProductID) int {
	return m.counts[a][b]
}

// Neighbors returns the row for id in ProductID order.
func (m *CoOccurrenceMatrix) Neighbors(id models.ProductID) []Neighbor {
	row := m.counts[id]
	if len(row) == 0 {
		return nil
	}
	ids := make([]models.ProductID, 0, len(row))
	for n := range row {
		ids = append(ids, n)
	}
	models.SortProductIDs(ids)

	out := make([]Neighbor, len(ids))
	for i, n := range ids {
		out[i] = Neighbor{ID: n, Count: row[n]}
	}
	return out
}

// Len returns the number of products with at least one neighbor.
func (m *CoOccurrenceMatrix) Len() int {
	return len(m.counts)
}

// BuildOptions tunes BuildCoOccurrence.
type BuildOptions struct {
	// LargeBasketWarn logs a sampled warning for baskets above this size.
	// Zero disables the check.
	LargeBasketWarn int

	Logger zerolog.Logger
}

// largeBasketLog samples large basket warnings: the first few, then one per interval.
var largeBasketLog = rate.Sometimes{First: 3, Interval: 30 * time.Second}

// BuildCoOccurrence groups line items into baskets by transaction id and
// increments the matrix for every ordered pair of distinct basket positions.
// A product listed twice in one basket counts once per position; the pair of
// a position with itself is skipped, as are pairs of equal products.
//
//nolint:gocritic // opts passed by value
func BuildCoOccurrence(items []models.TransactionItem, opts BuildOptions) *CoOccurrenceMatrix {
	m := NewCoOccurrenceMatrix()

	order := make([]string, 0)
	baskets := make(map[string][]models.ProductID)
	for _, it := range items {
		if it.ProductID.IsZero() {
			continue
		}
		if _, seen := baskets[it.TransactionID]; !seen {
			order = append(order, it.TransactionID)
		}
		baskets[it.TransactionID] = append(baskets[it.TransactionID], it.ProductID)
	}

	for _, txID := range order {
		basket := baskets[txID]
		if opts.LargeBasketWarn > 0 && len(basket) > opts.LargeBasketWarn {
			metrics.RecommendLargeBaskets.Inc()
			largeBasketLog.Do(func() {
				opts.Logger.Warn().
					Str("transaction_id", txID).
					Int("basket_size", len(basket)).
					Int("threshold", opts.LargeBasketWarn).
					Msg("large basket slows co-occurrence build")
			})
		}
		for i := range basket {
			for j := range basket {
				if i != j {
					m.Increment(basket[i], basket[j])
				}
			}
		}
	}

	return m
}
