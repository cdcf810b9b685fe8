// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/basketwise/internal/models"
)

// memStore implements Store over in-memory slices for testing.
type memStore struct {
	mu       sync.Mutex
	items    []models.TransactionItem
	history  map[string][]models.ProductID
	products map[models.ProductID]models.Product

	pairsErr   error
	historyErr error
	countsErr  error
	fetchErr   error

	pairsCalls  atomic.Int32
	fetchCalls  atomic.Int32
	fetchedIDs  [][]models.ProductID
	hideProduct map[models.ProductID]bool
}

func newMemStore() *memStore {
	return &memStore{
		history:     make(map[string][]models.ProductID),
		products:    make(map[models.ProductID]models.Product),
		hideProduct: make(map[models.ProductID]bool),
	}
}

// addProducts registers catalog rows with integer ids.
func (m *memStore) addProducts(ids ...int64) *memStore {
	for _, n := range ids {
		id := models.ProductIDFromInt(n)
		m.products[id] = models.Product{
			ID:    id,
			Name:  "Product " + strconv.FormatInt(n, 10),
			Price: float64(n) + 0.99,
		}
	}
	return m
}

// addBasket appends a transaction holding the given integer product ids.
func (m *memStore) addBasket(ids ...int64) *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := fmt.Sprintf("tx-%d", len(m.items))
	for _, n := range ids {
		m.items = append(m.items, models.TransactionItem{TransactionID: tx, ProductID: models.ProductIDFromInt(n)})
	}
	return m
}

func (m *memStore) TransactionPairs(ctx context.Context) ([]models.TransactionItem, error) {
	m.pairsCalls.Add(1)
	if m.pairsErr != nil {
		return nil, m.pairsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.TransactionItem(nil), m.items...), nil
}

func (m *memStore) RecentProducts(ctx context.Context, userID string, n int) ([]models.ProductID, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	h := m.history[userID]
	if len(h) > n {
		h = h[:n]
	}
	return h, nil
}

func (m *memStore) ProductSaleCounts(ctx context.Context) ([]models.ProductCount, error) {
	if m.countsErr != nil {
		return nil, m.countsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.ProductID]int)
	for id := range m.products {
		counts[id] = 0
	}
	for _, it := range m.items {
		counts[it.ProductID]++
	}
	out := make([]models.ProductCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.ProductCount{ProductID: id, Count: n})
	}
	return out, nil
}

// ProductsByIDs returns rows in reverse request order so callers must restore rank order.
func (m *memStore) ProductsByIDs(ctx context.Context, ids []models.ProductID) ([]models.Product, error) {
	m.fetchCalls.Add(1)
	m.mu.Lock()
	m.fetchedIDs = append(m.fetchedIDs, append([]models.ProductID(nil), ids...))
	m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []models.Product
	for i := len(ids) - 1; i >= 0; i-- {
		if m.hideProduct[ids[i]] {
			continue
		}
		if p, ok := m.products[ids[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func ids(ns ...int64) []models.ProductID {
	out := make([]models.ProductID, len(ns))
	for i, n := range ns {
		out[i] = models.ProductIDFromInt(n)
	}
	return out
}

func recIDs(recs []models.Recommendation) []models.ProductID {
	out := make([]models.ProductID, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
