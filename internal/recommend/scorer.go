// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"slices"

	"github.com/tomtom215/basketwise/internal/models"
)

// Weights scale co-occurrence counts per signal.
type Weights struct {
	Cart    float64
	History float64
}

// DefaultWeights returns cart 2, history 1.
func DefaultWeights() Weights {
	return Weights{Cart: 2, History: 1}
}

// Candidate is a scored product. FirstSeen is the order in which scoring
// first touched it and breaks score ties.
type Candidate struct {
	ID        models.ProductID
	Score     float64
	FirstSeen int
}

// Candidates is the ranked output of a Scorer.
type Candidates struct {
	Ranked []Candidate
	byID   map[models.ProductID]float64
}

// Score returns the score of id, or zero when it was never touched.
func (c Candidates) Score(id models.ProductID) float64 {
	return c.byID[id]
}

// Scorer accumulates weighted neighbor counts over a matrix.
type Scorer struct {
	matrix  *CoOccurrenceMatrix
	weights Weights
}

// NewScorer creates a scorer over m.
func NewScorer(m *CoOccurrenceMatrix, w Weights) *Scorer {
	return &Scorer{matrix: m, weights: w}
}

// Score walks cart ids in order, then history ids most recent first, adding
// weight*count to every neighbor. Repeated ids contribute again. Ids with no
// row contribute nothing.
func (s *Scorer) Score(cart, history []models.ProductID) Candidates {
	table := make(map[models.ProductID]*Candidate)
	var order []*Candidate

	add := func(ids []models.ProductID, weight float64) {
		for _, id := range ids {
			for _, n := range s.matrix.Neighbors(id) {
				c, ok := table[n.ID]
				if !ok {
					c = &Candidate{ID: n.ID, FirstSeen: len(order)}
					table[n.ID] = c
					order = append(order, c)
				}
				c.Score += float64(n.Count) * weight
			}
		}
	}
	add(cart, s.weights.Cart)
	add(history, s.weights.History)

	out := Candidates{
		Ranked: make([]Candidate, len(order)),
		byID:   make(map[models.ProductID]float64, len(order)),
	}
	for i, c := range order {
		out.Ranked[i] = *c
		out.byID[c.ID] = c.Score
	}
	slices.SortStableFunc(out.Ranked, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return a.FirstSeen - b.FirstSeen
	})
	return out
}
