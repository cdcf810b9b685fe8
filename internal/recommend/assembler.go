// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/basketwise/internal/models"
)

// Recommendation reasons.
const (
	ReasonCart    = "Goes well with your cart"
	ReasonHistory = "Frequently bought with your items"
	ReasonPopular = "Popular item"
)

// Catalog resolves product metadata for a set of ids.
type Catalog interface {
	// ProductsByIDs returns the rows that exist for ids, in any order.
	ProductsByIDs(ctx context.Context, ids []models.ProductID) ([]models.Product, error)
}

// AssembleInput carries everything the assembler merges.
type AssembleInput struct {
	Candidates Candidates
	Slate      []models.ProductCount
	Cart       []models.ProductID
	Matrix     *CoOccurrenceMatrix
	Limit      int
}

// AssembleStats reports what the assembler did, for metrics and logs.
type AssembleStats struct {
	Scored   int
	Filled   int
	Dropped  int
	Returned int
}

// Assembler turns ranked candidates into hydrated recommendations.
type Assembler struct {
	catalog Catalog
}

// NewAssembler creates an assembler that hydrates from catalog.
func NewAssembler(catalog Catalog) *Assembler {
	return &Assembler{catalog: catalog}
}

// Assemble excludes cart ids, fills from the slate, truncates to the limit,
// hydrates with a single catalog fetch and attaches reasons. Ids with no
// catalog row are dropped and the items below them move up.
//
//nolint:gocritic // in passed by value
func (a *Assembler) Assemble(ctx context.Context, in AssembleInput) ([]models.Recommendation, AssembleStats, error) {
	var stats AssembleStats
	out := []models.Recommendation{}
	if in.Limit <= 0 {
		return out, stats, nil
	}

	inCart := make(map[models.ProductID]struct{}, len(in.Cart))
	for _, id := range in.Cart {
		inCart[id] = struct{}{}
	}

	ids := make([]models.ProductID, 0, in.Limit)
	seen := make(map[models.ProductID]struct{}, in.Limit)
	for _, c := range in.Candidates.Ranked {
		if len(ids) == in.Limit {
			break
		}
		if _, ok := inCart[c.ID]; ok {
			continue
		}
		ids = append(ids, c.ID)
		seen[c.ID] = struct{}{}
	}
	stats.Scored = len(ids)

	for _, p := range in.Slate {
		if len(ids) == in.Limit {
			break
		}
		if _, ok := inCart[p.ProductID]; ok {
			continue
		}
		if _, ok := seen[p.ProductID]; ok {
			continue
		}
		ids = append(ids, p.ProductID)
		seen[p.ProductID] = struct{}{}
	}
	stats.Filled = len(ids) - stats.Scored

	if len(ids) == 0 {
		return out, stats, nil
	}

	products, err := a.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, stats, fmt.Errorf("fetch products: %w", err)
	}
	byID := make(map[models.ProductID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			stats.Dropped++
			continue
		}
		out = append(out, models.Recommendation{
			Product: p,
			Reason:  reasonFor(id, in),
		})
	}
	stats.Returned = len(out)
	return out, stats, nil
}

//nolint:gocritic // in passed by value
func reasonFor(id models.ProductID, in AssembleInput) string {
	if in.Matrix != nil {
		for _, c := range in.Cart {
			if in.Matrix.Count(c, id) > 0 {
				return ReasonCart
			}
		}
	}
	if in.Candidates.Score(id) > 0 {
		return ReasonHistory
	}
	return ReasonPopular
}
