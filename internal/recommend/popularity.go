// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"slices"

	"github.com/tomtom215/basketwise/internal/models"
)

// DefaultPopularSize is the number of products in the popularity slate.
const DefaultPopularSize = 20

// BuildPopularitySlate returns the top size products by count, ties broken by
// ProductID order. Counts for ids that normalize to the same ProductID are
// summed. Zero counts take part, so a catalog with no sales still yields a
// slate.
func BuildPopularitySlate(counts []models.ProductCount, size int) []models.ProductCount {
	if size <= 0 || len(counts) == 0 {
		return nil
	}

	merged := make(map[models.ProductID]int, len(counts))
	for _, c := range counts {
		if c.ProductID.IsZero() {
			continue
		}
		merged[c.ProductID] += c.Count
	}

	slate := make([]models.ProductCount, 0, len(merged))
	for id, n := range merged {
		slate = append(slate, models.ProductCount{ProductID: id, Count: n})
	}
	slices.SortFunc(slate, func(a, b models.ProductCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return a.ProductID.Compare(b.ProductID)
	})

	if len(slate) > size {
		slate = slate[:size]
	}
	return slate
}
