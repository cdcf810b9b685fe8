// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketwise/internal/models"
)

// scenarioMatrix holds {1,2,3} five times and {1,4} once.
func scenarioMatrix() *CoOccurrenceMatrix {
	var items []models.TransactionItem
	for i := 0; i < 5; i++ {
		items = append(items, basket(string(rune('a'+i)), "1", "2", "3")...)
	}
	items = append(items, basket("z", "1", "4")...)
	return BuildCoOccurrence(items, BuildOptions{Logger: zerolog.Nop()})
}

func TestScorerCartWeights(t *testing.T) {
	t.Parallel()

	got := NewScorer(scenarioMatrix(), DefaultWeights()).Score(ids(1), nil)

	want := []Candidate{
		{ID: "2", Score: 10, FirstSeen: 0},
		{ID: "3", Score: 10, FirstSeen: 1},
		{ID: "4", Score: 2, FirstSeen: 2},
	}
	if !reflect.DeepEqual(got.Ranked, want) {
		t.Errorf("Ranked = %+v, want %+v", got.Ranked, want)
	}
	if got.Score("3") != 10 || got.Score("99") != 0 {
		t.Errorf("Score lookups wrong: 3=%v 99=%v", got.Score("3"), got.Score("99"))
	}
}

func TestScorerHistoryWeights(t *testing.T) {
	t.Parallel()

	got := NewScorer(scenarioMatrix(), DefaultWeights()).Score(nil, ids(4))

	if len(got.Ranked) != 1 || got.Ranked[0].ID != "1" || got.Ranked[0].Score != 1 {
		t.Errorf("Ranked = %+v, want [{1 1 0}]", got.Ranked)
	}
}

func TestScorerMergesSignals(t *testing.T) {
	t.Parallel()

	// cart 4 -> 1 scores 2; history 2 -> 1 scores 5, 3 scores 5
	got := NewScorer(scenarioMatrix(), DefaultWeights()).Score(ids(4), ids(2))

	want := []Candidate{
		{ID: "1", Score: 7, FirstSeen: 0},
		{ID: "3", Score: 5, FirstSeen: 1},
	}
	if !reflect.DeepEqual(got.Ranked, want) {
		t.Errorf("Ranked = %+v, want %+v", got.Ranked, want)
	}
}

func TestScorerTiesUseFirstSeen(t *testing.T) {
	t.Parallel()

	m := NewCoOccurrenceMatrix()
	// History touches 9 before 8 even though 8 sorts first in row 2
	m.Increment("1", "9")
	m.Increment("2", "8")

	got := NewScorer(m, DefaultWeights()).Score(nil, []models.ProductID{"1", "2"})
	if len(got.Ranked) != 2 || got.Ranked[0].ID != "9" || got.Ranked[1].ID != "8" {
		t.Errorf("Ranked = %+v, want 9 before 8", got.Ranked)
	}
}

func TestScorerDuplicateAndUnknownIDs(t *testing.T) {
	t.Parallel()

	got := NewScorer(scenarioMatrix(), DefaultWeights()).Score(nil, []models.ProductID{"4", "4", "unknown"})
	if got.Score("1") != 2 {
		t.Errorf("repeated history id should count twice, Score(1) = %v", got.Score("1"))
	}
	if len(got.Ranked) != 1 {
		t.Errorf("unknown ids must not add candidates, got %+v", got.Ranked)
	}
}

func TestScorerEmpty(t *testing.T) {
	t.Parallel()

	got := NewScorer(NewCoOccurrenceMatrix(), DefaultWeights()).Score(nil, nil)
	if len(got.Ranked) != 0 {
		t.Errorf("Ranked = %+v, want empty", got.Ranked)
	}
}
