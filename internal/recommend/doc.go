// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

// Package recommend implements the basket co-occurrence recommendation engine.
//
// # Pipeline
//
// Every request runs the same synchronous pipeline over fresh store reads:
//
//	Store.TransactionPairs  -> BuildCoOccurrence -> CoOccurrenceMatrix
//	cart + Store.RecentProducts                -> Scorer -> ranked candidates
//	Store.ProductSaleCounts -> BuildPopularitySlate -> filler list
//	candidates + slate      -> Assembler (exclude cart, truncate, hydrate, reason)
//
// Cart neighbors score count*2, history neighbors count*1. Ties are broken by
// the order in which candidates were first touched, so identical inputs always
// produce identical output.
//
// # Reasons
//
//   - "Goes well with your cart": co-occurs with at least one cart item
//   - "Frequently bought with your items": scored through purchase history
//   - "Popular item": filled from the popularity slate
//
// # Snapshot Cache
//
// Full recomputation is the default. When enabled, SnapshotCache keeps the
// matrix and popularity slate for a bounded TTL and rebuilds them through a
// single flight. Invalidate discards the snapshot immediately; the server wires
// it to the recommend.snapshot.invalidate event topic.
//
// # Usage
//
//	engine, err := recommend.NewEngine(store, recommend.ConfigFromSettings(cfg.Recommend), logger)
//	recs, err := engine.Recommend(ctx, recommend.Request{
//	    UserID:       "42",
//	    Limit:        5,
//	    CurrentItems: models.ParseProductIDs("12, 13"),
//	})
//
// # Thread Safety
//
// Engine and SnapshotCache are safe for concurrent use. Each request owns its
// scorer and candidate table; cached snapshots are read-only once published.
package recommend
