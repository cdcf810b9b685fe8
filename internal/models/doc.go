// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package models defines data structures shared across Basketwise.

It is the single source of truth for the shapes that cross package
boundaries: the canonical product identifier, catalog rows, transaction line
items and the JSON documents returned by the CLI and the HTTP API.

Key Components:

  - ProductID: canonical product identifier with a total, stable order
  - Product: catalog row returned by the product catalog
  - Recommendation: Product plus the human-readable recommendation reason
  - TransactionItem: one (transaction, product) line from the checkout log
  - ProductCount: global sale count for a single product
  - RecommendationRequest / ErrorResponse / HealthResponse: API documents

ProductID Normalization:

Ids arrive as CLI strings, query parameters, JSON numbers and integer or
string database columns. Each is converted exactly once at the boundary with
NewProductID (or ProductIDFromInt), after which only ProductIDs are compared:

	models.NewProductID(" 007 ") == models.NewProductID("7") // true

Numeric ids render as JSON numbers and everything else as JSON strings, so a
catalog keyed by integers produces the same output it always has:

	[{"id": 7, "name": "Milk", ..., "recommendation_reason": "Popular item"}]
*/
package models
