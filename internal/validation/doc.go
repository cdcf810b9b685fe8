// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package validation validates API request DTOs with go-playground/validator
v10.

A single validator instance is built once and shared; it caches struct
metadata and is safe for concurrent use. Error messages name fields by their
json tag so clients see the names they sent:

	type RecommendationRequest struct {
	    Limit        *int        `json:"limit" validate:"omitempty,min=0,max=100"`
	    CurrentItems []ProductID `json:"current_items" validate:"omitempty,max=200,dive,product_id"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    // "limit must be at most 100"
	}

Custom rules:

  - product_id: non-blank after trimming, at most MaxProductIDLen bytes
*/
package validation
