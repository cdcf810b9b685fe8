// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package models

// Product is a row from the product catalog.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Barcode     string    `json:"barcode"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
}

// Recommendation is a catalog product annotated with the reason it was
// recommended.
//
// Example:
//
//	{
//	  "id": 12,
//	  "name": "Tortilla Chips",
//	  "price": 2.49,
//	  "barcode": "4006381333931",
//	  "image_url": "/img/12.png",
//	  "description": "Lightly salted",
//	  "recommendation_reason": "Goes well with your cart"
//	}
type Recommendation struct {
	Product
	Reason string `json:"recommendation_reason"`
}

// TransactionItem is one line of the checkout log.
type TransactionItem struct {
	TransactionID string
	ProductID     ProductID
}

// ProductCount is the number of transaction lines a product appears on.
type ProductCount struct {
	ProductID ProductID
	Count     int
}
