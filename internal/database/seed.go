// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/models"
)

// demoProducts is a small grocery catalog.
var demoProducts = []models.Product{
	{ID: "1", Name: "Whole Milk 1L", Price: 1.19, Barcode: "4000417025005", ImageURL: "/images/products/1.png", Description: "Fresh whole milk, 3.5% fat"},
	{ID: "2", Name: "Breakfast Cereal", Price: 3.49, Barcode: "5059319023502", ImageURL: "/images/products/2.png", Description: "Crunchy oat flakes"},
	{ID: "3", Name: "Bananas 1kg", Price: 1.59, Barcode: "2000000000015", ImageURL: "/images/products/3.png", Description: "Fairtrade bananas"},
	{ID: "4", Name: "Spaghetti 500g", Price: 0.99, Barcode: "8076800195057", ImageURL: "/images/products/4.png", Description: "Durum wheat pasta"},
	{ID: "5", Name: "Tomato Sauce", Price: 1.89, Barcode: "8005110070108", ImageURL: "/images/products/5.png", Description: "Basil tomato sauce"},
	{ID: "6", Name: "Parmesan 200g", Price: 4.29, Barcode: "8002330000016", ImageURL: "/images/products/6.png", Description: "Aged 24 months"},
	{ID: "7", Name: "Tortilla Chips", Price: 2.49, Barcode: "4006381333931", ImageURL: "/images/products/7.png", Description: "Lightly salted"},
	{ID: "8", Name: "Salsa Dip", Price: 2.19, Barcode: "4006381333948", ImageURL: "/images/products/8.png", Description: "Medium hot"},
	{ID: "9", Name: "Cola 1.5L", Price: 1.79, Barcode: "5449000000996", ImageURL: "/images/products/9.png", Description: "Classic cola"},
	{ID: "10", Name: "Coffee Beans 500g", Price: 7.99, Barcode: "8000070012134", ImageURL: "/images/products/10.png", Description: "Medium roast arabica"},
	{ID: "11", Name: "Croissants 4pk", Price: 2.99, Barcode: "3256540001114", ImageURL: "/images/products/11.png", Description: "Butter croissants"},
	{ID: "12", Name: "Dish Soap", Price: 1.49, Barcode: "8001090000126", ImageURL: "/images/products/12.png", Description: "Lemon scent"},
}

// demoBaskets lists seeded checkouts in chronological order.
var demoBaskets = []struct {
	user  string
	items []models.ProductID
}{
	{"u-1001", []models.ProductID{"1", "2", "3"}},
	{"u-1002", []models.ProductID{"4", "5", "6"}},
	{"u-1003", []models.ProductID{"7", "8", "9"}},
	{"u-1001", []models.ProductID{"1", "2", "11"}},
	{"u-1002", []models.ProductID{"4", "5"}},
	{"u-1003", []models.ProductID{"7", "8"}},
	{"", []models.ProductID{"10", "11", "1"}},
	{"u-1001", []models.ProductID{"1", "3", "10"}},
	{"u-1002", []models.ProductID{"4", "6", "9"}},
	{"", []models.ProductID{"7", "9"}},
	{"u-1003", []models.ProductID{"8", "7", "12"}},
	{"", []models.ProductID{"2", "3"}},
}

var demoUsers = []struct{ id, email, name string }{
	{"u-1001", "ada@example.com", "Ada"},
	{"u-1002", "grace@example.com", "Grace"},
	{"u-1003", "linus@example.com", "Linus"},
}

// SeedDemoData fills an empty database with the demo catalog and baskets.
// It is a no-op when products already exist.
func (db *DB) SeedDemoData(ctx context.Context) error {
	if err := db.writable(); err != nil {
		return err
	}

	var existing int
	qctx, cancel := db.queryContext(ctx)
	err := db.conn.QueryRowContext(qctx, "SELECT COUNT(*) FROM products").Scan(&existing)
	cancel()
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		logging.Debug().Int("products", existing).Msg("Database already populated, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo checkout data...")

	for _, u := range demoUsers {
		qctx, cancel := db.queryContext(ctx)
		_, err := db.conn.ExecContext(qctx,
			"INSERT OR REPLACE INTO users (id, email, name) VALUES (?, ?, ?)", u.id, u.email, u.name)
		cancel()
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.id, err)
		}
	}

	if err := db.InsertProducts(ctx, demoProducts); err != nil {
		return err
	}

	base := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i, b := range demoBaskets {
		if _, err := db.InsertTransaction(ctx, Transaction{
			ID:         fmt.Sprintf("demo-%03d", i+1),
			UserID:     b.user,
			CreatedAt:  base.Add(time.Duration(i) * 6 * time.Hour),
			ProductIDs: b.items,
		}); err != nil {
			return err
		}
	}

	logging.Info().
		Int("products", len(demoProducts)).
		Int("transactions", len(demoBaskets)).
		Msg("Demo data seeded")
	return nil
}
