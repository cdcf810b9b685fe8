// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the checkout tables and indexes
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries mirrors the checkout.db layout so attached sqlite
// files and native tables answer the same queries.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT,
			name TEXT,
			role TEXT DEFAULT 'customer',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			price DOUBLE NOT NULL DEFAULT 0,
			barcode TEXT,
			image_url TEXT,
			description TEXT,
			category TEXT,
			stock INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			total_amount DOUBLE DEFAULT 0,
			status TEXT DEFAULT 'completed',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP
		)`,

		`CREATE SEQUENCE IF NOT EXISTS transaction_items_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS transaction_items (
			id BIGINT PRIMARY KEY DEFAULT nextval('transaction_items_id_seq'),
			transaction_id TEXT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INTEGER DEFAULT 1,
			price DOUBLE DEFAULT 0
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_items_tx ON transaction_items(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_items_product ON transaction_items(product_id)`,
	}
}
