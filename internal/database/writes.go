// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/basketwise/internal/models"
)

// ErrReadOnly is returned for writes while the sqlite checkout database is attached.
var ErrReadOnly = errors.New("database is attached read-only")

// Transaction is a completed checkout to insert.
type Transaction struct {
	// ID defaults to a new UUID when empty.
	ID         string
	UserID     string
	CreatedAt  time.Time
	ProductIDs []models.ProductID
}

// InsertProducts upserts catalog rows. Product ids must be integers.
func (db *DB) InsertProducts(ctx context.Context, products []models.Product) error {
	if err := db.writable(); err != nil {
		return err
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range products {
		id, ok := p.ID.Int64()
		if !ok {
			return fmt.Errorf("insert product %q: id must be an integer", p.ID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO products (id, name, price, barcode, image_url, description)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.Name, p.Price, p.Barcode, p.ImageURL, p.Description); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// InsertTransaction stores a transaction and its line items. The total is the
// sum of the catalog prices of its items.
//
//nolint:gocritic // t passed by value
func (db *DB) InsertTransaction(ctx context.Context, t Transaction) (string, error) {
	if err := db.writable(); err != nil {
		return "", err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID any
	if t.UserID != "" {
		userID = t.UserID
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, total_amount, status, created_at, updated_at)
		VALUES (?, ?, 0, 'completed', ?, ?)`,
		t.ID, userID, t.CreatedAt, t.CreatedAt); err != nil {
		return "", fmt.Errorf("insert transaction %s: %w", t.ID, err)
	}

	for _, pid := range t.ProductIDs {
		id, ok := pid.Int64()
		if !ok {
			return "", fmt.Errorf("insert line item %q: product id must be an integer", pid)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transaction_items (transaction_id, product_id, quantity, price)
			VALUES (?, ?, 1, COALESCE((SELECT price FROM products WHERE id = ?), 0))`,
			t.ID, id, id); err != nil {
			return "", fmt.Errorf("insert line item %s: %w", pid, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET total_amount = (SELECT COALESCE(SUM(price), 0) FROM transaction_items WHERE transaction_id = ?)
		WHERE id = ?`, t.ID, t.ID); err != nil {
		return "", fmt.Errorf("update transaction total %s: %w", t.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction %s: %w", t.ID, err)
	}
	return t.ID, nil
}

func (db *DB) writable() error {
	if db.closed.Load() {
		return ErrClosed
	}
	if db.UsingSQLite() {
		return ErrReadOnly
	}
	return nil
}
