// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/models"
	"github.com/tomtom215/basketwise/internal/recommend"
)

var _ recommend.Store = (*DB)(nil)

// TransactionPairs returns every (transaction, product) line item.
func (db *DB) TransactionPairs(ctx context.Context) ([]models.TransactionItem, error) {
	query := fmt.Sprintf(`
		SELECT CAST(t.id AS VARCHAR), CAST(ti.product_id AS VARCHAR)
		FROM %s t
		JOIN %s ti ON t.id = ti.transaction_id
		ORDER BY t.created_at, t.id, ti.id`,
		db.table("transactions"), db.table("transaction_items"))

	var items []models.TransactionItem
	err := db.timedQuery(ctx, "transaction_pairs", query, nil, func(rows *sql.Rows) error {
		var txID, productID string
		if err := rows.Scan(&txID, &productID); err != nil {
			return err
		}
		items = append(items, models.TransactionItem{
			TransactionID: txID,
			ProductID:     models.NewProductID(productID),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query transaction pairs: %w", err)
	}
	return items, nil
}

// RecentProducts returns up to n product ids from the user's line items,
// most recent transaction first.
func (db *DB) RecentProducts(ctx context.Context, userID string, n int) ([]models.ProductID, error) {
	if n <= 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT CAST(ti.product_id AS VARCHAR)
		FROM %s t
		JOIN %s ti ON t.id = ti.transaction_id
		WHERE CAST(t.user_id AS VARCHAR) = ?
		ORDER BY t.created_at DESC, t.id, ti.id
		LIMIT ?`,
		db.table("transactions"), db.table("transaction_items"))

	var out []models.ProductID
	err := db.timedQuery(ctx, "recent_products", query, []any{strings.TrimSpace(userID), n}, func(rows *sql.Rows) error {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return err
		}
		out = append(out, models.NewProductID(productID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query recent products: %w", err)
	}
	return out, nil
}

// ProductSaleCounts returns the line item count per product. Catalog
// products that never sold are included with a zero count.
func (db *DB) ProductSaleCounts(ctx context.Context) ([]models.ProductCount, error) {
	query := fmt.Sprintf(`
		SELECT id, CAST(SUM(cnt) AS BIGINT)
		FROM (
			SELECT CAST(product_id AS VARCHAR) AS id, COUNT(*) AS cnt
			FROM %s
			GROUP BY 1
			UNION ALL
			SELECT CAST(id AS VARCHAR) AS id, 0 AS cnt
			FROM %s
		)
		GROUP BY id`,
		db.table("transaction_items"), db.table("products"))

	var out []models.ProductCount
	err := db.timedQuery(ctx, "product_sale_counts", query, nil, func(rows *sql.Rows) error {
		var id string
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return err
		}
		out = append(out, models.ProductCount{ProductID: models.NewProductID(id), Count: int(count)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query product sale counts: %w", err)
	}
	return out, nil
}

// ProductsByIDs fetches catalog rows for ids in one query. Ids without a row
// are simply absent from the result.
func (db *DB) ProductsByIDs(ctx context.Context, ids []models.ProductID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}
	query := fmt.Sprintf(`
		SELECT CAST(id AS VARCHAR), COALESCE(name, ''), COALESCE(CAST(price AS DOUBLE), 0),
			COALESCE(CAST(barcode AS VARCHAR), ''), COALESCE(image_url, ''), COALESCE(description, '')
		FROM %s
		WHERE CAST(id AS VARCHAR) IN (%s)`,
		db.table("products"), strings.Join(placeholders, ", "))

	var out []models.Product
	err := db.timedQuery(ctx, "products_by_ids", query, args, func(rows *sql.Rows) error {
		var p models.Product
		var id string
		if err := rows.Scan(&id, &p.Name, &p.Price, &p.Barcode, &p.ImageURL, &p.Description); err != nil {
			return err
		}
		p.ID = models.NewProductID(id)
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return out, nil
}

// timedQuery runs query under the per-query timeout, hands every row to scan
// and records the query metric.
func (db *DB) timedQuery(ctx context.Context, name, query string, args []any, scan func(*sql.Rows) error) (err error) {
	if db.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(name, time.Since(start), err)
	}()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	return rows.Err()
}
