// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/basketwise/internal/config"
	"github.com/tomtom215/basketwise/internal/logging"
)

// sqliteCatalog is the alias the legacy checkout.db is attached under.
const sqliteCatalog = "checkout"

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	closed atomic.Bool

	// tablePrefix qualifies table names, "checkout." when the sqlite file is attached
	tablePrefix string
}

// New opens the database, creates the schema and attaches the sqlite
// checkout database when one is configured.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s", path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}

	if err := db.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.SQLitePath != "" {
		if err := db.attachSQLite(cfg.SQLitePath); err != nil {
			closeQuietly(conn)
			return nil, err
		}
	}

	logging.Info().
		Str("path", cfg.Path).
		Str("sqlite_path", cfg.SQLitePath).
		Int("threads", numThreads).
		Msg("Database opened")

	return db, nil
}

// attachSQLite loads sqlite_scanner and attaches path read-only. Queries
// switch to the attached tables afterwards.
func (db *DB) attachSQLite(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("sqlite database %s: %w", path, err)
	}

	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "LOAD sqlite_scanner"); err != nil {
		logging.Debug().Err(err).Msg("sqlite_scanner not loaded, attempting install")
		if _, err := db.conn.ExecContext(ctx, "INSTALL sqlite_scanner"); err != nil {
			return fmt.Errorf("%w: install: %w", ErrSQLiteUnavailable, err)
		}
		if _, err := db.conn.ExecContext(ctx, "LOAD sqlite_scanner"); err != nil {
			return fmt.Errorf("%w: load: %w", ErrSQLiteUnavailable, err)
		}
	}

	quoted := strings.ReplaceAll(path, "'", "''")
	attach := fmt.Sprintf("ATTACH '%s' AS %s (TYPE SQLITE, READ_ONLY)", quoted, sqliteCatalog)
	if _, err := db.conn.ExecContext(ctx, attach); err != nil {
		return fmt.Errorf("attach sqlite database %s: %w", path, err)
	}

	db.tablePrefix = sqliteCatalog + "."
	logging.Info().Str("path", path).Msg("Attached legacy SQLite checkout database")
	return nil
}

// UsingSQLite reports whether reads come from the attached sqlite database.
func (db *DB) UsingSQLite() bool {
	return db.tablePrefix != ""
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// table returns the qualified name of a checkout table.
func (db *DB) table(name string) string {
	return db.tablePrefix + name
}

// queryContext derives the per-query timeout context.
func (db *DB) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.closed.Load() {
		return ErrClosed
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close checkpoints a file-backed database and closes the connection.
// It is safe to call more than once.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	if db.conn == nil {
		return nil
	}
	if db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}
