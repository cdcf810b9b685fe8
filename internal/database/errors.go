// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/basketwise/internal/logging"
)

// ErrClosed is returned by every operation on a closed DB.
var ErrClosed = errors.New("database is closed")

// ErrSQLiteUnavailable is returned when a sqlite path is configured but the
// sqlite_scanner extension cannot be loaded.
var ErrSQLiteUnavailable = errors.New("sqlite_scanner extension unavailable")

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
