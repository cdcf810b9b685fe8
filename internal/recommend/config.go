// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/basketwise/internal/config"
)

// DefaultLimit is the result size when a caller does not pass one.
const DefaultLimit = 5

// Config holds engine settings.
type Config struct {
	// HistorySize is how many recent purchases feed the history signal.
	HistorySize int

	// PopularSize is the length of the popularity slate.
	PopularSize int

	Weights Weights

	// LargeBasketWarn is the basket size above which the builder warns.
	LargeBasketWarn int

	// CacheEnabled turns on the snapshot cache with CacheTTL freshness.
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DefaultConfig returns the stock engine settings.
func DefaultConfig() Config {
	return Config{
		HistorySize:     10,
		PopularSize:     DefaultPopularSize,
		Weights:         DefaultWeights(),
		LargeBasketWarn: 200,
		CacheTTL:        5 * time.Minute,
	}
}

// ConfigFromSettings maps the recommend section of the application config.
func ConfigFromSettings(rc config.RecommendConfig) Config {
	return Config{
		HistorySize:     rc.HistorySize,
		PopularSize:     rc.PopularSize,
		Weights:         Weights{Cart: rc.CartWeight, History: rc.HistoryWeight},
		LargeBasketWarn: rc.LargeBasketWarn,
		CacheEnabled:    rc.Cache.Enabled,
		CacheTTL:        rc.Cache.TTL,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.HistorySize < 0 {
		return fmt.Errorf("history size must be non-negative, got %d", c.HistorySize)
	}
	if c.PopularSize < 0 {
		return fmt.Errorf("popular size must be non-negative, got %d", c.PopularSize)
	}
	if c.Weights.Cart < 0 || c.Weights.History < 0 {
		return errors.New("weights must be non-negative")
	}
	if c.CacheEnabled && c.CacheTTL <= 0 {
		return errors.New("cache TTL must be positive when the cache is enabled")
	}
	return nil
}
