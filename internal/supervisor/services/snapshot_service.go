// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketwise/internal/recommend"
)

// SnapshotRefresher rebuilds the co-occurrence snapshot on demand.
// Satisfied by *recommend.SnapshotCache.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*recommend.Snapshot, error)
}

// SnapshotWarmerConfig controls when the snapshot is rebuilt.
type SnapshotWarmerConfig struct {
	// WarmOnStartup builds the snapshot before the first request needs it.
	WarmOnStartup bool

	// Interval between scheduled rebuilds. Defaults to 5m.
	Interval time.Duration

	// BuildTimeout bounds a single rebuild. Defaults to 2m.
	BuildTimeout time.Duration
}

// SnapshotWarmerService keeps the snapshot cache warm so request latency
// does not include a full pass over the transaction history.
type SnapshotWarmerService struct {
	cache  SnapshotRefresher
	config SnapshotWarmerConfig
	logger zerolog.Logger
	name   string
}

// NewSnapshotWarmerService creates the warmer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotWarmerService(cache SnapshotRefresher, cfg SnapshotWarmerConfig, logger zerolog.Logger) *SnapshotWarmerService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = 2 * time.Minute
	}
	return &SnapshotWarmerService{
		cache:  cache,
		config: cfg,
		logger: logger.With().Str("service", "snapshot-warmer").Logger(),
		name:   "snapshot-warmer",
	}
}

// Serve implements suture.Service. Rebuild failures are logged and retried
// on the next tick; they never restart the service.
func (s *SnapshotWarmerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("snapshot warmer starting")

	if s.config.WarmOnStartup {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot warmer shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *SnapshotWarmerService) refresh(ctx context.Context) {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	start := time.Now()
	snap, err := s.cache.Refresh(buildCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("snapshot rebuild failed")
		return
	}

	evt := s.logger.Debug().Dur("duration", time.Since(start))
	if snap != nil && snap.Matrix != nil {
		evt = evt.Int("products", snap.Matrix.Len()).Int("popular", len(snap.Slate))
	}
	evt.Msg("snapshot rebuilt")
}

// String returns the service name for logging.
func (s *SnapshotWarmerService) String() string {
	return s.name
}
