// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package recommend

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/basketwise/internal/metrics"
	"github.com/tomtom215/basketwise/internal/models"
)

// Snapshot is the request-independent part of the pipeline. It is never
// mutated after it is built.
type Snapshot struct {
	Matrix  *CoOccurrenceMatrix
	Slate   []models.ProductCount
	BuiltAt time.Time
}

// SnapshotLoader builds a fresh snapshot from the store.
type SnapshotLoader func(ctx context.Context) (*Snapshot, error)

// SnapshotCache holds one snapshot for at most ttl. Concurrent misses share a
// single rebuild.
type SnapshotCache struct {
	ttl  time.Duration
	load SnapshotLoader
	now  func() time.Time

	mu         sync.RWMutex
	current    *Snapshot
	expiresAt  time.Time
	generation uint64

	group singleflight.Group
}

const snapshotKey = "snapshot"

// NewSnapshotCache creates a cache around load.
func NewSnapshotCache(ttl time.Duration, load SnapshotLoader) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, load: load, now: time.Now}
}

// Get returns the cached snapshot while it is fresh, otherwise rebuilds it.
// The rebuild is detached from the caller's cancellation so one abandoned
// request cannot fail the others waiting on it.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap, expiresAt, gen := c.current, c.expiresAt, c.generation
	c.mu.RUnlock()

	if snap != nil && c.now().Before(expiresAt) {
		metrics.SnapshotCacheHits.Inc()
		return snap, nil
	}
	metrics.SnapshotCacheMisses.Inc()

	ch := c.group.DoChan(snapshotKey, func() (any, error) {
		built, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		metrics.SnapshotRebuilds.Inc()

		c.mu.Lock()
		if c.generation == gen {
			c.current = built
			c.expiresAt = c.now().Add(c.ttl)
		}
		c.mu.Unlock()
		return built, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the current snapshot. A rebuild already in flight still
// answers its waiters but is not stored.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.generation++
	c.mu.Unlock()
	c.group.Forget(snapshotKey)
	metrics.SnapshotInvalidations.Inc()
}

// Refresh drops the current snapshot and rebuilds it immediately.
func (c *SnapshotCache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.Invalidate()
	return c.Get(ctx)
}
