// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

/*
Package events is the in-process event bus built on Watermill's gochannel
Pub/Sub.

The only topic today is TopicSnapshotInvalidate. Publishing to it discards
the recommendation snapshot cache so the next request rebuilds the
co-occurrence matrix and popularity slate from a fresh read.

The bus is split in two halves:

  - Bus.Publish* methods are safe to call from any goroutine, including HTTP
    handlers.
  - Bus.Serve runs a Watermill router with the registered consumers. It
    blocks until its context is canceled and can be restarted by a
    supervisor; the underlying Pub/Sub outlives each router run.

Messages published while no router is running are dropped, since gochannel
is not persistent. Invalidation is idempotent, so a lost message only delays
freshness until the snapshot TTL elapses.

Usage:

	bus := events.NewBus(events.DefaultBusConfig())
	bus.OnSnapshotInvalidate("recommend-cache", func(ctx context.Context, ev events.InvalidateEvent) error {
	    cache.Invalidate()
	    return nil
	})
	go bus.Serve(ctx)
	<-bus.Running()
	_ = bus.PublishInvalidate(ctx, "catalog import finished")
*/
package events
