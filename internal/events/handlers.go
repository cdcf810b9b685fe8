// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package events

import (
	"context"

	"github.com/tomtom215/basketwise/internal/logging"
)

// Invalidator drops cached state. recommend.SnapshotCache implements it.
type Invalidator interface {
	Invalidate()
}

// SubscribeInvalidator invalidates inv for every TopicSnapshotInvalidate
// message.
func (b *Bus) SubscribeInvalidator(name string, inv Invalidator) {
	b.OnSnapshotInvalidate(name, func(ctx context.Context, ev InvalidateEvent) error {
		inv.Invalidate()
		logging.Ctx(ctx).Info().
			Str("handler", name).
			Str("reason", ev.Reason).
			Time("requested_at", ev.RequestedAt).
			Msg("Recommendation snapshot invalidated")
		return nil
	})
}
