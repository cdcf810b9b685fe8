// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TopicSnapshotInvalidate asks every snapshot cache to drop its snapshot.
const TopicSnapshotInvalidate = "recommend.snapshot.invalidate"

// Metadata keys set on every published message.
const (
	MetadataRequestID     = "request_id"
	MetadataCorrelationID = "correlation_id"
)

// maxReasonLen bounds the free-form reason carried by an event.
const maxReasonLen = 256

// InvalidateEvent is the payload of TopicSnapshotInvalidate.
type InvalidateEvent struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

func newInvalidateEvent(reason string, now time.Time) InvalidateEvent {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLen {
		reason = reason[:maxReasonLen]
	}
	return InvalidateEvent{Reason: reason, RequestedAt: now.UTC()}
}

func (e InvalidateEvent) marshal() ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalInvalidateEvent(payload []byte) (InvalidateEvent, error) {
	var ev InvalidateEvent
	if len(payload) == 0 {
		return ev, nil
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ev, fmt.Errorf("decode invalidate event: %w", err)
	}
	return ev, nil
}
