// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/basketwise/internal/events"
)

// EventRouter is the blocking run loop of the event bus.
// Satisfied by *events.Bus.
type EventRouter interface {
	Serve(ctx context.Context) error
}

// EventBusService runs the event bus router under suture. A router that
// fails is restarted by the messaging layer; published messages wait in
// the pub/sub buffer meanwhile. A closed bus is never restarted.
type EventBusService struct {
	router EventRouter
	name   string
}

// NewEventBusService wraps router.
func NewEventBusService(router EventRouter) *EventBusService {
	return &EventBusService{router: router, name: "event-bus"}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	err := s.router.Serve(ctx)
	switch {
	case errors.Is(err, events.ErrBusClosed):
		return suture.ErrDoNotRestart
	case err != nil:
		return err
	}
	return ctx.Err()
}

// String returns the service name for logging.
func (s *EventBusService) String() string {
	return s.name
}
