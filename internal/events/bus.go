// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package events

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/basketwise/internal/logging"
	"github.com/tomtom215/basketwise/internal/metrics"
)

var (
	// ErrBusClosed is returned by operations on a closed bus.
	ErrBusClosed = errors.New("event bus closed")

	// ErrAlreadyServing is returned when Serve is called while a router runs.
	ErrAlreadyServing = errors.New("event bus already serving")
)

// BusConfig holds event bus settings.
type BusConfig struct {
	// OutputChannelBuffer is the per-subscriber buffer of the gochannel Pub/Sub.
	OutputChannelBuffer int64

	// CloseTimeout bounds how long a stopping router waits for handlers.
	CloseTimeout time.Duration
}

// DefaultBusConfig returns a 64 message buffer and a 5s close timeout.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		OutputChannelBuffer: 64,
		CloseTimeout:        5 * time.Second,
	}
}

type consumer struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// Bus is an in-process Watermill Pub/Sub with a restartable router.
type Bus struct {
	pubSub *gochannel.GoChannel
	config BusConfig
	logger watermill.LoggerAdapter
	now    func() time.Time

	mu        sync.Mutex
	consumers []consumer
	running   chan struct{}
	serving   bool
	closed    bool
}

// NewBus creates a bus. Zero config values fall back to DefaultBusConfig.
//
//nolint:gocritic // cfg passed by value
func NewBus(cfg BusConfig) *Bus {
	defaults := DefaultBusConfig()
	if cfg.OutputChannelBuffer <= 0 {
		cfg.OutputChannelBuffer = defaults.OutputChannelBuffer
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = defaults.CloseTimeout
	}

	logger := watermill.NewSlogLogger(logging.NewSlogLogger("events"))
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputChannelBuffer,
		}, logger),
		config:  cfg,
		logger:  logger,
		now:     time.Now,
		running: make(chan struct{}),
	}
}

// OnSnapshotInvalidate registers fn for TopicSnapshotInvalidate under a
// unique handler name. Registrations take effect on the next Serve.
//
// Handler failures are logged, counted and acked, so gochannel never
// redelivers them.
func (b *Bus) OnSnapshotInvalidate(name string, fn func(ctx context.Context, ev InvalidateEvent) error) {
	b.addConsumer(name, TopicSnapshotInvalidate, func(msg *message.Message) error {
		ctx := messageContext(msg)

		ev, err := unmarshalInvalidateEvent(msg.Payload)
		if err == nil {
			err = fn(ctx, ev)
		}
		metrics.RecordEventProcessed(TopicSnapshotInvalidate, err)
		if err != nil {
			logger := logging.CtxWith(ctx).
				Str("handler", name).
				Str("message_uuid", msg.UUID).
				Logger()
			logger.Warn().Err(err).Msg("Snapshot invalidation handler failed")
		}
		return nil
	})
}

func (b *Bus) addConsumer(name, topic string, handler message.NoPublishHandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers = append(b.consumers, consumer{name: name, topic: topic, handler: handler})
}

// PublishInvalidate publishes an InvalidateEvent. Request and correlation ids
// from ctx travel as message metadata.
func (b *Bus) PublishInvalidate(ctx context.Context, reason string) error {
	payload, err := newInvalidateEvent(reason, b.now()).marshal()
	if err != nil {
		return fmt.Errorf("encode invalidate event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataRequestID, id)
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	return b.publish(TopicSnapshotInvalidate, msg)
}

func (b *Bus) publish(topic string, msg *message.Message) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBusClosed
	}

	if err := b.pubSub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Serve runs a Watermill router over the registered consumers and blocks
// until ctx is canceled. Each call builds a new router, so a supervisor can
// restart it after a failure.
func (b *Bus) Serve(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	if b.serving {
		b.mu.Unlock()
		return ErrAlreadyServing
	}
	b.serving = true
	consumers := slices.Clone(b.consumers)
	running := b.running
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.serving = false
		b.running = make(chan struct{})
		b.mu.Unlock()
	}()

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: b.config.CloseTimeout}, b.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	sub := sharedSubscriber{Subscriber: b.pubSub}
	for _, c := range consumers {
		router.AddConsumerHandler(c.name, c.topic, sub, c.handler)
	}

	go func() {
		select {
		case <-router.Running():
			close(running)
		case <-ctx.Done():
		}
	}()

	logging.Info().Int("handlers", len(consumers)).Msg("Event router starting")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("run event router: %w", err)
	}
	return nil
}

// Running returns a channel closed once the current router is processing
// messages.
func (b *Bus) Running() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Close shuts down the Pub/Sub. Running routers stop once their
// subscriptions end. Close is idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if err := b.pubSub.Close(); err != nil {
		return fmt.Errorf("close event pubsub: %w", err)
	}
	return nil
}

// sharedSubscriber keeps a router from closing the long-lived Pub/Sub when
// the router stops.
type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

func messageContext(msg *message.Message) context.Context {
	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataRequestID); id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	return ctx
}
