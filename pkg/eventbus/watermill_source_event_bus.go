package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dukex/operion-privacyflow/pkg/channels/gochannel"
	"github.com/dukex/operion-privacyflow/pkg/channels/kafka"
	"github.com/dukex/operion-privacyflow/pkg/events"
)

// Message metadata keys set on every published source event.
const (
	MetadataKey        = "key"
	MetadataSourceID   = "source_id"
	MetadataProviderID = "provider_id"
	MetadataEventType  = "event_type"
)

// watermillSourceEventBus implements SourceEventBus on any watermill publisher and subscriber.
type watermillSourceEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   []SourceEventHandler
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewSourceEventBus creates a source event bus over the given publisher and subscriber.
func NewSourceEventBus(pub message.Publisher, sub message.Subscriber, logger *slog.Logger) SourceEventBus {
	return &watermillSourceEventBus{
		publisher:  pub,
		subscriber: sub,
		handlers:   make([]SourceEventHandler, 0),
		logger:     logger.With("module", "source_event_bus"),
	}
}

// New creates the bus selected by busType (TypeGoChannel or TypeKafka).
func New(busType string, brokers []string, logger *slog.Logger) (SourceEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch busType {
	case TypeGoChannel, "":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, err
		}

		return NewSourceEventBus(pub, sub, logger), nil
	case TypeKafka:
		pub, sub, err := kafka.CreateChannel(wmLogger, brokers, "privacyflow-source-events")
		if err != nil {
			return nil, err
		}

		return NewSourceEventBus(pub, sub, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBusType, busType)
	}
}

// PublishSourceEvent validates and publishes a source event keyed by its source ID.
func (b *watermillSourceEventBus) PublishSourceEvent(ctx context.Context, sourceEvent *events.SourceEvent) error {
	if err := sourceEvent.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(sourceEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal source event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataKey, sourceEvent.SourceID)
	msg.Metadata.Set(MetadataSourceID, sourceEvent.SourceID)
	msg.Metadata.Set(MetadataProviderID, sourceEvent.ProviderID)
	msg.Metadata.Set(MetadataEventType, sourceEvent.EventType)

	b.logger.DebugContext(ctx, "Publishing source event",
		"source_id", sourceEvent.SourceID,
		"provider_id", sourceEvent.ProviderID,
		"event_type", sourceEvent.EventType,
		"topic", events.SourceEventsTopic)

	if err := b.publisher.Publish(events.SourceEventsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish source event: %w", err)
	}

	return nil
}

// HandleSourceEvents registers a handler for source events.
func (b *watermillSourceEventBus) HandleSourceEvents(handler SourceEventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)

	return nil
}

// SubscribeToSourceEvents consumes source events until ctx is done or the bus is closed.
func (b *watermillSourceEventBus) SubscribeToSourceEvents(ctx context.Context) error {
	messages, err := b.subscriber.Subscribe(ctx, events.SourceEventsTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.SourceEventsTopic, err)
	}

	go func() {
		for msg := range messages {
			b.process(ctx, msg)
		}
	}()

	b.logger.Info("Source event subscription started", "topic", events.SourceEventsTopic)

	return nil
}

func (b *watermillSourceEventBus) process(ctx context.Context, msg *message.Message) {
	var sourceEvent events.SourceEvent
	if err := json.Unmarshal(msg.Payload, &sourceEvent); err != nil {
		b.logger.Error("Failed to unmarshal source event", "error", err, "message_id", msg.UUID)
		// Malformed payloads are dropped.
		msg.Ack()

		return
	}

	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for i, handler := range handlers {
		if err := handler(ctx, &sourceEvent); err != nil {
			b.logger.Error("Source event handler failed",
				"error", err,
				"source_id", sourceEvent.SourceID,
				"handler_index", i)
			msg.Nack()

			return
		}
	}

	msg.Ack()
}

// Close shuts down the publisher and the subscriber.
func (b *watermillSourceEventBus) Close() error {
	pubErr := b.publisher.Close()

	// GoChannel is both publisher and subscriber; closing twice is a no-op there.
	subErr := b.subscriber.Close()

	if pubErr != nil {
		return pubErr
	}

	return subErr
}
