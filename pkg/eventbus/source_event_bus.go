// Package eventbus provides the bus source events are published on.
package eventbus

import (
	"context"
	"errors"

	"github.com/dukex/operion-privacyflow/pkg/events"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
)

// Supported bus types.
const (
	TypeGoChannel = "gochannel"
	TypeKafka     = "kafka"
)

// ErrUnsupportedBusType is returned by New for an unknown bus type.
var ErrUnsupportedBusType = errors.New("unsupported event bus type")

// SourceEventHandler is called when a source event is received.
type SourceEventHandler func(ctx context.Context, sourceEvent *events.SourceEvent) error

// SourceEventPublisher publishes source events.
type SourceEventPublisher interface {
	PublishSourceEvent(ctx context.Context, sourceEvent *events.SourceEvent) error
}

// SourceEventSubscriber subscribes to source events.
type SourceEventSubscriber interface {
	HandleSourceEvents(handler SourceEventHandler) error
	SubscribeToSourceEvents(ctx context.Context) error
}

// SourceEventBus combines publishing and subscribing for source events.
type SourceEventBus interface {
	SourceEventPublisher
	SourceEventSubscriber
	Close() error
}

// PublishCallback adapts a publisher to the callback source providers emit through.
func PublishCallback(publisher SourceEventPublisher) protocol.SourceEventCallback {
	return func(ctx context.Context, sourceID, providerID, eventType string, eventData map[string]any) error {
		return publisher.PublishSourceEvent(ctx, events.NewSourceEvent(sourceID, providerID, eventType, eventData))
	}
}
