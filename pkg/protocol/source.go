package protocol

import (
	"context"
	"log/slog"
)

// SourceEventCallback is called when a source provider emits an event.
// The callback should publish the event to the event bus for activator consumption.
type SourceEventCallback func(ctx context.Context, sourceID, providerID, eventType string, eventData map[string]any) error

// Provider represents a running instance of a source provider that can emit events.
type Provider interface {
	// Start begins monitoring. The callback is invoked once per emitted event.
	Start(ctx context.Context, callback SourceEventCallback) error

	// Stop gracefully shuts down the source provider.
	Stop(ctx context.Context) error

	// Validate checks if the source provider configuration is valid.
	Validate() error
}

// ProviderFactory creates instances of Provider with specific configurations.
type ProviderFactory interface {
	// Create instantiates a new Provider with the given configuration.
	Create(config map[string]any, logger *slog.Logger) (Provider, error)

	// ID returns the unique identifier for this source provider type.
	ID() string

	// Name returns a human-readable name for this source provider.
	Name() string

	// Description returns a detailed description of what this source provider does.
	Description() string

	// Schema returns a JSON Schema that describes the configuration structure.
	Schema() map[string]any

	// EventTypes returns a list of event types that this source provider can emit.
	EventTypes() []string
}
