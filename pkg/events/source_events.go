// Package events defines the source events emitted by the PrivacyFlow poll provider.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEventData is returned when source event data cannot be parsed or is invalid.
var ErrInvalidEventData = errors.New("invalid event data")

// EventTypeMessageReceived is emitted once per message delivered by a poll tick.
const EventTypeMessageReceived = "MessageReceived"

// SourceEventsTopic is the bus topic source events are published on.
const SourceEventsTopic = "privacyflow.source-events"

// Event data keys of a MessageReceived event.
const (
	DataMessage      = "message"
	DataPolledAt     = "polled_at"
	DataMessageLimit = "message_limit"
	DataPosition     = "position"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SourceEvent represents an event emitted by a source provider that can trigger workflows.
type SourceEvent struct {
	// SourceID uniquely identifies the provider instance that generated this event.
	SourceID string `json:"source_id" validate:"required"`

	// ProviderID identifies the type of provider that generated this event.
	ProviderID string `json:"provider_id" validate:"required"`

	// EventType specifies the type of event within the provider, e.g. "MessageReceived".
	EventType string `json:"event_type" validate:"required"`

	// EventData is passed to triggered workflows as trigger data.
	EventData map[string]any `json:"event_data"`
}

// NewSourceEvent creates a new SourceEvent with the provided parameters.
func NewSourceEvent(sourceID, providerID, eventType string, eventData map[string]any) *SourceEvent {
	if eventData == nil {
		eventData = make(map[string]any)
	}

	return &SourceEvent{
		SourceID:   sourceID,
		ProviderID: providerID,
		EventType:  eventType,
		EventData:  eventData,
	}
}

// NewMessageReceivedData builds the event data for one polled message.
func NewMessageReceivedData(message map[string]any, polledAt time.Time, messageLimit, position int) map[string]any {
	return map[string]any{
		DataMessage:      message,
		DataPolledAt:     polledAt.UTC().Format(time.RFC3339),
		DataMessageLimit: messageLimit,
		DataPosition:     position,
	}
}

// GetEventDataString safely extracts a string value from the event data.
func (se *SourceEvent) GetEventDataString(key string) (string, bool) {
	value, exists := se.EventData[key]
	if !exists {
		return "", false
	}

	strValue, ok := value.(string)

	return strValue, ok
}

// GetEventDataInt extracts an integer value; JSON numbers decode as float64.
func (se *SourceEvent) GetEventDataInt(key string) (int, bool) {
	switch v := se.EventData[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetEventDataMap safely extracts a nested map from the event data.
func (se *SourceEvent) GetEventDataMap(key string) (map[string]any, bool) {
	mapValue, ok := se.EventData[key].(map[string]any)

	return mapValue, ok
}

// Validate checks the required identifiers and, for MessageReceived, the message payload.
func (se *SourceEvent) Validate() error {
	if err := validate.Struct(se); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return fmt.Errorf("%w: %s is required", ErrInvalidEventData, validationErrors[0].Field())
		}

		return fmt.Errorf("%w: %w", ErrInvalidEventData, err)
	}

	if se.EventType == EventTypeMessageReceived {
		if _, ok := se.GetEventDataMap(DataMessage); !ok {
			return fmt.Errorf("%w: %s event without a message object", ErrInvalidEventData, EventTypeMessageReceived)
		}
	}

	return nil
}
