package privacyflow

import (
	"log/slog"

	"github.com/dukex/operion-privacyflow/pkg/events"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
)

// ProviderFactory creates instances of PollProvider sharing one poller.
type ProviderFactory struct {
	poller *pf.Poller
}

// NewProviderFactory creates a new factory instance.
func NewProviderFactory(poller *pf.Poller) *ProviderFactory {
	return &ProviderFactory{poller: poller}
}

// Create instantiates a PollProvider. The configuration is checked by Validate.
func (f *ProviderFactory) Create(config map[string]any, logger *slog.Logger) (protocol.Provider, error) {
	return NewPollProvider(f.poller, config, logger)
}

// ID returns the unique identifier for this source provider type.
func (f *ProviderFactory) ID() string {
	return ProviderID
}

// Name returns a human-readable name for this source provider.
func (f *ProviderFactory) Name() string {
	return "PrivacyFlow Messages"
}

// Description returns a detailed description of what this source provider does.
func (f *ProviderFactory) Description() string {
	return "Polls the PrivacyFlow API on a schedule and emits one MessageReceived event per new message. " +
		"No delivery state is kept between polls; the service decides which messages are new."
}

// Schema returns a JSON Schema that describes the provider configuration.
func (f *ProviderFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message_limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of messages to retrieve per poll",
				"default":     pf.DefaultMessageLimit,
				"minimum":     pf.MinMessageLimit,
				"maximum":     pf.MaxMessageLimit,
			},
			"schedule": map[string]any{
				"type":        "string",
				"description": "Cron expression or descriptor for the poll interval",
				"default":     DefaultSchedule,
				"examples":    []string{"@every 1m", "*/5 * * * *", "@hourly"},
			},
			"source_id": map[string]any{
				"type":        "string",
				"description": "Source ID stamped on emitted events. Generated when empty",
			},
		},
		"required":             []string{},
		"additionalProperties": false,
	}
}

// EventTypes returns a list of event types that this source provider can emit.
func (f *ProviderFactory) EventTypes() []string {
	return []string{events.EventTypeMessageReceived}
}

var _ protocol.ProviderFactory = (*ProviderFactory)(nil)
