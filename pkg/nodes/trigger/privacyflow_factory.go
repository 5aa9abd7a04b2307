package trigger

import (
	"context"

	"github.com/dukex/operion-privacyflow/pkg/models"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
)

// PrivacyFlowTriggerNodeFactory creates PrivacyFlowTriggerNode instances.
type PrivacyFlowTriggerNodeFactory struct{}

// NewPrivacyFlowTriggerNodeFactory creates a new PrivacyFlow trigger node factory.
func NewPrivacyFlowTriggerNodeFactory() protocol.NodeFactory {
	return &PrivacyFlowTriggerNodeFactory{}
}

// Create creates a new PrivacyFlowTriggerNode instance.
func (f *PrivacyFlowTriggerNodeFactory) Create(ctx context.Context, id string, config map[string]any) (models.Node, error) {
	return NewPrivacyFlowTriggerNode(id, config)
}

// ID returns the factory ID.
func (f *PrivacyFlowTriggerNodeFactory) ID() string {
	return models.NodeTypeTriggerPrivacyFlow
}

// Name returns the factory name.
func (f *PrivacyFlowTriggerNodeFactory) Name() string {
	return "PrivacyFlow Trigger"
}

// Description returns the factory description.
func (f *PrivacyFlowTriggerNodeFactory) Description() string {
	return "Starts one workflow execution per new PrivacyFlow message"
}

// Schema returns the JSON schema for PrivacyFlow trigger node configuration.
func (f *PrivacyFlowTriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message_limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of messages retrieved per poll",
				"default":     pf.DefaultMessageLimit,
				"minimum":     pf.MinMessageLimit,
				"maximum":     pf.MaxMessageLimit,
			},
		},
		"examples": []map[string]any{
			{"message_limit": pf.DefaultMessageLimit},
			{"message_limit": 10},
		},
	}
}
