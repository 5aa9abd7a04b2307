// Package privacyflow provides the PrivacyFlow action node factory for the registry system.
package privacyflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/operion-privacyflow/pkg/models"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig is returned when a node configuration does not match the factory schema.
var ErrInvalidConfig = errors.New("invalid privacyflow node configuration")

// NodeFactory creates PrivacyFlowNode instances sharing one dispatcher.
type NodeFactory struct {
	dispatcher *pf.Dispatcher
}

// NewNodeFactory creates a new PrivacyFlow node factory.
func NewNodeFactory(dispatcher *pf.Dispatcher) protocol.NodeFactory {
	return &NodeFactory{dispatcher: dispatcher}
}

// Create validates config against Schema and creates a PrivacyFlowNode.
func (f *NodeFactory) Create(ctx context.Context, id string, config map[string]any) (models.Node, error) {
	if err := validateConfig(f.Schema(), config); err != nil {
		return nil, err
	}

	return NewPrivacyFlowNode(id, config, f.dispatcher)
}

// ID returns the factory ID.
func (f *NodeFactory) ID() string {
	return models.NodeTypePrivacyFlow
}

// Name returns the factory name.
func (f *NodeFactory) Name() string {
	return "PrivacyFlow"
}

// Description returns the factory description.
func (f *NodeFactory) Description() string {
	return "Sends messages and reads unread messages or contacts from the PrivacyFlow API"
}

// Schema returns the JSON schema for PrivacyFlow node configuration.
func (f *NodeFactory) Schema() map[string]any {
	resources := make([]string, 0, len(pf.Resources()))
	for _, r := range pf.Resources() {
		resources = append(resources, string(r))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resource": map[string]any{
				"type":        "string",
				"description": "Resource the operation belongs to",
				"default":     string(pf.ResourceMessageActions),
				"enum":        resources,
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation to perform",
				"default":     string(pf.OperationSendTextMessage),
				"enum": []string{
					string(pf.OperationSendTextMessage),
					string(pf.OperationGetUnreadMessages),
					string(pf.OperationListContacts),
				},
			},
			"recipient": map[string]any{
				"type":        "string",
				"description": "Contact ID or handle of the recipient. Supports templating; falls back to the main input's recipient",
				"examples":    []string{"contact-123", "{{.trigger_data.message.sender}}"},
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Text to send, at most 10,000 UTF-16 code units after rendering. Supports templating; falls back to the main input's message",
			},
		},
		"examples": []map[string]any{
			{
				"resource":  string(pf.ResourceMessageActions),
				"operation": string(pf.OperationSendTextMessage),
				"recipient": "contact-123",
				"message":   "Your order has shipped",
			},
			{
				"recipient": "{{.trigger_data.message.sender}}",
				"message":   "Thanks, we received: {{.trigger_data.message.text}}",
			},
			{
				"resource":  string(pf.ResourceContactManagement),
				"operation": string(pf.OperationListContacts),
			},
		},
	}
}

func validateConfig(schema, config map[string]any) error {
	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(config))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(messages, "; "))
	}

	return nil
}
