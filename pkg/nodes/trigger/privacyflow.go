package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/operion-privacyflow/pkg/events"
	"github.com/dukex/operion-privacyflow/pkg/models"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
)

const (
	PrivacyFlowInputPortExternal = "external"
	PrivacyFlowOutputPortSuccess = "success"
	PrivacyFlowOutputPortError   = "error"
)

// PrivacyFlowTriggerNode turns one polled message event into workflow data.
type PrivacyFlowTriggerNode struct {
	id     string
	config PrivacyFlowTriggerConfig
}

// PrivacyFlowTriggerConfig defines the configuration for PrivacyFlow trigger nodes.
type PrivacyFlowTriggerConfig struct {
	MessageLimit int `json:"message_limit"`
}

// NewPrivacyFlowTriggerNode creates a new PrivacyFlow trigger node.
func NewPrivacyFlowTriggerNode(id string, config map[string]any) (*PrivacyFlowTriggerNode, error) {
	triggerConfig := PrivacyFlowTriggerConfig{
		MessageLimit: pf.DefaultMessageLimit,
	}

	if raw, ok := config["message_limit"]; ok {
		limit, ok := raw.(float64)
		if !ok {
			if i, isInt := raw.(int); isInt {
				limit, ok = float64(i), true
			}
		}

		if !ok {
			return nil, errors.New("message_limit must be a number")
		}

		if err := pf.ValidateMessageLimit(limit); err != nil {
			return nil, err
		}

		triggerConfig.MessageLimit = int(limit)
	}

	return &PrivacyFlowTriggerNode{
		id:     id,
		config: triggerConfig,
	}, nil
}

// ID returns the node ID.
func (n *PrivacyFlowTriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *PrivacyFlowTriggerNode) Type() string {
	return models.NodeTypeTriggerPrivacyFlow
}

// Execute processes the message event data from external input.
func (n *PrivacyFlowTriggerNode) Execute(ctx context.Context, execCtx models.ExecutionContext, inputs map[string]models.NodeResult) (map[string]models.NodeResult, error) {
	externalInput, exists := inputs[PrivacyFlowInputPortExternal]
	if !exists {
		return n.createErrorResult("external input not found"), nil
	}

	message, ok := externalInput.Data[events.DataMessage].(map[string]any)
	if !ok {
		return n.createErrorResult(fmt.Sprintf("external input has no message object, got %T", externalInput.Data[events.DataMessage])), nil
	}

	receivedAt := externalInput.Data[events.DataPolledAt]
	if receivedAt == nil {
		receivedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return map[string]models.NodeResult{
		PrivacyFlowOutputPortSuccess: {
			NodeID: n.id,
			Data: map[string]any{
				"message":       message,
				"received_at":   receivedAt,
				"message_limit": n.config.MessageLimit,
			},
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now(),
		},
	}, nil
}

func (n *PrivacyFlowTriggerNode) createErrorResult(message string) map[string]models.NodeResult {
	return map[string]models.NodeResult{
		PrivacyFlowOutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":   message,
				"node_id": n.id,
			},
			Status:    string(models.NodeStatusError),
			Timestamp: time.Now(),
			Error:     message,
		},
	}
}

// InputPorts returns the input ports for the trigger node.
func (n *PrivacyFlowTriggerNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		models.NewInputPort(n.id, PrivacyFlowInputPortExternal, "Message event from the PrivacyFlow poll provider", map[string]any{
			"type": "object",
			"properties": map[string]any{
				events.DataMessage:      map[string]any{"type": "object"},
				events.DataPolledAt:     map[string]any{"type": "string", "format": "date-time"},
				events.DataMessageLimit: map[string]any{"type": "number"},
			},
		}),
	}
}

// OutputPorts returns the output ports for the trigger node.
func (n *PrivacyFlowTriggerNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		models.NewOutputPort(n.id, PrivacyFlowOutputPortSuccess, "Received message", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message":       map[string]any{"type": "object"},
				"received_at":   map[string]any{"type": "string", "format": "date-time"},
				"message_limit": map[string]any{"type": "number"},
			},
		}),
		models.NewOutputPort(n.id, PrivacyFlowOutputPortError, "Malformed message event", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"error":   map[string]any{"type": "string"},
				"node_id": map[string]any{"type": "string"},
			},
		}),
	}
}

// InputRequirements returns the input requirements for the trigger node.
func (n *PrivacyFlowTriggerNode) InputRequirements() models.InputRequirements {
	return models.SinglePortRequirements(PrivacyFlowInputPortExternal)
}
