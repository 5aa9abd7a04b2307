package privacyflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/operion-privacyflow/pkg/models"
	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
	pf "github.com/dukex/operion-privacyflow/pkg/privacyflow"
	"github.com/dukex/operion-privacyflow/pkg/template"
)

const (
	InputPortMain     = "main"
	OutputPortSuccess = "success"
	OutputPortError   = "error"
)

// PrivacyFlowNode runs one PrivacyFlow operation per execution.
type PrivacyFlowNode struct {
	id         string
	config     Config
	dispatcher *pf.Dispatcher
	tracer     trace.Tracer
}

// Config defines the configuration for PrivacyFlow nodes.
type Config struct {
	Resource  pf.Resource  `json:"resource"`
	Operation pf.Operation `json:"operation"`
	Recipient string       `json:"recipient,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// NewPrivacyFlowNode creates a new PrivacyFlow node.
func NewPrivacyFlowNode(id string, config map[string]any, dispatcher *pf.Dispatcher) (*PrivacyFlowNode, error) {
	nodeConfig := Config{
		Resource:  pf.ResourceMessageActions,
		Operation: pf.OperationSendTextMessage,
	}

	if resource, ok := config["resource"].(string); ok && resource != "" {
		nodeConfig.Resource = pf.Resource(resource)
	}

	if operation, ok := config["operation"].(string); ok && operation != "" {
		nodeConfig.Operation = pf.Operation(operation)
	}

	if recipient, ok := config["recipient"].(string); ok {
		nodeConfig.Recipient = recipient
	}

	if message, ok := config["message"].(string); ok {
		nodeConfig.Message = message
	}

	if !nodeConfig.Resource.Supports(nodeConfig.Operation) {
		return nil, fmt.Errorf("%w: operation %s is not available for resource %s",
			ErrInvalidConfig, nodeConfig.Operation, nodeConfig.Resource)
	}

	return &PrivacyFlowNode{
		id:         id,
		config:     nodeConfig,
		dispatcher: dispatcher,
		tracer:     otelhelper.Tracer(),
	}, nil
}

// ID returns the node ID.
func (n *PrivacyFlowNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *PrivacyFlowNode) Type() string {
	return models.NodeTypePrivacyFlow
}

// Execute dispatches the configured operation. Classified failures are routed to the
// error port; cancellation of ctx is returned as an error with no results.
func (n *PrivacyFlowNode) Execute(ctx context.Context, execCtx models.ExecutionContext, inputs map[string]models.NodeResult) (map[string]models.NodeResult, error) {
	ctx, span := otelhelper.StartInternalSpan(ctx, n.tracer, "privacyflow node execute",
		attribute.String(otelhelper.NodeIDKey, n.id),
		attribute.String(otelhelper.ResourceKey, string(n.config.Resource)),
		attribute.String(otelhelper.OperationKey, string(n.config.Operation)),
	)
	defer span.End()

	params, err := n.parameters(&execCtx, inputs)
	if err != nil {
		otelhelper.SetError(span, err, string(pf.KindOf(err)))

		return n.createErrorResult(err), nil
	}

	items, err := n.dispatcher.Dispatch(ctx, n.config.Resource, n.config.Operation, params)
	if err != nil {
		otelhelper.SetError(span, err, string(pf.KindOf(err)))

		if ctx.Err() != nil {
			return nil, fmt.Errorf("execution %s cancelled: %w", execCtx.ID, err)
		}

		return n.createErrorResult(err), nil
	}

	data := make([]map[string]any, 0, len(items))
	for _, item := range items {
		data = append(data, item)
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data: map[string]any{
				"items": data,
				"count": len(data),
			},
			Status:    string(models.NodeStatusSuccess),
			Timestamp: time.Now(),
		},
	}, nil
}

// parameters merges the configured values, rendered against execCtx, over the main input data.
func (n *PrivacyFlowNode) parameters(execCtx *models.ExecutionContext, inputs map[string]models.NodeResult) (pf.MapParameters, error) {
	params := pf.MapParameters{}

	if main, ok := inputs[InputPortMain]; ok {
		for _, name := range []string{"recipient", "message"} {
			if value, exists := main.Data[name]; exists {
				params[name] = value
			}
		}
	}

	configured := map[string]string{
		"recipient": n.config.Recipient,
		"message":   n.config.Message,
	}

	for name, value := range configured {
		if value == "" {
			continue
		}

		rendered, err := template.RenderString(value, execCtx)
		if err != nil {
			return nil, pf.NewInvalidInput(n.config.Operation, fmt.Sprintf("Invalid %s template: %v", name, err), err)
		}

		params[name] = rendered
	}

	return params, nil
}

func (n *PrivacyFlowNode) createErrorResult(err error) map[string]models.NodeResult {
	retryable := false

	var pfErr *pf.Error
	if errors.As(err, &pfErr) {
		retryable = pfErr.IsRetryable()
	}

	return map[string]models.NodeResult{
		OutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":     err.Error(),
				"kind":      string(pf.KindOf(err)),
				"retryable": retryable,
				"success":   false,
			},
			Status:    string(models.NodeStatusError),
			Timestamp: time.Now(),
			Error:     err.Error(),
		},
	}
}

// InputPorts returns the input ports for the node.
func (n *PrivacyFlowNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		models.NewInputPort(n.id, InputPortMain, "Main input; may carry recipient and message", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient": map[string]any{"type": "string"},
				"message":   map[string]any{"type": "string"},
			},
		}),
	}
}

// OutputPorts returns the output ports for the node.
func (n *PrivacyFlowNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		models.NewOutputPort(n.id, OutputPortSuccess, "Items returned by the operation, in response order", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
				"count": map[string]any{"type": "number"},
			},
		}),
		models.NewOutputPort(n.id, OutputPortError, "Classified failure of the operation", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"error":     map[string]any{"type": "string"},
				"kind":      map[string]any{"type": "string"},
				"retryable": map[string]any{"type": "boolean"},
				"success":   map[string]any{"type": "boolean"},
			},
		}),
	}
}

// InputRequirements returns the input coordination requirements for the node.
func (n *PrivacyFlowNode) InputRequirements() models.InputRequirements {
	return models.SinglePortRequirements(InputPortMain)
}
