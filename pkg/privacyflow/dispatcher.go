package privacyflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf16"
)

// MaxMessageLength is the longest message the service accepts, in UTF-16 code units.
const MaxMessageLength = 10000

// Validation messages returned as KindInvalidInput.
const (
	MessageRecipientRequired = "Recipient is required for sending messages"
	MessageContentEmpty      = "Message content cannot be empty"
	MessageContentTooLong    = "Message content exceeds 10,000 character limit"
)

// Dispatcher maps a resource and operation to one request and response mapping.
// It is stateless; credentials are read by the client on every call.
type Dispatcher struct {
	client *Client
	logger *slog.Logger
}

func NewDispatcher(client *Client, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger.With("module", "privacyflow_dispatcher"),
	}
}

// Dispatch validates the selection and parameters, performs exactly one call and
// maps the response. Validation failures perform no network I/O.
func (d *Dispatcher) Dispatch(ctx context.Context, resource Resource, operation Operation, params ParameterAccessor) ([]Item, error) {
	req, err := d.Build(resource, operation, params)
	if err != nil {
		d.logger.DebugContext(ctx, "Rejected operation", "resource", resource, "operation", operation, "error", err)

		return nil, err
	}

	body, err := d.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return MapResponse(operation, body), nil
}

// Build validates the selection and returns the request it maps to.
func (d *Dispatcher) Build(resource Resource, operation Operation, params ParameterAccessor) (*Request, error) {
	if !operation.Dispatchable() {
		return nil, invalidOperation(operation, fmt.Sprintf("Unknown operation: %s", operation))
	}

	if !resource.Supports(operation) {
		return nil, invalidOperation(operation, fmt.Sprintf("Operation %s is not available for resource %s", operation, resource))
	}

	switch operation {
	case OperationSendTextMessage:
		return buildSendTextMessage(params)
	case OperationGetUnreadMessages:
		return NewUnreadMessagesRequest(), nil
	case OperationListContacts:
		return NewListContactsRequest(), nil
	default:
		return nil, invalidOperation(operation, fmt.Sprintf("Unknown operation: %s", operation))
	}
}

// MessageLength counts message in UTF-16 code units, so characters outside the
// Basic Multilingual Plane count twice.
func MessageLength(message string) int {
	return len(utf16.Encode([]rune(message)))
}

func buildSendTextMessage(params ParameterAccessor) (*Request, error) {
	op := OperationSendTextMessage

	if params == nil {
		params = MapParameters{}
	}

	recipient, err := params.String("recipient")
	if err != nil {
		return nil, invalidInput(op, err.Error())
	}

	message, err := params.String("message")
	if err != nil {
		return nil, invalidInput(op, err.Error())
	}

	if strings.TrimSpace(recipient) == "" {
		return nil, invalidInput(op, MessageRecipientRequired)
	}

	if strings.TrimSpace(message) == "" {
		return nil, invalidInput(op, MessageContentEmpty)
	}

	if MessageLength(message) > MaxMessageLength {
		return nil, invalidInput(op, MessageContentTooLong)
	}

	return NewSendTextMessageRequest(recipient, message), nil
}
