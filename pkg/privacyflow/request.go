package privacyflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// API paths under the base URL.
const (
	PathHealth         = "/api/v1/health"
	PathSendMessage    = "/api/v1/messages/send"
	PathUnreadMessages = "/api/v1/messages/unread"
	PathPollMessages   = "/api/v1/messages/poll"
	PathContacts       = "/api/v1/contacts"
)

// PollTimeout bounds a single poll tick.
const PollTimeout = 30 * time.Second

// Request describes one outbound REST call. It is built fresh per invocation.
type Request struct {
	Operation Operation
	Method    string
	Path      string
	Query     url.Values
	Body      any
	// Timeout overrides the client timeout when non-zero.
	Timeout time.Duration
}

// SendTextMessageBody is the JSON body of a send call.
type SendTextMessageBody struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

func NewSendTextMessageRequest(recipient, message string) *Request {
	return &Request{
		Operation: OperationSendTextMessage,
		Method:    http.MethodPost,
		Path:      PathSendMessage,
		Body:      SendTextMessageBody{Recipient: recipient, Message: message},
	}
}

func NewUnreadMessagesRequest() *Request {
	return &Request{Operation: OperationGetUnreadMessages, Method: http.MethodGet, Path: PathUnreadMessages}
}

func NewListContactsRequest() *Request {
	return &Request{Operation: OperationListContacts, Method: http.MethodGet, Path: PathContacts}
}

func NewPollMessagesRequest(limit int) *Request {
	return &Request{
		Operation: OperationPollMessages,
		Method:    http.MethodGet,
		Path:      PathPollMessages,
		Query:     url.Values{"limit": []string{strconv.Itoa(limit)}},
		Timeout:   PollTimeout,
	}
}

func NewHealthRequest() *Request {
	return &Request{Operation: OperationHealth, Method: http.MethodGet, Path: PathHealth}
}

// HTTPRequest renders the call against the given credentials.
func (r *Request) HTTPRequest(ctx context.Context, creds Credentials) (*http.Request, error) {
	endpoint := creds.endpoint(r.Path)
	if len(r.Query) > 0 {
		endpoint += "?" + r.Query.Encode()
	}

	var body io.Reader

	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	creds.Authenticate(req)

	return req, nil
}
