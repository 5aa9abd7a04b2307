package privacyflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/operion-privacyflow/pkg/metrics"
	"github.com/dukex/operion-privacyflow/pkg/otelhelper"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout applies to calls that do not carry their own timeout.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response ends up in messages.
const maxErrorBody = 512

// Client performs authenticated calls against the PrivacyFlow API. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	credentials CredentialsProvider
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for client spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewClient creates a client that reads credentials from creds on every call.
func NewClient(creds CredentialsProvider, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		credentials: creds,
		logger:      slog.Default(),
		tracer:      otelhelper.Tracer(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("module", "privacyflow_client")

	return c
}

// Do performs one call and returns the raw response body. Every error is a
// classified *Error.
func (c *Client) Do(ctx context.Context, req *Request) ([]byte, error) {
	op := req.Operation

	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return nil, invalidInput(op, fmt.Sprintf("Credentials unavailable: %v", err))
	}

	if err := creds.Validate(); err != nil {
		return nil, invalidInput(op, "Invalid credentials: "+err.Error())
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	requestID := uuid.New().String()

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "privacyflow "+string(op),
		attribute.String(otelhelper.OperationKey, string(op)),
		attribute.String(otelhelper.HTTPMethodKey, req.Method),
		attribute.String(otelhelper.RequestIDKey, requestID),
	)
	defer span.End()

	if resource := op.Resource(); resource != "" {
		span.SetAttributes(attribute.String(otelhelper.ResourceKey, string(resource)))
	}

	started := time.Now()

	body, err := c.do(ctx, req, creds, requestID, span)
	if err != nil {
		classified := Classify(op, err)

		otelhelper.SetError(span, classified, string(classified.Kind))
		metrics.RecordRequest(string(op), string(classified.Kind), time.Since(started))
		c.logger.WarnContext(ctx, "PrivacyFlow call failed",
			"operation", op,
			"kind", classified.Kind,
			"status", classified.StatusCode,
			"request_id", requestID,
			"error", classified.Message)

		return nil, classified
	}

	metrics.RecordRequest(string(op), metrics.OutcomeSuccess, time.Since(started))
	c.logger.DebugContext(ctx, "PrivacyFlow call succeeded",
		"operation", op,
		"request_id", requestID,
		"duration", time.Since(started))

	return body, nil
}

func (c *Client) do(ctx context.Context, req *Request, creds Credentials, requestID string, span trace.Span) ([]byte, error) {
	httpReq, err := req.HTTPRequest(ctx, creds)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.DebugContext(ctx, "Failed to close response body", "error", err)
		}
	}()

	otelhelper.SetStatusCode(span, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}

		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
			Header:     resp.Header,
		}
	}

	return body, nil
}

// Health probes the credential test endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Do(ctx, NewHealthRequest())

	return err
}
