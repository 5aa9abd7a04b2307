package privacyflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"syscall"
)

// ErrorKind classifies a failed invocation so callers can branch on the outcome.
type ErrorKind string

const (
	// KindInvalidInput marks a caller or validation error. Never sent over the network.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindInvalidOperation marks an unknown operation or resource selector.
	KindInvalidOperation ErrorKind = "invalid_operation"
	// KindAuthFailure marks a 401 from the remote service.
	KindAuthFailure ErrorKind = "auth_failure"
	// KindRateLimited marks a 429 from the remote service.
	KindRateLimited ErrorKind = "rate_limited"
	// KindTransient marks network failures and 5xx responses.
	KindTransient ErrorKind = "transient"
	// KindUnknown is everything else.
	KindUnknown ErrorKind = "unknown"
)

const (
	MessageAuthFailure = "Authentication failed: Please check your API key"
	MessageRateLimited = "Rate limit exceeded: Please try again later"
)

// Error is the single failure type returned by the dispatcher, the poller and the client.
type Error struct {
	Kind       ErrorKind
	Op         Operation
	Message    string
	StatusCode int
	// RetryAfter is the Retry-After header of a 429 response, in seconds.
	RetryAfter int
	Cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind so errors.Is(err, ErrAuthFailure) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == "" && t.Kind == e.Kind
}

// IsRetryable reports whether an external retry policy may repeat the call.
func (e *Error) IsRetryable() bool {
	return e.Kind == KindTransient || e.Kind == KindRateLimited
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrAuthFailure      = &Error{Kind: KindAuthFailure}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrTransient        = &Error{Kind: KindTransient}
)

// KindOf returns the kind of err, KindUnknown for foreign errors and "" for nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var pfErr *Error
	if errors.As(err, &pfErr) {
		return pfErr.Kind
	}

	return KindUnknown
}

// HTTPError is a non-2xx response from the remote service.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Header     http.Header
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// NewInvalidInput reports a parameter the caller must fix. cause may be nil.
func NewInvalidInput(op Operation, message string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: message, Cause: cause}
}

func invalidInput(op Operation, message string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Message: message}
}

func invalidOperation(op Operation, message string) *Error {
	return &Error{Kind: KindInvalidOperation, Op: op, Message: message}
}

// Classify maps a failed call to a typed Error. The first matching rule wins:
// 401, 429, network failure or 5xx, anything else.
func Classify(op Operation, err error) *Error {
	if err == nil {
		return nil
	}

	var pfErr *Error
	if errors.As(err, &pfErr) {
		return pfErr
	}

	var httpErr *HTTPError

	isHTTP := errors.As(err, &httpErr)
	if isHTTP {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuthFailure, Op: op, Message: MessageAuthFailure, StatusCode: httpErr.StatusCode, Cause: err}
		case http.StatusTooManyRequests:
			return &Error{
				Kind:       KindRateLimited,
				Op:         op,
				Message:    MessageRateLimited,
				StatusCode: httpErr.StatusCode,
				RetryAfter: retryAfter(httpErr.Header),
				Cause:      err,
			}
		}
	}

	if isNetworkFailure(err) || (isHTTP && httpErr.StatusCode >= http.StatusInternalServerError) {
		e := &Error{Kind: KindTransient, Op: op, Message: err.Error(), Cause: err}
		if isHTTP {
			e.StatusCode = httpErr.StatusCode
		}

		return e
	}

	e := &Error{Kind: KindUnknown, Op: op, Message: op.failurePrefix() + ": " + err.Error(), Cause: err}
	if isHTTP {
		e.StatusCode = httpErr.StatusCode
	}

	return e
}

// isNetworkFailure reports connection resets, timeouts and unresolvable hosts.
func isNetworkFailure(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && (dnsErr.IsNotFound || dnsErr.IsTimeout) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func retryAfter(header http.Header) int {
	if header == nil {
		return 0
	}

	seconds, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}

	return seconds
}
