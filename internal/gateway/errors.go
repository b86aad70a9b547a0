package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the request never produced an HTTP
	// response (DNS, connection refused, cancelled context, ...).
	ErrTransport = errors.New("remote API unreachable")

	// ErrHTTPStatus is returned for any non-2xx response.
	ErrHTTPStatus = errors.New("remote API returned an error status")

	// ErrRejected is returned when the API answers 2xx with a falsy status.
	ErrRejected = errors.New("remote API rejected the request")

	// ErrDecode is returned when a response body is not the expected JSON envelope.
	ErrDecode = errors.New("malformed response from remote API")

	// ErrMissingID is returned when an update or delete is attempted without an id.
	ErrMissingID = errors.New("record id is required")
)

// APIError describes a failed gateway call.
type APIError struct {
	// Op is the gateway operation, e.g. "ListUsers".
	Op string

	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int

	// Message is the server's "message" field, shown to the user as is.
	Message string

	// RequestID is the X-Request-ID sent with the call.
	RequestID string

	// Err is one of the sentinel errors above, possibly wrapping the cause.
	Err error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: %s failed (status %d): %s", e.Op, e.StatusCode, e.UserMessage())
	}
	return fmt.Sprintf("gateway: %s failed: %s", e.Op, e.UserMessage())
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the wrapped sentinel.
func (e *APIError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// UserMessage is the text to surface in a notification: the server message
// when there is one, otherwise a description of what went wrong.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

// MessageOf returns the user-facing text for any error a gateway call returns.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
