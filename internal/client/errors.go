package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a response body that decoded but failed its
// schema check. This is a contract violation by the backend, not a normal
// request failure, and is never converted into an APIError.
var ErrMalformedResponse = errors.New("malformed server response")

// APIError is the canonical failure for any non-2xx HTTP response.
type APIError struct {
	// Status is the numeric HTTP status code.
	Status int
	// Message is the human-readable failure text, resolved from the error
	// payload's "detail" field when present.
	Message string
	// Payload is the decoded JSON error body, nil when the body was empty
	// or not valid JSON.
	Payload map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates per-field validation failures for one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}
