package monzo

import (
	"encoding/json"
	"fmt"
)

// TransportError reports a failure to build, send or read a request:
// DNS, TLS, connection resets, timeouts and context cancellation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("monzo: %s: failed to execute request: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is the error body the Monzo API sends with non-2xx responses.
// Every field is optional.
type APIError struct {
	Code             string `json:"code,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Message          string `json:"message,omitempty"`
}

// StatusError reports a non-2xx response. Body always holds the raw
// response body; API is set only when that body was a JSON object.
type StatusError struct {
	Op         string
	StatusCode int
	Body       []byte
	API        *APIError
}

func newStatusError(op string, status int, body []byte) *StatusError {
	e := &StatusError{Op: op, StatusCode: status, Body: body}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		e.API = &apiErr
	}
	return e
}

func (e *StatusError) Error() string {
	if e.API != nil && (e.API.Error != "" || e.API.Message != "") {
		return fmt.Sprintf("monzo: %s: API error (status %d): %s - %s", e.Op, e.StatusCode, e.API.Error, e.API.Message)
	}
	return fmt.Sprintf("monzo: %s: API request failed with status %d: %s", e.Op, e.StatusCode, string(e.Body))
}

// DecodeError reports a 2xx body that did not match the expected schema.
type DecodeError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("monzo: %s: failed to unmarshal response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingFieldError is wrapped by DecodeError when a required field is
// absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func missingField(name string) error {
	return &MissingFieldError{Field: name}
}
