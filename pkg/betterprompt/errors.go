// ABOUTME: Error taxonomy: APIError for transport/HTTP/server failures, cancellation sentinel
// ABOUTME: Also builds APIError values from HTTP bodies and transport errors

package betterprompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// StatusConnectionError marks failures to reach or keep talking to the server.
	StatusConnectionError = "connection_error"
	// StatusInvalidRequest marks requests rejected before anything was sent.
	StatusInvalidRequest = "invalid_request"
)

var (
	// ErrCancelled is returned by Task.Wait after the task was cancelled,
	// either through Task.Cancel or the caller's context. It matches
	// context.Canceled with errors.Is. When the caller's context ended with
	// another cause, such as its deadline, the returned error matches both
	// ErrCancelled and that cause.
	ErrCancelled = fmt.Errorf("betterprompt: stream cancelled: %w", context.Canceled)

	// ErrConnection matches any APIError with StatusConnectionError.
	ErrConnection = errors.New("betterprompt: connection error")
)

// APIError is a structured failure reported by the transport, the HTTP layer,
// or an error event inside the stream.
type APIError struct {
	// Status is StatusConnectionError, the HTTP status code as text, or the
	// status the server put in its error payload.
	Status string
	// Code is the HTTP status code when the failure came from a response.
	Code int
	// Message is a human readable description.
	Message string
	// Detail holds the decoded error payload, if any.
	Detail map[string]any
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != "" && e.Message != "":
		return fmt.Sprintf("betterprompt: %s: %s", e.Status, e.Message)
	case e.Message != "":
		return "betterprompt: " + e.Message
	case e.Status != "":
		return "betterprompt: " + e.Status
	default:
		return "betterprompt: unknown error"
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrConnection) match connection failures.
func (e *APIError) Is(target error) bool {
	return target == ErrConnection && e.Status == StatusConnectionError
}

// cancelError reports a task stopped by its parent context for a reason
// other than a plain cancel.
type cancelError struct {
	cause error
}

func (e *cancelError) Error() string {
	return "betterprompt: stream cancelled: " + e.cause.Error()
}

func (e *cancelError) Unwrap() error {
	return e.cause
}

func (e *cancelError) Is(target error) bool {
	return target == ErrCancelled || target == context.Canceled
}

// cancelled returns the error a task cancelled because of cause resolves with.
func cancelled(cause error) error {
	if cause == nil || cause == context.Canceled {
		return ErrCancelled
	}
	return &cancelError{cause: cause}
}

// ValidationError lists required context variables that were not supplied.
type ValidationError struct {
	Slug    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("betterprompt: prompt %q is missing required context variables: %s",
		e.Slug, strings.Join(e.Missing, ", "))
}

// NotFoundError is returned when no prompt has the requested slug.
type NotFoundError struct {
	Slug        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("betterprompt: prompt %q not found", e.Slug)
	}
	return fmt.Sprintf("betterprompt: prompt %q not found (did you mean %s?)",
		e.Slug, strings.Join(e.Suggestions, ", "))
}

// connectionError wraps a transport failure.
func connectionError(err error) *APIError {
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out: " + msg
	}
	return &APIError{
		Status:  StatusConnectionError,
		Message: msg,
		Detail:  map[string]any{"status": StatusConnectionError, "message": msg},
		Err:     err,
	}
}

// invalidRequest reports a request that could not be sent.
func invalidRequest(format string, args ...any) *APIError {
	msg := fmt.Sprintf(format, args...)
	return &APIError{
		Status:  StatusInvalidRequest,
		Message: msg,
		Detail:  map[string]any{"status": StatusInvalidRequest, "message": msg},
	}
}

// httpError builds an APIError from a non-200 response body.
func httpError(code int, body []byte) *APIError {
	e := &APIError{Status: strconv.Itoa(code), Code: code}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil && obj != nil {
		e.Detail = obj
		e.Message = messageFrom(obj)
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(code)
	}
	if e.Detail == nil {
		e.Detail = map[string]any{"status": code, "message": e.Message}
	}
	return e
}

// messageFrom picks the most descriptive text field of an error object.
func messageFrom(obj map[string]any) string {
	for _, key := range []string{"message", "detail", "error"} {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if m := messageFrom(v); m != "" {
				return m
			}
		}
	}
	return ""
}

// statusFrom renders the "status" field of an error object as text.
func statusFrom(obj map[string]any) string {
	switch v := obj["status"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
