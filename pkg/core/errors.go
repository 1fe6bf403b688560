package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConnectionExhausted is returned when the health probe failed for the
	// whole retry budget.
	ErrConnectionExhausted = errors.New("unable to reach the server after several attempts")
	// ErrInitializationFailed is returned when the storage init endpoint answers non-2xx.
	ErrInitializationFailed = errors.New("storage initialization failed")
)

// NetworkError wraps a transport failure (dial, timeout, broken body).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is returned for any non-2xx response.
// Message carries the body's "error" field when the server sent one.
type HTTPError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" && e.Message != e.StatusText {
		return fmt.Sprintf("error %d: %s (%s)", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("error %d: %s", e.Status, e.StatusText)
}

// ApplicationError is returned when a 2xx body carries an "error" field.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// ValidationError is raised client side, before any request is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateForError maps an error from the API port to the terminal load state it produces.
func StateForError(err error) LoadState {
	var (
		httpErr *HTTPError
		appErr  *ApplicationError
		netErr  *NetworkError
	)
	switch {
	case err == nil:
		return StateSuccess
	case errors.Is(err, ErrConnectionExhausted):
		return StateConnectionExhausted
	case errors.As(err, &httpErr):
		return StateHTTPError
	case errors.As(err, &appErr):
		return StateApplicationError
	case errors.As(err, &netErr):
		return StateNetworkError
	default:
		return StateNetworkError
	}
}
