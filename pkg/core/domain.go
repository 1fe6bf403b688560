package core

import (
	"fmt"
	"time"
)

// MaxRetries is the default retry budget for the health probe.
const MaxRetries = 3

// Default timings.
const (
	DefaultRetryDelay    = 2 * time.Second
	DefaultHealthTimeout = 5 * time.Second
	DefaultPollInterval  = 30 * time.Second
)

// Session is the transient state of a load sequence.
// It is passed into each load and returned updated, so callers own it.
type Session struct {
	RetryCount int `json:"retry_count"`
}

// LoadState is a node of the load state machine:
// Idle -> Probing -> {Retrying | Fetching} -> terminal.
type LoadState string

const (
	StateIdle                LoadState = "idle"
	StateProbing             LoadState = "probing"
	StateRetrying            LoadState = "retrying"
	StateFetching            LoadState = "fetching"
	StateSuccess             LoadState = "success"
	StateEmpty               LoadState = "empty"
	StateConnectionExhausted LoadState = "connection_exhausted"
	StateHTTPError           LoadState = "http_error"
	StateApplicationError    LoadState = "application_error"
	StateNetworkError        LoadState = "network_error"
)

// Terminal reports whether s ends a load. Every terminal state can be re-entered
// by a new load.
func (s LoadState) Terminal() bool {
	switch s {
	case StateSuccess, StateEmpty, StateConnectionExhausted, StateHTTPError,
		StateApplicationError, StateNetworkError:
		return true
	}
	return false
}

// Failed reports whether s is a terminal error state.
func (s LoadState) Failed() bool {
	return s.Terminal() && s != StateSuccess && s != StateEmpty
}

// LoadResult is what a single load invocation produced.
type LoadResult struct {
	State   LoadState
	Notes   []Note
	Session Session
	Err     error
}

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Delay is how long a notification of this level stays on screen.
func (l Level) Delay() time.Duration {
	if l == LevelInfo {
		return 3 * time.Second
	}
	return 5 * time.Second
}

// Notification is a transient, auto-dismissed message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EventType represents the kind of change in the notification stack.
type EventType string

const (
	EventShown     EventType = "SHOWN"
	EventDismissed EventType = "DISMISSED"
)

// Event represents a change in the notification stack.
type Event struct {
	Type         EventType
	Notification Notification
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s [%s] %s", e.Type, e.Notification.ID, e.Notification.Level, e.Notification.Message)
}
