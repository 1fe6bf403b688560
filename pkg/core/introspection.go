package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	Endpoint       string     `json:"endpoint"`
	APIType        string     `json:"api_type"`
	State          LoadState  `json:"state"`
	RetryCount     int        `json:"retry_count"`
	MaxRetries     int        `json:"max_retries"`
	NoteCount      int        `json:"note_count"`
	PendingRetries int        `json:"pending_retries"`
	LastError      string     `json:"last_error,omitempty"`
	LastLoad       *time.Time `json:"last_load,omitempty"`
	Closed         bool       `json:"closed"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	apiType := "api"
	if comp, ok := c.api.(introspection.Component); ok {
		apiType = comp.ComponentType()
	}

	state := ClientState{
		Endpoint:       c.config.Endpoint,
		APIType:        apiType,
		State:          c.state,
		RetryCount:     c.session.RetryCount,
		MaxRetries:     c.config.MaxRetries,
		NoteCount:      len(c.lastNotes),
		PendingRetries: len(c.pending),
		LastLoad:       c.lastLoad,
		Closed:         c.closed,
	}
	if c.lastErr != nil {
		state.LastError = c.lastErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
