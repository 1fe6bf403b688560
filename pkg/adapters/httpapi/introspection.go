package httpapi

import "github.com/aretw0/introspection"

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL    string `json:"base_url"`
	Requests   int    `json:"requests"`
	Failures   int    `json:"failures"`
	LastStatus int    `json:"last_status,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ClientState{
		BaseURL:    c.baseURL,
		Requests:   c.requests,
		Failures:   c.failures,
		LastStatus: c.lastStatus,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "http"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
