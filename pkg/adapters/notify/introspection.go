package notify

import "github.com/aretw0/introspection"

// CenterState exposes internal state for observability.
type CenterState struct {
	Active    int  `json:"active"`
	Shown     int  `json:"shown"`
	Dismissed int  `json:"dismissed"`
	Dropped   int  `json:"dropped"`
	Closed    bool `json:"closed"`
}

// State implements introspection.Introspectable.
func (c *Center) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CenterState{
		Active:    len(c.active),
		Shown:     c.shown,
		Dismissed: c.dismissed,
		Dropped:   c.dropped,
		Closed:    c.closed,
	}
}

// ComponentType implements introspection.Component.
func (c *Center) ComponentType() string {
	return "notifier"
}

var _ introspection.Introspectable = (*Center)(nil)
var _ introspection.Component = (*Center)(nil)
