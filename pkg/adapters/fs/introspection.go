package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// SnapshotState exposes internal state for observability.
type SnapshotState struct {
	Path      string     `json:"path"`
	Saves     int        `json:"saves"`
	LastSave  *time.Time `json:"last_save,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Snapshot) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SnapshotState{
		Path:     s.path,
		Saves:    s.saves,
		LastSave: s.lastSave,
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Snapshot) ComponentType() string {
	return "snapshot"
}

var _ introspection.Introspectable = (*Snapshot)(nil)
var _ introspection.Component = (*Snapshot)(nil)
