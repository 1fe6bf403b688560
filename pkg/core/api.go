package core

import "context"

// API defines the contract with the remote notes service.
// Implementations report failures as *NetworkError, *HTTPError or
// *ApplicationError so the client can classify them.
type API interface {
	// Health succeeds when the service answers 2xx on its health endpoint.
	Health(ctx context.Context) error
	// List returns the full list of notes. An empty list is not an error.
	List(ctx context.Context) ([]Note, error)
	// Create asks the server to store a new note with the given text.
	Create(ctx context.Context, text string) error
	// Delete removes the note with the given id.
	Delete(ctx context.Context, id int64) error
	// Init asks the server to set up its storage. It is idempotent.
	Init(ctx context.Context) error
}

// SnapshotStore keeps the last successfully loaded list so it stays
// recoverable when a later load fails.
type SnapshotStore interface {
	Save(notes []Note) error
	Load() ([]Note, error)
}
