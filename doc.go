// Package notesctl is the composition root of the notes client.
//
// It connects the client core (pkg/core) with its adapters: the HTTP API
// (pkg/adapters/httpapi), the notification center (pkg/adapters/notify),
// the terminal views (pkg/adapters/term), the last-good snapshot
// (pkg/adapters/fs) and the poll worker (pkg/adapters/lifecycle).
//
// The client talks to a small notes service (health, list, add, delete,
// init over HTTP+JSON). Loads probe the service first and retry up to
// core.MaxRetries times, two seconds apart, before reporting the server as
// unreachable. Every mutation is followed by a full reload.
//
// Usage:
//
//	client, err := notesctl.New(
//		notesctl.WithBaseURL("http://localhost:5000"),
//		notesctl.WithLogger(logger),
//	)
//
//	res := client.Start(ctx)
//	err = client.AddNote(ctx, "buy milk")
package notesctl
