package core

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Note is the central entity of the domain.
// It is owned by the server: ids are assigned on create and the client never
// edits a note in place, it re-fetches the whole list after every mutation.
type Note struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// FilterNotes returns the notes whose text matches the glob pattern.
// An empty pattern returns the input unchanged.
func FilterNotes(notes []Note, pattern string) ([]Note, error) {
	if pattern == "" {
		return notes, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &ValidationError{Field: "pattern", Reason: fmt.Sprintf("bad glob %q", pattern)}
	}

	filtered := make([]Note, 0, len(notes))
	for _, n := range notes {
		ok, err := doublestar.Match(pattern, n.Text)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}
