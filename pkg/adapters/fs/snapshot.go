package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/notesctl/pkg/core"
)

// SnapshotFile is the name of the snapshot inside its state directory.
const SnapshotFile = "snapshot.json"

const snapshotVersion = 1

// ErrNoSnapshot is returned by Load when nothing was saved yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

type snapshotDoc struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"saved_at"`
	Notes   []core.Note `json:"notes"`
}

// Snapshot keeps the last successfully loaded note list on disk.
// It implements core.SnapshotStore.
type Snapshot struct {
	path string

	mu       sync.Mutex
	saves    int
	lastSave *time.Time
	lastErr  error
}

// NewSnapshot creates a snapshot stored under dir. The directory is created
// on the first Save.
func NewSnapshot(dir string) *Snapshot {
	return &Snapshot{path: filepath.Join(dir, SnapshotFile)}
}

// Path returns the snapshot file location.
func (s *Snapshot) Path() string {
	return s.path
}

// Save replaces the snapshot with notes.
func (s *Snapshot) Save(notes []core.Note) error {
	if notes == nil {
		notes = []core.Note{}
	}
	now := time.Now().UTC()

	data, err := json.MarshalIndent(snapshotDoc{
		Version: snapshotVersion,
		SavedAt: now,
		Notes:   notes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err == nil {
		err = writeFileAtomic(s.path, data, 0o644)
	}
	s.lastErr = err
	if err != nil {
		return err
	}
	s.saves++
	s.lastSave = &now
	return nil
}

// Load reads the snapshot back.
func (s *Snapshot) Load() ([]core.Note, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Notes, nil
}

// SavedAt returns when the snapshot on disk was written.
func (s *Snapshot) SavedAt() (time.Time, error) {
	doc, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	return doc.SavedAt, nil
}

func (s *Snapshot) read() (snapshotDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc snapshotDoc
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, ErrNoSnapshot
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("corrupted snapshot %s: %w", s.path, err)
	}
	if doc.Version != snapshotVersion {
		return doc, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	if doc.Notes == nil {
		doc.Notes = []core.Note{}
	}
	return doc, nil
}

var _ core.SnapshotStore = (*Snapshot)(nil)
