package core_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/notesctl/pkg/core"
)

// MockAPI implements core.API in memory.
type MockAPI struct {
	mu             sync.Mutex
	notes          []core.Note
	nextID         int64
	healthFailures int // -1 fails forever
	listErr        error
	createErr      error
	deleteErr      error
	initErr        error
	calls          map[string]int
}

func NewMockAPI(texts ...string) *MockAPI {
	m := &MockAPI{nextID: 1, calls: make(map[string]int)}
	for _, text := range texts {
		m.notes = append(m.notes, core.Note{ID: m.nextID, Text: text})
		m.nextID++
	}
	return m
}

func (m *MockAPI) Health(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["health"]++
	if m.healthFailures != 0 {
		if m.healthFailures > 0 {
			m.healthFailures--
		}
		return &core.NetworkError{Op: "GET /health", Err: errors.New("connection refused")}
	}
	return nil
}

func (m *MockAPI) List(ctx context.Context) ([]core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["list"]++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]core.Note{}, m.notes...), nil
}

func (m *MockAPI) Create(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["create"]++
	if m.createErr != nil {
		return m.createErr
	}
	m.notes = append(m.notes, core.Note{ID: m.nextID, Text: text})
	m.nextID++
	return nil
}

func (m *MockAPI) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["delete"]++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, n := range m.notes {
		if n.ID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return &core.HTTPError{Status: http.StatusNotFound, StatusText: "Not Found", Message: "Note not found"}
}

func (m *MockAPI) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["init"]++
	return m.initErr
}

func (m *MockAPI) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockAPI) SetHealthFailures(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthFailures = n
}

// recorder implements core.Presenter and core.Notifier.
type recorder struct {
	mu        sync.Mutex
	renders   []string
	rendered  []core.Note
	lastErr   error
	recovered []core.Note
	notes     []notice
}

type notice struct {
	Level   core.Level
	Message string
}

func (r *recorder) ShowLoading() { r.add("loading") }
func (r *recorder) ShowEmpty() { r.add("empty") }
func (r *recorder) ResetInput() { r.add("reset") }

func (r *recorder) SetBusy(busy bool) { r.add(fmt.Sprintf("busy:%t", busy)) }

func (r *recorder) ShowNotes(notes []core.Note) {
	r.mu.Lock()
	r.rendered = append([]core.Note(nil), notes...)
	r.mu.Unlock()
	r.add(fmt.Sprintf("notes:%d", len(notes)))
}

func (r *recorder) ShowError(err error, recovered []core.Note) {
	r.mu.Lock()
	r.lastErr = err
	r.recovered = recovered
	r.mu.Unlock()
	r.add("error")
}

func (r *recorder) Notify(level core.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notice{Level: level, Message: message})
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, event)
}

func (r *recorder) Renders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.renders...)
}

func (r *recorder) LastRender() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return ""
	}
	return r.renders[len(r.renders)-1]
}

func (r *recorder) Notices(level core.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

func (r *recorder) NoticeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}
