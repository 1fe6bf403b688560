// Package notestest provides an in-memory notes API for tests.
//
// The server speaks the same HTTP+JSON contract as the real service
// (health, notes, add, delete, init) and lets tests inject faults: failing
// health probes, forced status codes and "error" bodies on 2xx responses.
package notestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/aretw0/notesctl/pkg/core"
)

// Route names accepted by the fault injection helpers.
const (
	RouteHealth = "health"
	RouteNotes  = "notes"
	RouteAdd    = "add"
	RouteDelete = "delete"
	RouteInit   = "init"
)

// Server is a fake notes API backed by a slice.
type Server struct {
	*httptest.Server

	mu             sync.Mutex
	notes          []core.Note
	nextID         int64
	initialized    bool
	healthFailures int
	healthDown     bool
	statuses       map[string]int
	appErrors      map[string]string
	counts         map[string]int
}

// NewServer starts a server. The caller must Close it.
func NewServer() *Server {
	s := &Server{
		nextID:    1,
		statuses:  make(map[string]int),
		appErrors: make(map[string]string),
		counts:    make(map[string]int),
	}
	s.Server = httptest.NewServer(s.Router())
	return s
}

// New starts a server and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()

	s := NewServer()
	t.Cleanup(s.Close)
	return s
}

// Router returns the mux serving the notes contract.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/notes", s.handleList).Methods("GET")
	router.HandleFunc("/add", s.handleAdd).Methods("POST")
	router.HandleFunc("/delete/{id:[0-9]+}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/init", s.handleInit).Methods("GET")
	return router
}

// Seed stores notes directly, bypassing the HTTP surface.
func (s *Server) Seed(texts ...string) []core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]core.Note, 0, len(texts))
	for _, text := range texts {
		created = append(created, s.insertLocked(text))
	}
	return created
}

// Notes returns the stored notes, newest first.
func (s *Server) Notes() []core.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Note(nil), s.notes...)
}

// FailHealth makes the next n health probes answer 503.
func (s *Server) FailHealth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthFailures = n
}

// SetHealthDown makes every health probe answer 503 until cleared.
func (s *Server) SetHealthDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthDown = down
}

// ForceStatus makes route answer status with an error body. Zero clears it.
func (s *Server) ForceStatus(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.statuses, route)
		return
	}
	s.statuses[route] = status
}

// ForceAppError makes route answer 200 with {"error": msg}. Empty clears it.
func (s *Server) ForceAppError(route, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		delete(s.appErrors, route)
		return
	}
	s.appErrors[route] = msg
}

// Count returns how many requests route received.
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

// Initialized reports whether /init was called successfully.
func (s *Server) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// intercept records the call and applies injected faults. It reports true
// when it already wrote a response.
func (s *Server) intercept(w http.ResponseWriter, route string) bool {
	s.mu.Lock()
	s.counts[route]++
	status, forced := s.statuses[route]
	appErr, hasAppErr := s.appErrors[route]
	s.mu.Unlock()

	if forced {
		respondError(w, status, http.StatusText(status))
		return true
	}
	if hasAppErr {
		respondError(w, http.StatusOK, appErr)
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, RouteHealth) {
		return
	}

	s.mu.Lock()
	down := s.healthDown || s.healthFailures > 0
	if s.healthFailures > 0 {
		s.healthFailures--
	}
	initialized := s.initialized
	s.mu.Unlock()

	if down {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"database":    "connected",
		"initialized": initialized,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, RouteNotes) {
		return
	}
	respondJSON(w, http.StatusOK, s.Notes())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, RouteAdd) {
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		respondError(w, http.StatusBadRequest, "Text cannot be empty")
		return
	}

	s.mu.Lock()
	note := s.insertLocked(text)
	s.mu.Unlock()

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      note.ID,
		"text":    note.Text,
		"message": "Note added successfully",
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, RouteDelete) {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid note ID")
		return
	}

	s.mu.Lock()
	found := false
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Note " + strconv.FormatInt(id, 10) + " deleted successfully",
	})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if s.intercept(w, RouteInit) {
		return
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"message": "Database initialized successfully"})
}

// insertLocked prepends so the list stays newest first.
func (s *Server) insertLocked(text string) core.Note {
	note := core.Note{ID: s.nextID, Text: text}
	s.nextID++
	s.notes = append([]core.Note{note}, s.notes...)
	return note
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
