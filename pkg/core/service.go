package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrClientClosed is returned to callers waiting on a load when the client shuts down.
var ErrClientClosed = errors.New("notes client closed")

// Config holds the configuration for a Client.
// Zero values fall back to the package defaults.
type Config struct {
	Endpoint      string // informational, reported by State
	HealthTimeout time.Duration
	RetryDelay    time.Duration
	MaxRetries    int
	Logger        *slog.Logger
	Presenter     Presenter
	Notifier      Notifier
	Confirmer     Confirmer // nil approves every deletion
	Scheduler     Scheduler
	Snapshots     SnapshotStore
}

// Client is the notes client handle. It exposes the user-facing operations
// (load, add, delete, init) to whatever presentation layer is injected.
//
// Overlapping loads are not serialized: the last response to arrive is what
// gets rendered.
type Client struct {
	api    API
	config Config
	logger *slog.Logger

	mu        sync.Mutex
	session   Session
	state     LoadState
	last      LoadResult
	lastErr   error
	lastLoad  *time.Time
	lastNotes []Note
	pending   map[uint64]Task
	nextTask  uint64
	waiters   []chan LoadResult
	closed    bool
}

// NewClient creates a new Client talking to api.
func NewClient(api API, config Config) *Client {
	if config.HealthTimeout <= 0 {
		config.HealthTimeout = DefaultHealthTimeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = MaxRetries
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Presenter == nil {
		config.Presenter = nopPresenter{}
	}
	if config.Notifier == nil {
		config.Notifier = nopNotifier{}
	}
	if config.Confirmer == nil {
		config.Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	}
	if config.Scheduler == nil {
		config.Scheduler = SystemScheduler{}
	}

	return &Client{
		api:     api,
		config:  config,
		logger:  config.Logger,
		state:   StateIdle,
		last:    LoadResult{State: StateIdle},
		pending: make(map[uint64]Task),
	}
}

// ProbeHealth reports whether the service answered its health endpoint with a
// 2xx within the health timeout. Failures are folded into false.
func (c *Client) ProbeHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.config.HealthTimeout)
	defer cancel()

	if err := c.api.Health(ctx); err != nil {
		c.logger.Debug("health probe failed", "error", err)
		return false
	}
	c.logger.Debug("health probe ok", "endpoint", c.config.Endpoint)
	return true
}

// Start runs the startup sequence: one probe to tell the user whether the
// server is reachable, then a full load.
func (c *Client) Start(ctx context.Context) LoadResult {
	c.logger.Info("starting notes client", "endpoint", c.config.Endpoint)

	if c.ProbeHealth(ctx) {
		c.config.Notifier.Notify(LevelSuccess, "Connected to server")
	} else {
		c.config.Notifier.Notify(LevelWarning, "Connecting to server...")
	}
	return c.LoadNotes(ctx)
}

// Load runs one invocation of the load state machine with the given session
// and returns the updated session in the result. It never schedules anything:
// a StateRetrying result means the caller should load again after RetryDelay.
func (c *Client) Load(ctx context.Context, sess Session) LoadResult {
	c.transition(StateProbing)
	c.config.Presenter.ShowLoading()
	c.config.Notifier.Notify(LevelInfo, "Connecting to API...")

	if !c.ProbeHealth(ctx) {
		if sess.RetryCount < c.config.MaxRetries {
			sess.RetryCount++
			c.logger.Warn("server unreachable, retrying",
				"attempt", sess.RetryCount,
				"max", c.config.MaxRetries,
				"delay", c.config.RetryDelay,
			)
			c.config.Notifier.Notify(LevelWarning,
				fmt.Sprintf("Connection attempt %d/%d...", sess.RetryCount, c.config.MaxRetries))
			c.transition(StateRetrying)
			return LoadResult{State: StateRetrying, Session: sess}
		}
		return c.fail(Session{}, ErrConnectionExhausted)
	}

	sess.RetryCount = 0
	c.transition(StateFetching)

	notes, err := c.api.List(ctx)
	if err != nil {
		return c.fail(sess, err)
	}

	c.remember(notes)

	if len(notes) == 0 {
		c.config.Presenter.ShowEmpty()
		c.config.Notifier.Notify(LevelInfo, "No notes found")
		c.transition(StateEmpty)
		return LoadResult{State: StateEmpty, Notes: []Note{}, Session: sess}
	}

	c.config.Presenter.ShowNotes(notes)
	c.config.Notifier.Notify(LevelSuccess, fmt.Sprintf("%d note(s) loaded", len(notes)))
	c.transition(StateSuccess)
	return LoadResult{State: StateSuccess, Notes: notes, Session: sess}
}

// LoadNotes starts a new load sequence. On a StateRetrying result the next
// attempt is scheduled with the session returned by this one, so every
// sequence spends its own retry budget. The handle keeps the latest session
// for introspection only.
func (c *Client) LoadNotes(ctx context.Context) LoadResult {
	return c.loadWith(ctx, Session{})
}

func (c *Client) loadWith(ctx context.Context, sess Session) LoadResult {
	res := c.Load(ctx, sess)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = res.Session
	c.last = res
	if res.State == StateRetrying {
		next := res.Session
		c.scheduleLocked(ctx, c.config.RetryDelay, func(ctx context.Context) {
			c.loadWith(ctx, next)
		})
		return res
	}

	c.releaseLocked(res)
	return res
}

// Settle waits until the load sequence in progress reaches a terminal state.
// It returns immediately if the last load was not retrying.
func (c *Client) Settle(ctx context.Context) (LoadResult, error) {
	c.mu.Lock()
	if c.last.State != StateRetrying {
		res := c.last
		c.mu.Unlock()
		return res, nil
	}
	if c.closed {
		c.mu.Unlock()
		return LoadResult{}, ErrClientClosed
	}
	ch := make(chan LoadResult, 1)
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	select {
	case res, ok := <-ch:
		if !ok {
			return LoadResult{}, ErrClientClosed
		}
		return res, nil
	case <-ctx.Done():
		return LoadResult{}, ctx.Err()
	}
}

// LoadSettled is LoadNotes followed by Settle. One-shot callers use it to
// block through the retry sequence.
func (c *Client) LoadSettled(ctx context.Context) (LoadResult, error) {
	if res := c.LoadNotes(ctx); res.State != StateRetrying {
		return res, nil
	}
	return c.Settle(ctx)
}

// AddNote creates a note with the trimmed text, then reloads the list.
func (c *Client) AddNote(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		c.config.Notifier.Notify(LevelError, "Please enter a note")
		return &ValidationError{Field: "text", Reason: "note text cannot be empty"}
	}

	c.config.Presenter.SetBusy(true)
	defer c.config.Presenter.SetBusy(false)

	if err := c.api.Create(ctx, text); err != nil {
		c.logger.Error("failed to add note", "error", err)
		c.config.Notifier.Notify(LevelError, "Error: "+err.Error())
		return err
	}

	c.config.Presenter.ResetInput()
	c.config.Notifier.Notify(LevelSuccess, "Note added")
	c.LoadNotes(ctx)
	return nil
}

// DeleteNote removes a note after confirmation, then reloads the list.
// Declining the confirmation is a silent no-op.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	if !c.config.Confirmer.Confirm(ctx, fmt.Sprintf("Delete note #%d?", id)) {
		c.logger.Debug("delete not confirmed", "id", id)
		return nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete note", "id", id, "error", err)
		c.config.Notifier.Notify(LevelError, "Error: "+err.Error())
		return err
	}

	c.config.Notifier.Notify(LevelSuccess, "Note deleted")
	c.LoadNotes(ctx)
	return nil
}

// InitStorage asks the server to initialize its storage, then reloads.
// It is the manual recovery action offered by the error panel.
func (c *Client) InitStorage(ctx context.Context) error {
	c.config.Notifier.Notify(LevelInfo, "Initializing storage...")

	if err := c.api.Init(ctx); err != nil {
		err = fmt.Errorf("%w: %w", ErrInitializationFailed, err)
		c.logger.Error("storage initialization failed", "error", err)
		c.config.Notifier.Notify(LevelError, "Initialization error: "+err.Error())
		return err
	}

	c.config.Notifier.Notify(LevelSuccess, "Storage initialized")
	c.LoadNotes(ctx)
	return nil
}

// LastNotes returns the last list loaded successfully, or nil.
func (c *Client) LastNotes() []Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Note(nil), c.lastNotes...)
}

// Close cancels every pending retry and releases waiters.
// The client stays usable for direct calls.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, task := range c.pending {
		task.Cancel()
		delete(c.pending, id)
	}
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

func (c *Client) fail(sess Session, err error) LoadResult {
	state := StateForError(err)
	c.logger.Error("failed to load notes", "state", state, "error", err)

	c.config.Presenter.ShowError(err, c.recovered())
	c.config.Notifier.Notify(LevelError, "Error: "+err.Error())

	c.mu.Lock()
	c.state = state
	c.lastErr = err
	c.mu.Unlock()
	return LoadResult{State: state, Session: sess, Err: err}
}

func (c *Client) remember(notes []Note) {
	now := time.Now()
	c.mu.Lock()
	c.lastNotes = append([]Note(nil), notes...)
	c.lastLoad = &now
	c.lastErr = nil
	c.mu.Unlock()

	if c.config.Snapshots != nil {
		if err := c.config.Snapshots.Save(notes); err != nil {
			c.logger.Warn("failed to save snapshot", "error", err)
		}
	}
}

func (c *Client) recovered() []Note {
	c.mu.Lock()
	notes := c.lastNotes
	c.mu.Unlock()
	if notes != nil || c.config.Snapshots == nil {
		return append([]Note(nil), notes...)
	}

	notes, err := c.config.Snapshots.Load()
	if err != nil {
		c.logger.Debug("no snapshot to recover", "error", err)
		return nil
	}
	return notes
}

func (c *Client) transition(state LoadState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// releaseLocked hands res to every Settle caller waiting on a retry sequence.
func (c *Client) releaseLocked(res LoadResult) {
	for _, ch := range c.waiters {
		ch <- res
		close(ch)
	}
	c.waiters = nil
}

// dropLocked ends a retry sequence whose context was cancelled. Waiters are
// released unless another sequence is still pending.
func (c *Client) dropLocked(cause error) {
	c.logger.Debug("scheduled retry dropped", "error", cause)
	if len(c.pending) > 0 || c.last.State != StateRetrying {
		return
	}

	err := &NetworkError{Op: "load retry", Err: cause}
	res := LoadResult{State: StateForError(err), Err: err}
	c.state = res.State
	c.lastErr = err
	c.last = res
	c.releaseLocked(res)
}

// scheduleLocked must be called with c.mu held.
func (c *Client) scheduleLocked(ctx context.Context, d time.Duration, fn func(context.Context)) {
	if c.closed {
		return
	}
	id := c.nextTask
	c.nextTask++
	c.pending[id] = c.config.Scheduler.AfterFunc(d, func() {
		c.mu.Lock()
		_, ok := c.pending[id]
		delete(c.pending, id)
		cause := ctx.Err()
		if ok && cause != nil {
			c.dropLocked(cause)
		}
		c.mu.Unlock()

		if !ok || cause != nil {
			return
		}
		fn(ctx)
	})
}
