// Package lifecycle adapts the notes client to github.com/aretw0/lifecycle:
// a supervisable poll worker and an event source for notifications.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/notesctl/pkg/core"
)

// Loader is the part of core.Client the poller drives.
type Loader interface {
	LoadNotes(ctx context.Context) core.LoadResult
}

// PollWorker reloads the note list every interval while the client is
// visible. Ticks that fire while hidden are skipped, the timer keeps running.
type PollWorker struct {
	*worker.BaseWorker

	loader     Loader
	visibility core.Visibility
	logger     *slog.Logger
	reset      chan time.Duration
	cancel     context.CancelFunc

	mu       sync.Mutex
	interval time.Duration
	ticks    int
	skips    int
	last     core.LoadState
}

// NewPollWorker creates the "notes-poller" worker. A nil visibility means
// always visible.
func NewPollWorker(loader Loader, interval time.Duration, visibility core.Visibility, logger *slog.Logger) *PollWorker {
	if interval <= 0 {
		interval = core.DefaultPollInterval
	}
	if visibility == nil {
		visibility = core.VisibilityFunc(func() bool { return true })
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PollWorker{
		BaseWorker: worker.NewBaseWorker("notes-poller"),
		loader:     loader,
		visibility: visibility,
		logger:     logger,
		reset:      make(chan time.Duration, 1),
		interval:   interval,
		last:       core.StateIdle,
	}
}

// SetInterval changes the poll interval. A running worker picks it up on
// its next loop iteration.
func (w *PollWorker) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	changed := d != w.interval
	w.interval = d
	w.mu.Unlock()
	if !changed {
		return
	}

	select {
	case w.reset <- d:
	default:
		select {
		case <-w.reset:
		default:
		}
		w.reset <- d
	}
}

// Interval returns the current poll interval.
func (w *PollWorker) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// Stats returns the number of loads performed and ticks skipped.
func (w *PollWorker) Stats() (ticks, skips int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks, w.skips
}

func (w *PollWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.BaseWorker.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("poller already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *PollWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *PollWorker) State() worker.State {
	ticks, skips := w.Stats()
	w.mu.Lock()
	interval, last := w.interval, w.last
	w.mu.Unlock()

	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"interval":          interval.String(),
			"ticks":             strconv.Itoa(ticks),
			"skips":             strconv.Itoa(skips),
			"last_state":        string(last),
		}
	})
}

func (w *PollWorker) run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	w.logger.Debug("poller started", "interval", w.Interval())
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-w.reset:
			ticker.Reset(d)
			w.logger.Debug("poll interval changed", "interval", d)
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll runs one tick.
func (w *PollWorker) poll(ctx context.Context) {
	if !w.visibility.Visible() {
		w.mu.Lock()
		w.skips++
		w.mu.Unlock()
		w.logger.Debug("poll skipped, client not visible")
		return
	}

	res := w.loader.LoadNotes(ctx)

	w.mu.Lock()
	w.ticks++
	w.last = res.State
	w.mu.Unlock()
	w.logger.Debug("poll finished", "state", res.State)
}
