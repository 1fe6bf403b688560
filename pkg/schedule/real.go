package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notesctl/pkg/core"
)

// Real is a core.Scheduler backed by time.AfterFunc.
// Callbacks run through lifecycle.Go so a panicking callback is logged
// instead of taking the process down.
type Real struct {
	ctx    context.Context
	logger *slog.Logger

	mu      sync.Mutex
	tasks   map[*realTask]struct{}
	stopped bool
}

// NewReal creates a scheduler whose callbacks are bound to ctx.
func NewReal(ctx context.Context, logger *slog.Logger) *Real {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Real{
		ctx:    ctx,
		logger: logger,
		tasks:  make(map[*realTask]struct{}),
	}
}

type realTask struct {
	s     *Real
	timer *time.Timer
}

func (t *realTask) Cancel() bool {
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.s.forget(t)
	return stopped
}

// AfterFunc implements core.Scheduler.
func (s *Real) AfterFunc(d time.Duration, fn func()) core.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &realTask{s: s}
	if s.stopped {
		return t
	}

	t.timer = time.AfterFunc(d, func() {
		if !s.forget(t) {
			return
		}
		lifecycle.Go(s.ctx, func(ctx context.Context) error {
			fn()
			return nil
		}, lifecycle.WithErrorHandler(func(err error) {
			s.logger.Error("scheduled task panic", "error", fmt.Errorf("task: %w", err))
		}))
	})
	s.tasks[t] = struct{}{}
	return t
}

// Pending returns the number of callbacks that have not fired yet.
func (s *Real) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending callback. Later AfterFunc calls are no-ops.
func (s *Real) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, t)
	}
}

// forget removes t and reports whether it was still pending.
func (s *Real) forget(t *realTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t]; !ok {
		return false
	}
	delete(s.tasks, t)
	return true
}

var _ core.Scheduler = (*Real)(nil)
