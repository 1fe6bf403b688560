package schedule

import (
	"context"
	"testing"
	"time"
)

func TestReal_Fires(t *testing.T) {
	s := NewReal(context.Background(), nil)
	done := make(chan struct{})

	s.AfterFunc(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for scheduled callback")
	}

	deadline := time.After(time.Second)
	for s.Pending() != 0 {
		select {
		case <-deadline:
			t.Fatalf("expected no pending tasks, got %d", s.Pending())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestReal_StopCancelsPending(t *testing.T) {
	s := NewReal(context.Background(), nil)
	fired := make(chan struct{}, 1)

	s.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", s.Pending())
	}

	s.Stop()
	if s.Pending() != 0 {
		t.Fatalf("expected 0 pending tasks after Stop, got %d", s.Pending())
	}

	task := s.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
	if task.Cancel() {
		t.Error("task scheduled after Stop should not be cancellable")
	}

	select {
	case <-fired:
		t.Fatal("callback fired after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}
