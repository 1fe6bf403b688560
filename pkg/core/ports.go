package core

import (
	"context"
	"time"
)

// Presenter renders the main content area.
type Presenter interface {
	ShowLoading()
	// ShowNotes replaces whatever was rendered with the full list.
	ShowNotes(notes []Note)
	ShowEmpty()
	// ShowError renders the persistent error panel. recovered holds the last
	// list known to be good, or nil.
	ShowError(err error, recovered []Note)
	// SetBusy toggles the "request in flight" affordance of the input.
	SetBusy(busy bool)
	// ResetInput clears the input and gives it focus back.
	ResetInput()
}

// Notifier shows transient notifications.
type Notifier interface {
	Notify(level Level, message string)
}

// Confirmer is the yes/no gate in front of destructive actions.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Visibility tells background refreshers whether anyone is looking.
type Visibility interface {
	Visible() bool
}

// VisibilityFunc adapts a function to Visibility.
type VisibilityFunc func() bool

func (f VisibilityFunc) Visible() bool { return f() }

// Task is a pending scheduled callback.
type Task interface {
	// Cancel prevents the callback from running. It reports false if the
	// callback already ran or was already cancelled.
	Cancel() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

type timerTask struct{ t *time.Timer }

func (t timerTask) Cancel() bool { return t.t.Stop() }

// SystemScheduler is a Scheduler backed by time.AfterFunc.
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return timerTask{t: time.AfterFunc(d, fn)}
}

type nopPresenter struct{}

func (nopPresenter) ShowLoading() {}
func (nopPresenter) ShowNotes([]Note) {}
func (nopPresenter) ShowEmpty() {}
func (nopPresenter) ShowError(error, []Note) {}
func (nopPresenter) SetBusy(bool) {}
func (nopPresenter) ResetInput() {}

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}
