package fs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "notesctl.yaml")
	created := make(chan *ConfigWatcher, 2)

	spec := supervisor.Spec{
		Name: "config-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := NewConfigWatcher(path, nil, nil)
			created <- w
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-config-watcher", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))

	first := waitForWatcher(t, created, "first")
	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWatcher(t, created, "second")
	require.NotSame(t, first, second, "supervisor must restart the watcher with a new instance")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func waitForWatcher(t *testing.T, ch <-chan *ConfigWatcher, label string) *ConfigWatcher {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s watcher", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *ConfigWatcher) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if w.State().Status == worker.StatusRunning && w.watcher != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher initialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
