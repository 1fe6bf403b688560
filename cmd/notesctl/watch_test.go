package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/core"
	"github.com/aretw0/notesctl/pkg/notestest"
	"github.com/aretw0/notesctl/pkg/schedule"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"", command{action: actionNone}},
		{"a buy milk ", command{action: actionAdd, text: "buy milk"}},
		{"add", command{action: actionAdd}},
		{"d 42", command{action: actionDelete, id: 42}},
		{"r\n", command{action: actionReload}},
		{"I", command{action: actionInit}},
		{"p", command{action: actionPause}},
		{"q", command{action: actionQuit}},
		{"?", command{action: actionHelp}},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}

	_, err := parseCommand("d abc")
	assert.ErrorContains(t, err, "invalid note id")
	_, err = parseCommand("x")
	assert.ErrorContains(t, err, "unknown command")
}

func TestHandle(t *testing.T) {
	srv := notestest.New(t)
	app, err := platform.Build(
		platform.WithBaseURL(srv.URL),
		platform.WithSnapshotDir(""),
		platform.WithScheduler(schedule.NewManual()),
	)
	require.NoError(t, err)
	defer app.Close()

	poller := app.NewPoller()
	ctx := context.Background()
	var out bytes.Buffer

	assert.False(t, handle(ctx, "a first note", app, poller, &out))
	assert.Equal(t, []core.Note{{ID: 1, Text: "first note"}}, srv.Notes())

	assert.False(t, handle(ctx, "d 1", app, poller, &out))
	assert.Empty(t, srv.Notes(), "default confirmer approves")

	assert.False(t, handle(ctx, "p", app, poller, &out))
	assert.Contains(t, out.String(), "polling paused")
	assert.False(t, app.Visibility.Visible())

	assert.False(t, handle(ctx, "i", app, poller, &out))
	assert.True(t, srv.Initialized())

	assert.False(t, handle(ctx, "zzz", app, poller, &out))
	assert.Contains(t, out.String(), "unknown command")

	assert.True(t, handle(ctx, "q", app, poller, &out))
}
