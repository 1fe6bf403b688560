package core_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesctl/pkg/core"
	"github.com/aretw0/notesctl/pkg/schedule"
)

type fixture struct {
	api   *MockAPI
	rec   *recorder
	sched *schedule.Manual
	c     *core.Client
}

func newFixture(t *testing.T, api *MockAPI, confirm bool) *fixture {
	t.Helper()
	f := &fixture{api: api, rec: &recorder{}, sched: schedule.NewManual()}
	f.c = core.NewClient(api, core.Config{
		Endpoint:  "mock",
		Presenter: f.rec,
		Notifier:  f.rec,
		Scheduler: f.sched,
		Confirmer: core.ConfirmFunc(func(context.Context, string) bool { return confirm }),
	})
	t.Cleanup(f.c.Close)
	return f
}

func TestClient_AddNote_EmptyInputIssuesNoRequest(t *testing.T) {
	for _, input := range []string{"", " ", "\t", "  \n\t  "} {
		f := newFixture(t, NewMockAPI(), true)

		err := f.c.AddNote(context.Background(), input)

		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr, "input %q", input)
		assert.Equal(t, "text", vErr.Field)
		assert.Zero(t, f.api.TotalCalls(), "input %q must not reach the network", input)
		assert.Len(t, f.rec.Notices(core.LevelError), 1)
		assert.Empty(t, f.rec.Renders(), "busy affordance must not be touched")
	}
}

func TestClient_LoadNotes_ExhaustsRetryBudget(t *testing.T) {
	api := NewMockAPI("kept")
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)

	res := f.c.LoadNotes(context.Background())
	require.Equal(t, core.StateRetrying, res.State)
	assert.Equal(t, 1, res.Session.RetryCount)
	assert.Equal(t, 1, f.sched.Pending())

	// Each retry fires after exactly the retry delay.
	f.sched.Advance(core.DefaultRetryDelay - time.Millisecond)
	assert.Equal(t, 1, api.Calls("health"))

	f.sched.Advance(time.Millisecond)
	assert.Equal(t, 2, api.Calls("health"))

	f.sched.Advance(2 * core.DefaultRetryDelay)
	assert.Equal(t, 4, api.Calls("health"))
	assert.Zero(t, f.sched.Pending())

	res, err := f.c.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.StateConnectionExhausted, res.State)
	assert.ErrorIs(t, res.Err, core.ErrConnectionExhausted)
	assert.Zero(t, res.Session.RetryCount, "session resets after exhaustion")
	assert.Zero(t, api.Calls("list"), "list must never be fetched")
	assert.Equal(t, "error", f.rec.LastRender())
	assert.Equal(t, []string{"Connection attempt 1/3...", "Connection attempt 2/3...", "Connection attempt 3/3..."},
		f.rec.Notices(core.LevelWarning))

	state := f.c.State().(core.ClientState)
	assert.Equal(t, core.StateConnectionExhausted, state.State)
	assert.Zero(t, state.RetryCount)

	// A new load starts a fresh budget.
	res = f.c.LoadNotes(context.Background())
	assert.Equal(t, core.StateRetrying, res.State)
	assert.Equal(t, 1, res.Session.RetryCount)
}

func TestClient_LoadNotes_RecoversWithinBudget(t *testing.T) {
	api := NewMockAPI("a", "b")
	api.SetHealthFailures(2)
	f := newFixture(t, api, true)

	require.Equal(t, core.StateRetrying, f.c.LoadNotes(context.Background()).State)
	f.sched.Advance(2 * core.DefaultRetryDelay)

	res, err := f.c.Settle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.StateSuccess, res.State)
	assert.Len(t, res.Notes, 2)
	assert.Zero(t, res.Session.RetryCount)
	assert.Equal(t, 1, api.Calls("list"))
	assert.Equal(t, "notes:2", f.rec.LastRender())
}

func TestClient_Load_SessionIsThreaded(t *testing.T) {
	api := NewMockAPI()
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)
	ctx := context.Background()

	res := f.c.Load(ctx, core.Session{})
	assert.Equal(t, core.StateRetrying, res.State)
	assert.Equal(t, core.Session{RetryCount: 1}, res.Session)
	assert.Zero(t, f.sched.Pending(), "Load alone never schedules")

	res = f.c.Load(ctx, core.Session{RetryCount: core.MaxRetries})
	assert.Equal(t, core.StateConnectionExhausted, res.State)
	assert.Equal(t, core.Session{}, res.Session)

	api.SetHealthFailures(0)
	res = f.c.Load(ctx, core.Session{RetryCount: 2})
	assert.Equal(t, core.StateEmpty, res.State)
	assert.Equal(t, core.Session{}, res.Session)
}

func TestClient_LoadNotes_Idempotent(t *testing.T) {
	f := newFixture(t, NewMockAPI("one", "two", "three"), true)
	ctx := context.Background()

	first := f.c.LoadNotes(ctx)
	second := f.c.LoadNotes(ctx)

	require.Equal(t, core.StateSuccess, first.State)
	assert.Equal(t, first.Notes, second.Notes)
	assert.Equal(t, []string{"loading", "notes:3", "loading", "notes:3"}, f.rec.Renders())
}

func TestClient_AddDeleteRoundTrip(t *testing.T) {
	f := newFixture(t, NewMockAPI(), true)
	ctx := context.Background()

	require.NoError(t, f.c.AddNote(ctx, "  x  "))
	notes := f.c.LastNotes()
	require.Len(t, notes, 1)
	assert.Equal(t, "x", notes[0].Text)
	assert.Equal(t, []string{"busy:true", "reset", "loading", "notes:1", "busy:false"}, f.rec.Renders())

	require.NoError(t, f.c.DeleteNote(ctx, notes[0].ID))
	for _, n := range f.c.LastNotes() {
		assert.NotEqual(t, notes[0].ID, n.ID)
	}
	assert.Equal(t, "empty", f.rec.LastRender())
	assert.Contains(t, f.rec.Notices(core.LevelSuccess), "Note added")
	assert.Contains(t, f.rec.Notices(core.LevelSuccess), "Note deleted")
}

func TestClient_EmptyListIsNotAnError(t *testing.T) {
	f := newFixture(t, NewMockAPI(), true)

	res := f.c.LoadNotes(context.Background())

	assert.Equal(t, core.StateEmpty, res.State)
	assert.NotNil(t, res.Notes)
	assert.NoError(t, res.Err)
	assert.Equal(t, "empty", f.rec.LastRender())
	assert.Empty(t, f.rec.Notices(core.LevelError))
	assert.Contains(t, f.rec.Notices(core.LevelInfo), "No notes found")
}

func TestClient_ListHTTP500KeepsPreviousNotesRecoverable(t *testing.T) {
	api := NewMockAPI("keep me")
	f := newFixture(t, api, true)
	ctx := context.Background()

	require.Equal(t, core.StateSuccess, f.c.LoadNotes(ctx).State)

	api.listErr = &core.HTTPError{Status: http.StatusInternalServerError, StatusText: "Internal Server Error"}
	res := f.c.LoadNotes(ctx)

	assert.Equal(t, core.StateHTTPError, res.State)
	assert.Equal(t, "error", f.rec.LastRender())
	require.Error(t, f.rec.lastErr)
	assert.Contains(t, f.rec.lastErr.Error(), "500")
	assert.Equal(t, []core.Note{{ID: 1, Text: "keep me"}}, f.rec.recovered)
	assert.Equal(t, []core.Note{{ID: 1, Text: "keep me"}}, f.c.LastNotes())

	// Manual retry brings the list back.
	api.listErr = nil
	assert.Equal(t, core.StateSuccess, f.c.LoadNotes(ctx).State)
}

func TestClient_ApplicationErrorState(t *testing.T) {
	api := NewMockAPI()
	api.listErr = &core.ApplicationError{Message: "relation notes does not exist"}
	f := newFixture(t, api, true)

	res := f.c.LoadNotes(context.Background())
	assert.Equal(t, core.StateApplicationError, res.State)
	assert.Equal(t, []string{"Error: relation notes does not exist"}, f.rec.Notices(core.LevelError))
}

func TestClient_DeleteWithoutConfirmationIsNoop(t *testing.T) {
	f := newFixture(t, NewMockAPI("stay"), false)

	err := f.c.DeleteNote(context.Background(), 1)

	assert.NoError(t, err)
	assert.Zero(t, f.api.TotalCalls())
	assert.Zero(t, f.rec.NoticeCount())
	assert.Empty(t, f.rec.Renders())
	assert.Equal(t, core.StateIdle, f.c.State().(core.ClientState).State)
}

func TestClient_AddNoteFailureReleasesBusy(t *testing.T) {
	api := NewMockAPI()
	api.createErr = &core.ApplicationError{Message: "Database connection failed"}
	f := newFixture(t, api, true)

	err := f.c.AddNote(context.Background(), "x")

	var appErr *core.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"busy:true", "busy:false"}, f.rec.Renders())
	assert.Zero(t, api.Calls("list"), "failed mutation must not reload")
	assert.Equal(t, []string{"Error: Database connection failed"}, f.rec.Notices(core.LevelError))
}

func TestClient_DeleteFailure(t *testing.T) {
	f := newFixture(t, NewMockAPI(), true)

	err := f.c.DeleteNote(context.Background(), 99)

	var httpErr *core.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Len(t, f.rec.Notices(core.LevelError), 1)
	assert.Zero(t, f.api.Calls("list"))
}

func TestClient_InitStorage(t *testing.T) {
	api := NewMockAPI("seed")
	f := newFixture(t, api, true)
	ctx := context.Background()

	api.initErr = &core.HTTPError{Status: http.StatusInternalServerError, StatusText: "Internal Server Error"}
	err := f.c.InitStorage(ctx)
	assert.ErrorIs(t, err, core.ErrInitializationFailed)
	var httpErr *core.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Zero(t, api.Calls("list"))

	api.initErr = nil
	require.NoError(t, f.c.InitStorage(ctx))
	assert.Equal(t, 1, api.Calls("list"))
	assert.Contains(t, f.rec.Notices(core.LevelSuccess), "Storage initialized")
}

func TestClient_CloseCancelsPendingRetry(t *testing.T) {
	api := NewMockAPI()
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)

	require.Equal(t, core.StateRetrying, f.c.LoadNotes(context.Background()).State)
	require.Equal(t, 1, f.c.State().(core.ClientState).PendingRetries)

	f.c.Close()
	f.sched.Advance(time.Minute)

	assert.Equal(t, 1, api.Calls("health"))
	_, err := f.c.Settle(context.Background())
	assert.ErrorIs(t, err, core.ErrClientClosed)
}

func TestClient_CancelledContextDropsRetry(t *testing.T) {
	api := NewMockAPI()
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)

	ctx, cancel := context.WithCancel(context.Background())
	f.c.LoadNotes(ctx)
	cancel()
	f.sched.Advance(time.Minute)

	assert.Equal(t, 1, api.Calls("health"))
}

func TestClient_DroppedRetryReleasesWaiters(t *testing.T) {
	api := NewMockAPI()
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)

	ctx, cancel := context.WithCancel(context.Background())
	require.Equal(t, core.StateRetrying, f.c.LoadNotes(ctx).State)

	cancel()
	f.sched.Advance(core.DefaultRetryDelay)
	assert.Zero(t, f.sched.Pending())

	settleCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	res, err := f.c.Settle(settleCtx)
	require.NoError(t, err, "Settle must not wait on a dropped retry")
	assert.Equal(t, core.StateNetworkError, res.State)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestClient_OverlappingLoadsKeepSeparateBudgets(t *testing.T) {
	api := NewMockAPI()
	api.SetHealthFailures(-1)
	f := newFixture(t, api, true)
	ctx := context.Background()

	// A poll tick lands while a retry sequence is pending.
	require.Equal(t, core.StateRetrying, f.c.LoadNotes(ctx).State)
	require.Equal(t, core.StateRetrying, f.c.LoadNotes(ctx).State)
	assert.Equal(t, 2, f.sched.Pending())

	for attempt := 2; attempt <= core.MaxRetries; attempt++ {
		f.sched.Advance(core.DefaultRetryDelay)
		assert.Equal(t, 2*attempt, api.Calls("health"))
		assert.Equal(t, 2, f.sched.Pending(), "both sequences still retrying at attempt %d", attempt)
		assert.Equal(t, attempt, f.c.State().(core.ClientState).RetryCount)
	}

	f.sched.Advance(core.DefaultRetryDelay)
	assert.Equal(t, 2*(core.MaxRetries+1), api.Calls("health"))
	assert.Zero(t, f.sched.Pending())

	res, err := f.c.Settle(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.StateConnectionExhausted, res.State)

	// Nothing restarts once both budgets are spent.
	renders := len(f.rec.Renders())
	f.sched.Advance(time.Minute)
	assert.Equal(t, 2*(core.MaxRetries+1), api.Calls("health"))
	assert.Len(t, f.rec.Renders(), renders)
	assert.Equal(t, "error", f.rec.LastRender())
	assert.Zero(t, api.Calls("list"))
}

func TestClient_Load_HealthyProbeFetchesWhateverTheBudget(t *testing.T) {
	f := newFixture(t, NewMockAPI("a"), true)

	res := f.c.Load(context.Background(), core.Session{RetryCount: core.MaxRetries})

	assert.Equal(t, core.StateSuccess, res.State)
	assert.Zero(t, res.Session.RetryCount)
	assert.Equal(t, 1, f.api.Calls("list"))
}

func TestClient_LoadSettledBlocksThroughRetries(t *testing.T) {
	api := NewMockAPI("late")
	api.SetHealthFailures(1)
	f := newFixture(t, api, true)

	done := make(chan core.LoadResult, 1)
	go func() {
		res, err := f.c.LoadSettled(context.Background())
		if err != nil {
			t.Errorf("LoadSettled: %v", err)
		}
		done <- res
	}()

	deadline := time.After(2 * time.Second)
	for f.sched.Pending() == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry to be scheduled")
		case <-time.After(5 * time.Millisecond):
		}
	}
	f.sched.Advance(core.DefaultRetryDelay)

	select {
	case res := <-done:
		assert.Equal(t, core.StateSuccess, res.State)
		assert.Len(t, res.Notes, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for settled load")
	}
}

func TestClient_Start(t *testing.T) {
	f := newFixture(t, NewMockAPI("a"), true)

	res := f.c.Start(context.Background())

	assert.Equal(t, core.StateSuccess, res.State)
	assert.Contains(t, f.rec.Notices(core.LevelSuccess), "Connected to server")
	assert.Contains(t, f.rec.Notices(core.LevelSuccess), "1 note(s) loaded")
}

func TestStateForError(t *testing.T) {
	cases := []struct {
		err  error
		want core.LoadState
	}{
		{nil, core.StateSuccess},
		{core.ErrConnectionExhausted, core.StateConnectionExhausted},
		{&core.HTTPError{Status: 502}, core.StateHTTPError},
		{&core.ApplicationError{Message: "boom"}, core.StateApplicationError},
		{&core.NetworkError{Op: "GET /notes", Err: errors.New("reset")}, core.StateNetworkError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, core.StateForError(tc.err), "%v", tc.err)
	}
	assert.True(t, core.StateHTTPError.Failed())
	assert.False(t, core.StateEmpty.Failed())
	assert.False(t, core.StateRetrying.Terminal())
}

func TestFilterNotes(t *testing.T) {
	notes := []core.Note{{ID: 1, Text: "buy milk"}, {ID: 2, Text: "call bob"}, {ID: 3, Text: "buy bread"}}

	got, err := core.FilterNotes(notes, "buy *")
	require.NoError(t, err)
	assert.Equal(t, []core.Note{notes[0], notes[2]}, got)

	got, err = core.FilterNotes(notes, "")
	require.NoError(t, err)
	assert.Equal(t, notes, got)

	_, err = core.FilterNotes(notes, "[")
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestLevelDelay(t *testing.T) {
	assert.Equal(t, 3*time.Second, core.LevelInfo.Delay())
	assert.Equal(t, 5*time.Second, core.LevelSuccess.Delay())
	assert.Equal(t, 5*time.Second, core.LevelWarning.Delay())
	assert.Equal(t, 5*time.Second, core.LevelError.Delay())
}
