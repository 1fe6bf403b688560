package platform

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notesctl/pkg/adapters/fs"
	"github.com/aretw0/notesctl/pkg/adapters/httpapi"
	"github.com/aretw0/notesctl/pkg/adapters/lifecycle"
	"github.com/aretw0/notesctl/pkg/adapters/notify"
	"github.com/aretw0/notesctl/pkg/core"
	"github.com/aretw0/notesctl/pkg/schedule"
)

// UserAgent is sent by the default HTTP adapter.
var UserAgent = "notesctl"

// App is the wired client together with the adapters built for it.
// Fields for adapters that were injected through options are nil.
type App struct {
	Client     *core.Client
	API        core.API
	Center     *notify.Center
	Snapshot   *fs.Snapshot
	Scheduler  core.Scheduler
	Visibility *Visibility
	Config     Config
	BaseURL    string
	Logger     *slog.Logger

	realScheduler *schedule.Real
}

// New builds the notes client.
//
//	client, err := notesctl.New(notesctl.WithBaseURL("http://localhost:5000"))
func New(opts ...Option) (*core.Client, error) {
	app, err := Build(opts...)
	if err != nil {
		return nil, err
	}
	return app.Client, nil
}

// Build wires the client and returns every component it created.
func Build(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := &App{Config: o.config, Logger: logger}

	api := o.api
	if api == nil {
		baseURL, err := ResolveBaseURL(o.config)
		if err != nil {
			return nil, err
		}
		httpClient, err := httpapi.NewClient(httpapi.Config{
			BaseURL:    baseURL,
			HTTPClient: o.httpClient,
			UserAgent:  UserAgent,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		app.BaseURL = baseURL
		api = httpClient
	}
	app.API = api

	scheduler := o.scheduler
	if scheduler == nil {
		app.realScheduler = schedule.NewReal(context.Background(), logger)
		scheduler = app.realScheduler
	}
	app.Scheduler = scheduler

	notifier := o.notifier
	if notifier == nil {
		app.Center = notify.NewCenter(notify.Config{Scheduler: scheduler, Logger: logger})
		notifier = app.Center
	}

	var snapshots core.SnapshotStore
	if !o.noSnapshots {
		dir := o.snapshotDir
		if dir == "" {
			dir = o.config.StateDir
		}
		if dir == "" {
			var err error
			if dir, err = DefaultStateDir(); err != nil {
				logger.Warn("snapshots disabled", "error", err)
			}
		}
		if dir != "" {
			app.Snapshot = fs.NewSnapshot(dir)
			snapshots = app.Snapshot
		}
	}

	if o.visibility != nil {
		app.Visibility = &Visibility{inner: o.visibility}
	} else {
		app.Visibility = NewVisibility(true)
	}

	app.Client = core.NewClient(api, core.Config{
		Endpoint:      app.BaseURL,
		HealthTimeout: o.config.HealthTimeout,
		RetryDelay:    o.config.RetryDelay,
		MaxRetries:    o.config.MaxRetries,
		Logger:        logger,
		Presenter:     o.presenter,
		Notifier:      notifier,
		Confirmer:     o.confirmer,
		Scheduler:     scheduler,
		Snapshots:     snapshots,
	})

	logger.Debug("notes client wired",
		"base_url", app.BaseURL,
		"snapshots", app.Snapshot != nil,
		"custom_api", o.api != nil,
	)
	return app, nil
}

// NewPoller returns a poll worker driving the client at the configured interval.
func (a *App) NewPoller() *lifecycle.PollWorker {
	return lifecycle.NewPollWorker(a.Client, a.Config.PollInterval, a.Visibility, a.Logger)
}

// Component is an introspectable part of the app.
type Component interface {
	introspection.Introspectable
	introspection.Component
}

// Components returns the introspectable parts of the app, client first.
func (a *App) Components() []Component {
	comps := []Component{a.Client}
	if c, ok := a.API.(Component); ok {
		comps = append(comps, c)
	}
	if a.Center != nil {
		comps = append(comps, a.Center)
	}
	if a.Snapshot != nil {
		comps = append(comps, a.Snapshot)
	}
	return comps
}

// Close cancels pending retries and dismissals and stops the scheduler it owns.
func (a *App) Close() {
	a.Client.Close()
	if a.Center != nil {
		a.Center.Close()
	}
	if a.realScheduler != nil {
		a.realScheduler.Stop()
	}
}

// Visibility is a core.Visibility that can be paused from the UI.
// When built around an injected predicate, both must agree.
type Visibility struct {
	paused atomic.Bool
	inner  core.Visibility
}

// NewVisibility creates a toggle starting visible or hidden.
func NewVisibility(visible bool) *Visibility {
	v := &Visibility{}
	v.paused.Store(!visible)
	return v
}

// Visible implements core.Visibility.
func (v *Visibility) Visible() bool {
	if v.paused.Load() {
		return false
	}
	return v.inner == nil || v.inner.Visible()
}

// Toggle flips the paused flag and returns the new visibility.
func (v *Visibility) Toggle() bool {
	for {
		old := v.paused.Load()
		if v.paused.CompareAndSwap(old, !old) {
			return v.Visible()
		}
	}
}

var _ core.Visibility = (*Visibility)(nil)
