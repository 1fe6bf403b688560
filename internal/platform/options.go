package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notesctl/pkg/core"
)

// options holds the internal configuration for the notes client.
type options struct {
	config      Config
	logger      *slog.Logger
	httpClient  *http.Client
	api         core.API
	scheduler   core.Scheduler
	presenter   core.Presenter
	confirmer   core.Confirmer
	notifier    core.Notifier
	visibility  core.Visibility
	snapshotDir string
	noSnapshots bool
}

// Option defines a functional option for configuring the client.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole file-level configuration. Options applied
// after it still override single fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithBaseURL sets the API endpoint, skipping origin-based resolution.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.config.BaseURL = url
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used by the default API adapter.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithHealthTimeout bounds each health probe. Defaults to 5s.
func WithHealthTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config.HealthTimeout = d
	}
}

// WithRetryDelay sets the wait between connection attempts. Defaults to 2s.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		o.config.RetryDelay = d
	}
}

// WithMaxRetries sets how many failed probes a load tolerates before giving up.
// It must be at least 1; Build rejects anything lower.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.config.MaxRetries = n
	}
}

// WithPollInterval sets the background reload period. Defaults to 30s.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.config.PollInterval = d
	}
}

// WithScheduler injects the timer source (e.g. a manual clock in tests).
func WithScheduler(s core.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithPresenter sets where views are rendered.
func WithPresenter(p core.Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithConfirmer sets who approves deletions. Without one every deletion is approved.
func WithConfirmer(c core.Confirmer) Option {
	return func(o *options) {
		o.confirmer = c
	}
}

// WithNotifier replaces the default notification center.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithVisibility sets the predicate gating background polls.
func WithVisibility(v core.Visibility) Option {
	return func(o *options) {
		o.visibility = v
	}
}

// WithAPI injects a custom API adapter (e.g. a mock).
// If provided, the HTTP adapter is skipped.
func WithAPI(api core.API) Option {
	return func(o *options) {
		o.api = api
	}
}

// WithSnapshotDir sets where the last loaded list is kept.
// An empty dir disables snapshots.
func WithSnapshotDir(dir string) Option {
	return func(o *options) {
		o.snapshotDir = dir
		o.noSnapshots = dir == ""
	}
}
