package notesctl

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/core"
)

// --- Types ---

// Client is the notes client handle.
type Client = core.Client

// Note is a single note as returned by the service.
type Note = core.Note

// Config is the file-level configuration (notesctl.yaml).
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the client.
type Option = platform.Option

// WithConfig replaces the whole file-level configuration.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithBaseURL sets the API endpoint, skipping origin-based resolution.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHTTPClient sets the HTTP client used to reach the service.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithHealthTimeout bounds each health probe.
func WithHealthTimeout(d time.Duration) Option {
	return platform.WithHealthTimeout(d)
}

// WithRetryDelay sets the wait between connection attempts.
func WithRetryDelay(d time.Duration) Option {
	return platform.WithRetryDelay(d)
}

// WithMaxRetries sets how many failed probes a load tolerates.
func WithMaxRetries(n int) Option {
	return platform.WithMaxRetries(n)
}

// WithPollInterval sets the background reload period.
func WithPollInterval(d time.Duration) Option {
	return platform.WithPollInterval(d)
}

// WithScheduler injects the timer source.
func WithScheduler(s core.Scheduler) Option {
	return platform.WithScheduler(s)
}

// WithPresenter sets where views are rendered.
func WithPresenter(p core.Presenter) Option {
	return platform.WithPresenter(p)
}

// WithConfirmer sets who approves deletions.
func WithConfirmer(c core.Confirmer) Option {
	return platform.WithConfirmer(c)
}

// WithNotifier replaces the default notification center.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithVisibility sets the predicate gating background polls.
func WithVisibility(v core.Visibility) Option {
	return platform.WithVisibility(v)
}

// WithAPI injects a custom API adapter.
func WithAPI(api core.API) Option {
	return platform.WithAPI(api)
}

// WithSnapshotDir sets where the last loaded list is kept. Empty disables it.
func WithSnapshotDir(dir string) Option {
	return platform.WithSnapshotDir(dir)
}

// --- Factory ---

// New creates a notes client.
func New(opts ...Option) (*Client, error) {
	return platform.New(opts...)
}

// LoadConfig reads a notesctl.yaml file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// FilterNotes keeps the notes whose text matches a glob pattern.
func FilterNotes(notes []Note, pattern string) ([]Note, error) {
	return core.FilterNotes(notes, pattern)
}

// ResolveBaseURL picks the API endpoint for cfg.
func ResolveBaseURL(cfg Config) (string, error) {
	return platform.ResolveBaseURL(cfg)
}
