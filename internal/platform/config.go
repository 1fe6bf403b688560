package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notesctl/pkg/core"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "NOTESCTL_"

// Config is the file-level configuration of the client (notesctl.yaml).
// Durations use Go syntax ("2s", "30s").
type Config struct {
	// BaseURL, when set, bypasses endpoint resolution entirely.
	BaseURL string `yaml:"base_url"`

	// Origin is the address the client considers itself served from.
	Origin     string   `yaml:"origin"`
	LocalHosts []string `yaml:"local_hosts"`
	LocalURL   string   `yaml:"local_url"`
	RemotePath string   `yaml:"remote_path"`

	HealthTimeout time.Duration `yaml:"health_timeout"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	MaxRetries    int           `yaml:"max_retries"`
	PollInterval  time.Duration `yaml:"poll_interval"`

	StateDir string `yaml:"state_dir"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Origin:        "http://localhost",
		LocalHosts:    []string{"localhost", "127.0.0.1", "::1"},
		LocalURL:      "http://localhost:5000",
		RemotePath:    "/api",
		HealthTimeout: core.DefaultHealthTimeout,
		RetryDelay:    core.DefaultRetryDelay,
		MaxRetries:    core.MaxRetries,
		PollInterval:  core.DefaultPollInterval,
	}
}

// LoadConfig reads path on top of DefaultConfig. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from NOTESCTL_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("BASE_URL", &c.BaseURL)
	str("ORIGIN", &c.Origin)
	str("LOCAL_URL", &c.LocalURL)
	str("STATE_DIR", &c.StateDir)
	if v, ok := lookup(EnvPrefix + "LOCAL_HOSTS"); ok {
		c.LocalHosts = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvPrefix + "MAX_RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_RETRIES: %w", EnvPrefix, err)
		}
		c.MaxRetries = n
	}

	return errors.Join(
		dur("HEALTH_TIMEOUT", &c.HealthTimeout),
		dur("RETRY_DELAY", &c.RetryDelay),
		dur("POLL_INTERVAL", &c.PollInterval),
		c.Validate(),
	)
}

// Validate rejects values the client cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.HealthTimeout < 0 {
		errs = append(errs, &core.ValidationError{Field: "health_timeout", Reason: "must not be negative"})
	}
	if c.RetryDelay < 0 {
		errs = append(errs, &core.ValidationError{Field: "retry_delay", Reason: "must not be negative"})
	}
	if c.PollInterval < 0 {
		errs = append(errs, &core.ValidationError{Field: "poll_interval", Reason: "must not be negative"})
	}
	if c.MaxRetries < 1 {
		errs = append(errs, &core.ValidationError{Field: "max_retries", Reason: "must be at least 1"})
	}
	return errors.Join(errs...)
}

// ResolveBaseURL picks the API endpoint. An explicit BaseURL wins. Otherwise
// an origin whose host is one of LocalHosts talks to LocalURL, and any other
// origin talks to RemotePath on itself.
func ResolveBaseURL(c Config) (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}

	origin, err := url.Parse(c.Origin)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", c.Origin, err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return "", fmt.Errorf("origin %q must be absolute", c.Origin)
	}

	if slices.Contains(c.LocalHosts, origin.Hostname()) {
		return strings.TrimRight(c.LocalURL, "/"), nil
	}

	ref, err := url.Parse(c.RemotePath)
	if err != nil {
		return "", fmt.Errorf("invalid remote path %q: %w", c.RemotePath, err)
	}
	return strings.TrimRight(origin.ResolveReference(ref).String(), "/"), nil
}
