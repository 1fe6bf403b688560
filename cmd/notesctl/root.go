package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/term"
)

var (
	verbose    bool
	configPath string
	baseURL    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notesctl",
	Short: "A client for the notes service",
	Long: `notesctl lists, adds and deletes notes on a notes service.
It waits for the service to come up, retrying the connection a few times,
and keeps a snapshot of the last list it loaded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to notesctl.yaml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API endpoint, overrides the config file")
}

// loadConfig resolves the config file, then applies env vars and flags.
// It returns the config and the file it came from, if any.
func loadConfig() (platform.Config, string) {
	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, err := platform.FindConfig(wd); err == nil {
				path = found
			}
		}
	}

	cfg, err := platform.LoadConfig(path)
	if err != nil {
		fatal("Error loading config", err)
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		fatal("Error reading environment", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	slog.Debug("config loaded", "path", path)
	return cfg, path
}

// cliApp is a wired client whose notifications are printed on stderr.
type cliApp struct {
	*platform.App
	printed chan struct{}
}

func openApp(extra ...platform.Option) *cliApp {
	cfg, _ := loadConfig()

	opts := append([]platform.Option{
		platform.WithConfig(cfg),
		platform.WithLogger(slog.Default()),
	}, extra...)

	app, err := platform.Build(opts...)
	if err != nil {
		fatal("Error initializing client", err)
	}

	c := &cliApp{App: app, printed: make(chan struct{})}
	printer := term.NewNotificationPrinter(os.Stderr)
	go func() {
		defer close(c.printed)
		printer.Drain(context.Background(), app.Center.Events())
	}()
	return c
}

// close flushes pending notifications.
func (c *cliApp) close() {
	c.App.Close()
	<-c.printed
}

// exit flushes notifications and exits with status 1.
func (c *cliApp) exit(msg string, err error) {
	c.close()
	fatal(msg, err)
}
