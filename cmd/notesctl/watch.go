package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/fs"
	adapter "github.com/aretw0/notesctl/pkg/adapters/lifecycle"
	"github.com/aretw0/notesctl/pkg/adapters/term"
	"github.com/aretw0/notesctl/pkg/core"
)

const watchHelp = `commands:
  a <text>  add a note
  d <id>    delete a note
  r         reload
  i         initialize storage
  p         pause/resume background polling
  q         quit`

type action int

const (
	actionNone action = iota
	actionAdd
	actionDelete
	actionReload
	actionInit
	actionPause
	actionQuit
	actionHelp
)

type command struct {
	action action
	text   string
	id     int64
}

// parseCommand reads one line of interactive input.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{action: actionNone}, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "a", "add":
		return command{action: actionAdd, text: arg}, nil
	case "d", "del", "delete":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return command{}, fmt.Errorf("invalid note id %q", arg)
		}
		return command{action: actionDelete, id: id}, nil
	case "r", "reload":
		return command{action: actionReload}, nil
	case "i", "init":
		return command{action: actionInit}, nil
	case "p", "pause":
		return command{action: actionPause}, nil
	case "q", "quit", "exit":
		return command{action: actionQuit}, nil
	case "h", "help", "?":
		return command{action: actionHelp}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive mode: keep the list on screen and refresh it in the background",
	Long: `Watch loads the list, then reloads it every poll interval while polling is
not paused. Notes are managed with one-letter commands (type h for help).
When a config file is in use, changes to it are picked up without restarting.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		in := bufio.NewReader(os.Stdin)
		presenter := term.NewPresenter(os.Stdout)
		presenter.Prompt = "> "

		cfg, path := loadConfig()
		app, err := platform.Build(
			platform.WithConfig(cfg),
			platform.WithLogger(slog.Default()),
			platform.WithPresenter(presenter),
			platform.WithConfirmer(term.NewConfirmer(in, os.Stdout)),
		)
		if err != nil {
			fatal("Error initializing client", err)
		}
		defer app.Close()

		printer := term.NewNotificationPrinter(os.Stderr)
		printer.ShowDismissed = verbose
		source := adapter.NewSource(app.Center.Events())
		if err := source.Start(ctx); err != nil {
			fatal("Error starting notifications", err)
		}
		lifecycle.Go(ctx, func(ctx context.Context) error {
			for e := range source.Events() {
				if ev, ok := e.(core.Event); ok {
					printer.Print(ev)
				}
			}
			return nil
		})

		poller := app.NewPoller()
		if err := poller.Start(ctx); err != nil {
			fatal("Error starting poller", err)
		}
		defer stopWorker(poller.Stop)

		if path != "" {
			watcher := fs.NewConfigWatcher(path, func(context.Context) {
				reloaded, err := platform.LoadConfig(path)
				if err == nil {
					err = reloaded.ApplyEnv(nil)
				}
				if err != nil {
					slog.Warn("ignoring invalid config", "path", path, "error", err)
					return
				}
				poller.SetInterval(reloaded.PollInterval)
			}, slog.Default())
			if err := watcher.Start(ctx); err != nil {
				slog.Warn("config hot reload disabled", "error", err)
			} else {
				defer stopWorker(watcher.Stop)
			}
		}

		app.Client.Start(ctx)
		fmt.Println(watchHelp)
		presenter.ResetInput()

		done := make(chan struct{})
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer close(done)
			runREPL(ctx, in, app, poller)
			return nil
		})

		select {
		case <-ctx.Done():
			fmt.Println()
		case <-done:
		}
	},
}

// runREPL reads commands until quit, EOF or cancellation.
// Confirmation prompts read from the same reader, inside handle.
func runREPL(ctx context.Context, in *bufio.Reader, app *platform.App, poller *adapter.PollWorker) {
	for ctx.Err() == nil {
		line, err := in.ReadString('\n')
		if line != "" {
			if quit := handle(ctx, line, app, poller, os.Stdout); quit {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func handle(ctx context.Context, line string, app *platform.App, poller *adapter.PollWorker, out io.Writer) (quit bool) {
	cmd, err := parseCommand(line)
	if err != nil {
		fmt.Fprintln(out, err)
		fmt.Fprintln(out, watchHelp)
		return false
	}

	switch cmd.action {
	case actionAdd:
		if err := app.Client.AddNote(ctx, cmd.text); err == nil {
			// the presenter already reset the prompt
			return false
		}
	case actionDelete:
		_ = app.Client.DeleteNote(ctx, cmd.id)
	case actionReload:
		app.Client.LoadNotes(ctx)
	case actionInit:
		_ = app.Client.InitStorage(ctx)
	case actionPause:
		if app.Visibility.Toggle() {
			fmt.Fprintf(out, "polling resumed (every %s)\n", poller.Interval())
		} else {
			fmt.Fprintln(out, "polling paused")
		}
	case actionHelp:
		fmt.Fprintln(out, watchHelp)
	case actionQuit:
		return true
	}
	fmt.Fprint(out, "> ")
	return false
}

func stopWorker(stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		slog.Debug("worker stop", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
