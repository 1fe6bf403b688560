package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/term"
	"github.com/aretw0/notesctl/pkg/core"
)

var (
	listJSON    bool
	listMatch   string
	listOffline bool
)

// matchPresenter only shows the notes matching a glob.
type matchPresenter struct {
	*term.Presenter
	pattern string
}

func (p matchPresenter) ShowNotes(notes []core.Note) {
	matched, _ := core.FilterNotes(notes, p.pattern)
	p.Presenter.ShowNotes(matched)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes in the order the service returns them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if listMatch != "" {
			if _, err := core.FilterNotes(nil, listMatch); err != nil {
				fatal("Invalid --match", err)
			}
		}

		var opts []platform.Option
		if !listJSON {
			presenter := term.NewPresenter(os.Stdout)
			if listMatch != "" {
				opts = append(opts, platform.WithPresenter(matchPresenter{Presenter: presenter, pattern: listMatch}))
			} else {
				opts = append(opts, platform.WithPresenter(presenter))
			}
		}
		app := openApp(opts...)

		if listOffline {
			listSnapshot(app)
			return
		}

		res, err := app.Client.LoadSettled(context.Background())
		if err != nil {
			app.exit("Error listing notes", err)
		}
		if res.State.Failed() {
			app.exit("Error listing notes", res.Err)
		}
		app.close()

		if listJSON {
			notes := res.Notes
			if listMatch != "" {
				notes, _ = core.FilterNotes(notes, listMatch)
			}
			printJSON(notes)
		}
	},
}

func listSnapshot(app *cliApp) {
	if app.Snapshot == nil {
		app.exit("Error reading snapshot", fmt.Errorf("snapshots are disabled"))
	}
	notes, err := app.Snapshot.Load()
	if err != nil {
		app.exit("Error reading snapshot", err)
	}
	app.close()

	if listMatch != "" {
		notes, _ = core.FilterNotes(notes, listMatch)
	}
	if listJSON {
		printJSON(notes)
		return
	}
	for _, n := range notes {
		fmt.Printf("#%d %s\n", n.ID, n.Text)
	}
}

func printJSON(notes []core.Note) {
	if notes == nil {
		notes = []core.Note{}
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(notes); err != nil {
		fatal("Error encoding JSON", err)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only show notes whose text matches a glob (e.g. 'todo*')")
	listCmd.Flags().BoolVar(&listOffline, "offline", false, "Show the last loaded list without contacting the service")
}
