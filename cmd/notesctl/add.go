package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/term"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a note",
	Long:  `Add joins its arguments into the text of a new note, then reloads the list.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(platform.WithPresenter(term.NewPresenter(os.Stdout)))
		ctx := context.Background()

		if err := app.Client.AddNote(ctx, strings.Join(args, " ")); err != nil {
			app.exit("Error adding note", err)
		}
		if _, err := app.Client.Settle(ctx); err != nil {
			app.exit("Error reloading notes", err)
		}
		app.close()
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
