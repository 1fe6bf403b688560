package main

import (
	"bufio"
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/term"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Long:  `Delete asks for confirmation, removes the note from the service and reloads the list.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("Invalid note id", err)
		}

		confirmer := term.NewConfirmer(bufio.NewReader(os.Stdin), os.Stdout)
		confirmer.AssumeYes = deleteYes

		app := openApp(
			platform.WithPresenter(term.NewPresenter(os.Stdout)),
			platform.WithConfirmer(confirmer),
		)
		ctx := context.Background()

		if err := app.Client.DeleteNote(ctx, id); err != nil {
			app.exit("Error deleting note", err)
		}
		if _, err := app.Client.Settle(ctx); err != nil {
			app.exit("Error reloading notes", err)
		}
		app.close()
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
