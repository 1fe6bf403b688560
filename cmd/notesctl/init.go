package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl/internal/platform"
	"github.com/aretw0/notesctl/pkg/adapters/term"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Ask the service to initialize its storage",
	Long:  `Init is the recovery action for a service whose storage is missing. It is safe to repeat.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp(platform.WithPresenter(term.NewPresenter(os.Stdout)))
		ctx := context.Background()

		if err := app.Client.InitStorage(ctx); err != nil {
			app.exit("Error initializing storage", err)
		}
		if _, err := app.Client.Settle(ctx); err != nil {
			app.exit("Error reloading notes", err)
		}
		app.close()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
