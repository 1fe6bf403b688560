package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the notes service is reachable",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := openApp()

		if !app.Client.ProbeHealth(context.Background()) {
			app.exit("Service unreachable", errors.New(app.BaseURL))
		}
		app.close()

		fmt.Printf("Service healthy: %s\n", app.BaseURL)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
