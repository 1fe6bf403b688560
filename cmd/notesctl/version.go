package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notesctl"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notesctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notesctl version %s\n", strings.TrimSpace(notesctl.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
