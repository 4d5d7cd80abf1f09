package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of draftsmith",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "draftsmith %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
