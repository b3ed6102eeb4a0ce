package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/syncvar"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of syncvar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "syncvar version %s\n", strings.TrimSpace(syncvar.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
