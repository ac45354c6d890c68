package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mootcourt",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mootcourt version %s\n", strings.TrimSpace(mootcourt.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
