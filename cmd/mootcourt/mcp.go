package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/internal/cli"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves hearings as MCP tools over Standard Input/Output, so an agent can
start a session, argue, and read the transcript. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ServeMCP(cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
