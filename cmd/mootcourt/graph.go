package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/internal/presentation/graph"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/script"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [case-id]",
	Short: "Export the hearing as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of a catalog case or a script file (--script).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var s domain.Script
		var err error
		if path, _ := cmd.Flags().GetString("script"); path != "" {
			s, err = script.Load(path)
		} else {
			id := defaultCase
			if len(args) > 0 {
				id = args[0]
			}
			var catalog *cases.Catalog
			if catalog, err = cases.Default(); err == nil {
				s, err = catalog.Script(id)
			}
		}
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(s, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("script", "s", "", "Script file to draw instead of a catalog case")
}
