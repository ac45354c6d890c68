package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/pkg/cases"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List the case library",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := cases.Default()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog.List())
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tYEAR\tPLAYABLE\tTITLE")
		for _, c := range catalog.List() {
			playable := "-"
			if c.Playable {
				playable = "yes"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", c.ID, c.Year, playable, c.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
