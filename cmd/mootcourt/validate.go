package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/pkg/script"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script>...",
	Short: "Check script files for consistency",
	Long:  `Parses each script and reports empty hearings, unknown speakers or missing content.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			s, err := script.Load(path)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
				failed++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d turns, %d for Defense Counsel\n", path, s.Len(), s.HumanTurns())
		}
		if failed > 0 {
			return fmt.Errorf("validation failed for %d of %d scripts", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
