package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/internal/cli"
)

var runOpts cli.RunOptions

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [case-id]",
	Short: "Play a hearing in the terminal",
	Long: `Plays a hearing from the case library, or from a script file given with
--script. Type your argument when the court turns to Defense Counsel; type
exit or quit to leave the courtroom.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOpts
		if len(args) > 0 {
			opts.CaseID = args[0]
		}
		if opts.CaseID == "" && opts.ScriptPath == "" {
			opts.CaseID = defaultCase
		}
		opts.Config = cfg

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunSession(sigCtx, opts, os.Stdin, os.Stdout, logger)
	},
}

// defaultCase is played when neither a case nor a script is named.
const defaultCase = "royal-park-murder"

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOpts.ScriptPath, "script", "s", "", "Play a YAML or JSON script file instead of a catalog case")
	runCmd.Flags().StringVar(&runOpts.Role, "role", "", "Practice role (defense or prosecution)")
	runCmd.Flags().StringVar(&runOpts.Mode, "mode", "", "Practice mode (guided or free)")
	runCmd.Flags().BoolVar(&runOpts.JSON, "json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolVarP(&runOpts.Quiet, "quiet", "q", false, "Skip the banner")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
