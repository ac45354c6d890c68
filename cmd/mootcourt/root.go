package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/mootcourt/internal/cli"
	"github.com/aretw0/mootcourt/internal/config"
)

var (
	cfg        config.Config
	logger     *slog.Logger
	closeLog   = func() error { return nil }
	configErr  error
	flagConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mootcourt",
	Short: "Mootcourt plays scripted courtroom hearings for advocacy practice",
	Long: `Mootcourt replays a pre-authored appellate hearing turn by turn and pauses
whenever Defense Counsel must argue. Run a hearing in the terminal, or serve
the case library over HTTP or MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		var err error
		logger, closeLog, err = cli.NewLogger(cfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags overrides the environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = flagConfig.LogLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = flagConfig.LogFile
	}
	if flags.Changed("thinking-delay") {
		cfg.ThinkingDelay = flagConfig.ThinkingDelay
	}
	if flags.Changed("thinking-policy") {
		cfg.ThinkingPolicy = flagConfig.ThinkingPolicy
	}
	if flags.Changed("max-input-size") {
		cfg.MaxInputSize = flagConfig.MaxInputSize
	}
}

func init() {
	cfg, configErr = config.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagConfig.LogFile, "log-file", "", "Also write JSON logs to this file")
	pf.DurationVar(&flagConfig.ThinkingDelay, "thinking-delay", 2*time.Second, "Pause before each bench or counsel turn")
	pf.StringVar(&flagConfig.ThinkingPolicy, "thinking-policy", "per-turn", "When to pause: per-turn or per-run")
	pf.IntVar(&flagConfig.MaxInputSize, "max-input-size", 4096, "Maximum submission size in bytes")
}
