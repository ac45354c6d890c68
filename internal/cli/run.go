package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/config"
	"github.com/aretw0/mootcourt/internal/presentation/tui"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/observability"
	"github.com/aretw0/mootcourt/pkg/runner"
	"github.com/aretw0/mootcourt/pkg/script"
	"github.com/aretw0/mootcourt/pkg/session"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	CaseID     string
	ScriptPath string
	Role       string
	Mode       string
	JSON       bool
	Quiet      bool
	Config     config.Config
}

// RunSession plays one hearing between in and out until it finishes, the
// participant leaves, or ctx is cancelled.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if opts.CaseID == "" && opts.ScriptPath == "" {
		return errors.New("a case ID or a script file is required")
	}
	policy, err := opts.Config.Policy()
	if err != nil {
		return err
	}
	runner.SetMaxInputSize(opts.Config.MaxInputSize)

	catalog, err := cases.Default()
	if err != nil {
		return fmt.Errorf("load case catalog: %w", err)
	}

	mgr := session.NewManager(catalog,
		session.WithLogger(logger),
		session.WithSessionOptions(
			mootcourt.WithThinkingPolicy(policy),
			mootcourt.WithLifecycleHooks(observability.LoggingHooks(logger)),
		),
	)
	defer mgr.CloseAll(context.WithoutCancel(ctx))

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		handler = runner.NewTextHandler(in, out,
			runner.WithTextHandlerRenderer(tui.NewRenderer(out)),
			runner.WithTextHandlerStyler(tui.NewLabelStyler(out)),
		)
	}
	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	}

	var entry *session.Entry
	if opts.ScriptPath != "" {
		s, err := script.Load(opts.ScriptPath)
		if err != nil {
			return err
		}
		if !opts.JSON && !opts.Quiet {
			tui.PrintBanner(out, s.Title, "")
		}
		if entry, err = mgr.CreateFromScript(ctx, s); err != nil {
			return err
		}
	} else {
		c, err := catalog.Get(opts.CaseID)
		if err != nil {
			return err
		}
		if !opts.JSON && !opts.Quiet {
			tui.PrintBanner(out, c.Title, c.Court)
		}
		entry, err = mgr.Create(ctx, session.Request{CaseID: opts.CaseID, Role: opts.Role, Mode: opts.Mode})
		if err != nil {
			return err
		}
		if report, ok := catalog.Report(opts.CaseID); ok {
			runnerOpts = append(runnerOpts, runner.WithReport(report.Markdown()))
		}
	}

	runErr := runner.NewRunner(runnerOpts...).Run(ctx, entry.Session)
	if ctx.Err() != nil && runErr == nil {
		runErr = ctx.Err()
	}

	if !opts.JSON {
		var received os.Signal
		if sc, ok := ctx.(*SignalContext); ok {
			received = sc.Signal()
		}
		logCompletion(out, entry.Session.Finished(), runErr, received)
	}

	return handleExecutionError(runErr)
}
