package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
)

// DefaultEmptyNotice is shown when the participant submits a blank response.
const DefaultEmptyNotice = "A response is required before the court can proceed."

// Runner drives one hearing over an IOHandler.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Report is presented once the hearing finishes. Empty means none.
	Report string

	// EmptyNotice is shown when a blank response is rejected.
	EmptyNotice string
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		EmptyNotice: DefaultEmptyNotice,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run presents the session until it finishes, is closed, or the participant
// leaves. Leaving (exit, quit, EOF) and ctx cancellation close the session.
// Run returns nil when the hearing ends or the participant leaves, and
// ctx.Err() when it was interrupted.
func (r *Runner) Run(ctx context.Context, s ports.Session) error {
	handler := r.resolveHandler()
	logger := r.resolveLogger().With("session_id", s.ID())
	script := s.Script()
	roles := script.RoleSet()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	var last *domain.Snapshot
	for {
		snap := s.Snapshot()
		if err := r.present(ctx, handler, script, roles, last, snap); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		last = snap

		switch {
		case snap.Closed:
			logger.Debug("session closed", "revealed", len(snap.Transcript))
			return nil

		case snap.Finished:
			return r.conclude(ctx, handler)

		case snap.AwaitingHuman:
			text, err := handler.Input(ctx, snap.Prompt)
			if err != nil {
				s.Close()
				if errors.Is(err, io.EOF) {
					logger.Debug("input closed, leaving hearing")
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("input error: %w", err)
			}
			if IsExitCommand(text) {
				logger.Debug("participant left the hearing")
				s.Close()
				return nil
			}
			if !s.Submit(text) {
				// Re-prompt only if the engine is still waiting; a concurrent
				// close shows up in the next snapshot.
				if s.Snapshot().AwaitingHuman {
					if err := handler.SystemOutput(ctx, r.EmptyNotice); err != nil {
						return fmt.Errorf("output error: %w", err)
					}
				}
			}

		default:
			select {
			case <-ctx.Done():
				s.Close()
				return ctx.Err()
			case _, ok := <-events:
				if !ok {
					// Terminal: the next snapshot reports it.
					events = nil
				}
			}
		}
	}
}

// present turns the change between two snapshots into handler calls.
func (r *Runner) present(ctx context.Context, h IOHandler, script domain.Script, roles domain.RoleSet, prev, next *domain.Snapshot) error {
	diff := domain.Diff(prev, next)
	if diff == nil {
		return nil
	}

	if len(diff.Appended) > 0 {
		if err := h.Output(ctx, roles, diff.Appended); err != nil {
			return err
		}
	}

	if diff.Thinking != nil {
		args := map[string]any{"active": *diff.Thinking}
		if *diff.Thinking && next.Cursor < script.Len() {
			args["speaker"] = roles.Label(script.Turns[next.Cursor].Speaker)
		}
		if err := h.Signal(ctx, SignalThinking, args); err != nil {
			return err
		}
	}

	if diff.AwaitingHuman != nil && *diff.AwaitingHuman {
		if err := h.Signal(ctx, SignalAwaiting, map[string]any{"prompt": next.Prompt}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) conclude(ctx context.Context, h IOHandler) error {
	if err := h.Signal(ctx, SignalFinished, nil); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if r.Report == "" {
		return nil
	}
	if err := h.Report(ctx, r.Report); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	return NewTextHandler(nil, nil)
}

func (r *Runner) resolveLogger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
