package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write one debug record per
// transition and an info record per session boundary.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session started", "session_id", e.SessionID, "script", e.ScriptID, "turns", e.Turns)
		},
		OnTurnRevealed: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn revealed",
				"session_id", e.SessionID,
				"cursor", e.Cursor,
				"speaker", e.Turn.Speaker,
				"delay", e.Delay,
			)
		},
		OnAwaitingHuman: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "awaiting participant", "session_id", e.SessionID, "cursor", e.Cursor)
		},
		OnSubmissionRejected: func(ctx context.Context, e *domain.SubmissionEvent) {
			logger.DebugContext(ctx, "submission rejected", "session_id", e.SessionID, "reason", e.Reason)
		},
		OnSessionFinished: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session finished", "session_id", e.SessionID, "revealed", e.Revealed)
		},
		OnSessionClosed: func(ctx context.Context, e *domain.SessionEvent) {
			logger.InfoContext(ctx, "session closed", "session_id", e.SessionID, "revealed", e.Revealed, "turns", e.Turns)
		},
	}
}
