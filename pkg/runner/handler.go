package runner

import (
	"context"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// Signal names sent to IOHandler.Signal.
const (
	// SignalThinking toggles the "is thinking" indicator.
	// Args: "active" (bool) and, while active, "speaker" (display label).
	SignalThinking = "thinking"

	// SignalAwaiting marks the hearing suspending on the participant.
	SignalAwaiting = "awaiting"

	// SignalFinished marks the end of the hearing.
	SignalFinished = "finished"
)

// IOHandler defines the strategy for interacting with the participant.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents newly revealed turns, in transcript order.
	Output(ctx context.Context, roles domain.RoleSet, turns []domain.Turn) error

	// Input reads a response from the participant. The prompt is the
	// instruction of the pending human turn.
	Input(ctx context.Context, prompt string) (string, error)

	// Signal notifies the handler of a state change (e.g. "thinking").
	// This is used for visual feedback without blocking input.
	Signal(ctx context.Context, name string, args map[string]any) error

	// SystemOutput presents a meta-message to the participant.
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error

	// Report presents a markdown document once the hearing is over.
	Report(ctx context.Context, markdown string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for terminal rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// LabelStyler decorates the speaker label printed before each turn.
type LabelStyler func(speaker domain.Speaker, role domain.Role) string
