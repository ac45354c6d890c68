package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

// Stream events, delivered to session subscribers.
const (
	EventTranscriptUpdated    EventType = "transcript_updated"
	EventThinkingChanged      EventType = "thinking_changed"
	EventAwaitingHumanChanged EventType = "awaiting_human_changed"
	EventSessionFinished      EventType = "session_finished"
)

// Lifecycle events, delivered to hooks.
const (
	EventSessionStart       EventType = "session_start"
	EventTurnRevealed       EventType = "turn_revealed"
	EventSubmissionRejected EventType = "submission_rejected"
	EventSessionClosed      EventType = "session_closed"
)

// Event is one observable change of a session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Cursor    int       `json:"cursor"`

	// Turn is the turn appended by a TranscriptUpdated event.
	Turn *Turn `json:"turn,omitempty"`

	// Transcript is the full transcript after a TranscriptUpdated event.
	Transcript []Turn `json:"transcript,omitempty"`

	Thinking      bool   `json:"thinking,omitempty"`
	AwaitingHuman bool   `json:"awaiting_human,omitempty"`
	Prompt        string `json:"prompt,omitempty"`
}

// EventBase contains common fields for all hook events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// SessionEvent describes a session entering or leaving a lifecycle phase.
type SessionEvent struct {
	EventBase
	ScriptID string `json:"script_id"`
	Turns    int    `json:"turns"`
	Revealed int    `json:"revealed"`
}

// TurnEvent describes a turn being revealed or a human turn becoming pending.
type TurnEvent struct {
	EventBase
	Cursor int  `json:"cursor"`
	Turn   Turn `json:"turn"`
	Human  bool `json:"human,omitempty"`

	// Delay is the thinking delay that preceded an automated reveal.
	Delay time.Duration `json:"delay,omitempty"`

	// Waited is how long the engine was suspended before a human turn was submitted.
	Waited time.Duration `json:"waited,omitempty"`
}

// SubmissionEvent describes a rejected human submission.
type SubmissionEvent struct {
	EventBase
	Cursor int    `json:"cursor"`
	Reason string `json:"reason"`
}

// Rejection reasons.
const (
	RejectEmpty       = "empty"
	RejectNotAwaiting = "not_awaiting"
	RejectClosed      = "closed"
)

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the goroutine that caused the transition and
// must not call back into the session.
type LifecycleHooks struct {
	OnSessionStart       func(context.Context, *SessionEvent)
	OnTurnRevealed       func(context.Context, *TurnEvent)
	OnAwaitingHuman      func(context.Context, *TurnEvent)
	OnSubmissionRejected func(context.Context, *SubmissionEvent)
	OnSessionFinished    func(context.Context, *SessionEvent)
	OnSessionClosed      func(context.Context, *SessionEvent)
}

// ChainHooks combines several hook sets; each callback runs in order.
func ChainHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		out.OnSessionStart = chain(out.OnSessionStart, h.OnSessionStart)
		out.OnTurnRevealed = chain(out.OnTurnRevealed, h.OnTurnRevealed)
		out.OnAwaitingHuman = chain(out.OnAwaitingHuman, h.OnAwaitingHuman)
		out.OnSubmissionRejected = chain(out.OnSubmissionRejected, h.OnSubmissionRejected)
		out.OnSessionFinished = chain(out.OnSessionFinished, h.OnSessionFinished)
		out.OnSessionClosed = chain(out.OnSessionClosed, h.OnSessionClosed)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
