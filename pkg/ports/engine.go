package ports

import "github.com/aretw0/mootcourt/pkg/domain"

// Session defines a live hearing as seen by a host.
// This is the primary interface used by adapters (terminal, HTTP, MCP) that render
// the transcript and forward the participant's submissions.
type Session interface {
	// ID returns the session identifier.
	ID() string

	// Script returns the read-only script the session plays.
	Script() domain.Script

	// Snapshot returns a copy of the current transcript, cursor and mode.
	Snapshot() *domain.Snapshot

	// Submit offers the participant's response for the pending human turn.
	// It returns false when the submission was rejected (empty, or not the human's turn).
	Submit(text string) bool

	// Subscribe returns a channel of stream events and a function to cancel the subscription.
	Subscribe() (<-chan domain.Event, func())

	// Done is closed when the script has been exhausted.
	Done() <-chan struct{}

	// Finished reports whether the session reached its terminal state.
	Finished() bool

	// Close tears the session down and cancels any pending reveal.
	Close()
}
