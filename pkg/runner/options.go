package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithReport sets the markdown document presented after the last turn,
// typically the case's evaluation report.
func WithReport(markdown string) Option {
	return func(r *Runner) {
		r.Report = markdown
	}
}

// WithEmptyNotice overrides the message shown when a blank response is rejected.
func WithEmptyNotice(msg string) Option {
	return func(r *Runner) {
		r.EmptyNotice = msg
	}
}
