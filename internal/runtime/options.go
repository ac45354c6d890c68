package runtime

import (
	"log/slog"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithThinkingPolicy replaces the default per-turn thinking delay.
func WithThinkingPolicy(p ThinkingPolicy) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithClock injects the time source used for thinking delays.
func WithClock(c ports.Clock) EngineOption {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithSessionID fixes the session identifier (default: a random UUID).
func WithSessionID(id string) EngineOption {
	return func(e *Engine) {
		e.id = id
	}
}
