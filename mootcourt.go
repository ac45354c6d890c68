package mootcourt

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/mootcourt/internal/runtime"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
)

// Session is the high-level entry point of the library.
// It wraps the internal engine and its input gate behind a simplified API.
type Session struct {
	engine *runtime.Engine
	gate   *runtime.Gate

	ctx       context.Context
	policy    ThinkingPolicy
	delay     *time.Duration
	clock     ports.Clock
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	sessionID string
}

var _ ports.Session = (*Session)(nil)

// ThinkingPolicy decides the deliberation before each automated turn.
type ThinkingPolicy = runtime.ThinkingPolicy

// PerTurn delays every deliberating turn by d. It is the default, with d = 2s.
func PerTurn(d time.Duration) ThinkingPolicy {
	return runtime.PerTurnPolicy{Duration: d}
}

// PerRun delays only the first deliberating turn of each automated run by d.
func PerRun(d time.Duration) ThinkingPolicy {
	return runtime.PerRunPolicy{Duration: d}
}

// Option defines a functional option for configuring a Session.
type Option func(*Session)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithThinkingPolicy replaces the per-turn thinking policy.
func WithThinkingPolicy(p ThinkingPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithThinkingDelay sets the per-turn thinking delay (default 2s).
// It is ignored when WithThinkingPolicy is also given.
func WithThinkingDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = &d
	}
}

// WithClock injects the time source used for thinking delays.
func WithClock(c ports.Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithSessionID fixes the session identifier.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.sessionID = id
	}
}

// WithContext sets the context handed to lifecycle hooks.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		s.ctx = ctx
	}
}

// New validates the script, constructs a session and starts playback.
// The first turn is revealed before New returns.
func New(script domain.Script, opts ...Option) (*Session, error) {
	s, err := Prepare(script, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(s.ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Prepare constructs an idle session without starting it, so callers can
// subscribe before the first turn is revealed.
func Prepare(script domain.Script, opts ...Option) (*Session, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	s := &Session{ctx: context.Background()}
	for _, opt := range opts {
		opt(s)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	policy := s.policy
	if policy == nil && s.delay != nil {
		policy = runtime.PerTurnPolicy{Duration: *s.delay}
	}

	engine, err := runtime.NewEngine(script,
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithThinkingPolicy(policy),
		runtime.WithClock(s.clock),
		runtime.WithSessionID(s.sessionID),
	)
	if err != nil {
		return nil, err
	}

	s.engine = engine
	s.gate = runtime.NewGate(engine)
	return s, nil
}

// Start begins playback of a prepared session.
func (s *Session) Start(ctx context.Context) error {
	return s.engine.Start(ctx)
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.engine.ID()
}

// Script returns the read-only script of the session.
func (s *Session) Script() domain.Script {
	return s.engine.Script()
}

// Snapshot returns a copy of the transcript, cursor and mode.
func (s *Session) Snapshot() *domain.Snapshot {
	return s.engine.Snapshot()
}

// Submit offers the participant's response. It returns false when the text is
// blank or the engine is not waiting for the participant.
func (s *Session) Submit(text string) bool {
	return s.gate.SubmitText(text)
}

// SetDraft replaces the participant's unsent draft.
func (s *Session) SetDraft(text string) {
	s.gate.SetDraft(text)
}

// Draft returns the participant's unsent draft.
func (s *Session) Draft() string {
	return s.gate.Draft()
}

// SubmitDraft submits the current draft.
func (s *Session) SubmitDraft() bool {
	return s.gate.Submit()
}

// CanSubmit reports whether the current draft would be accepted.
func (s *Session) CanSubmit() bool {
	return s.gate.CanSubmit()
}

// IsHumanTurn reports whether the session is waiting for the participant.
func (s *Session) IsHumanTurn() bool {
	return s.gate.IsHumanTurn()
}

// Prompt returns the instruction for the input control: the pending turn's
// prompt, or domain.WaitingPrompt while playback runs.
func (s *Session) Prompt() string {
	return s.gate.Prompt()
}

// Subscribe returns a channel of stream events and a cancel function.
func (s *Session) Subscribe() (<-chan domain.Event, func()) {
	return s.engine.Subscribe()
}

// Done is closed when the script has been exhausted.
func (s *Session) Done() <-chan struct{} {
	return s.engine.Done()
}

// Finished reports whether the script has been exhausted.
func (s *Session) Finished() bool {
	return s.engine.Finished()
}

// Close tears the session down and cancels any pending reveal.
func (s *Session) Close() {
	s.engine.Close()
}

// WaitSettled blocks until the session waits for the participant, finishes,
// is closed, or ctx is done. It returns the snapshot observed last.
func (s *Session) WaitSettled(ctx context.Context) (*domain.Snapshot, error) {
	events, cancel := s.engine.Subscribe()
	defer cancel()

	for {
		snap := s.engine.Snapshot()
		if snap.AwaitingHuman || snap.Finished || snap.Closed {
			return snap, nil
		}

		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case _, ok := <-events:
			if !ok {
				return s.engine.Snapshot(), nil
			}
		}
	}
}
