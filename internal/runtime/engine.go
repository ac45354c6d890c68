package runtime

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the turn reveal state machine of one session.
// It walks the script in order, schedules thinking delays through its Clock,
// suspends on human turns and reports completion exactly once.
//
// All state transitions happen under a single mutex. Lifecycle hooks run while
// that mutex is held and must not call back into the engine.
type Engine struct {
	id     string
	script domain.Script
	policy ThinkingPolicy
	clock  ports.Clock
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu            sync.Mutex
	ctx           context.Context
	mode          domain.Mode
	cursor        int
	transcript    []domain.Turn
	thinking      bool
	pending       *reveal
	closed        bool
	awaitingSince time.Time
	subs          map[int]chan domain.Event
	nextSub       int
	done          chan struct{}
}

// reveal is the single pending delayed reveal. It carries the cursor it was
// scheduled for so a late firing can be recognised and discarded.
type reveal struct {
	cursor int
	delay  time.Duration
	timer  ports.Timer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// NewEngine creates an idle engine for the given script.
// It fails fast with domain.ErrEmptyScript when the script has no turns.
func NewEngine(script domain.Script, opts ...EngineOption) (*Engine, error) {
	if script.Len() == 0 {
		return nil, domain.ErrEmptyScript
	}

	e := &Engine{
		script: script,
		policy: PerTurnPolicy{Duration: DefaultThinkingDelay},
		clock:  ports.SystemClock(),
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		ctx:    context.Background(),
		mode:   domain.ModeIdle,
		subs:   make(map[int]chan domain.Event),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.id == "" {
		e.id = uuid.NewString()
	}
	e.logger = e.logger.With("session_id", e.id, "script", script.ID)

	return e, nil
}

// ID returns the session identifier.
func (e *Engine) ID() string {
	return e.id
}

// Script returns the script the engine plays.
func (e *Engine) Script() domain.Script {
	return e.script
}

// Start leaves Idle and reveals the first turn synchronously.
// If the first turn belongs to the human, the engine suspends immediately
// with an empty transcript. The context is only used to carry values to hooks;
// cancelling it does not close the session.
func (e *Engine) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrSessionClosed
	}
	if e.mode != domain.ModeIdle {
		return domain.ErrAlreadyStarted
	}

	e.ctx = context.WithoutCancel(ctx)
	e.mode = domain.ModeRevealing
	e.logger.Debug("session started", "turns", e.script.Len())

	if e.hooks.OnSessionStart != nil {
		e.hooks.OnSessionStart(e.ctx, &domain.SessionEvent{
			EventBase: e.base(domain.EventSessionStart),
			ScriptID:  e.script.ID,
			Turns:     e.script.Len(),
		})
	}

	first := e.script.Turns[0]
	if e.script.IsHuman(first) {
		e.awaitHuman()
		return nil
	}

	e.appendTurn(first, 0, 0)
	e.advance()
	return nil
}

// advance walks forward from the current cursor until it must wait for a
// thinking delay, a human submission or the end of the script.
// Zero-delay turns chain synchronously. Caller must hold e.mu.
func (e *Engine) advance() {
	for {
		if e.cursor >= e.script.Len() {
			e.finish()
			return
		}

		turn := e.script.Turns[e.cursor]
		if e.script.IsHuman(turn) {
			e.awaitHuman()
			return
		}

		delay := e.policy.Delay(e.script, e.cursor)
		if delay > 0 {
			e.schedule(e.cursor, delay)
			return
		}
		e.appendTurn(turn, 0, 0)
	}
}

// schedule arms the single pending reveal for the given cursor.
func (e *Engine) schedule(target int, delay time.Duration) {
	if e.pending != nil {
		e.pending.timer.Stop()
	}

	e.mode = domain.ModeRevealing
	e.setThinking(true)

	p := &reveal{cursor: target, delay: delay}
	p.timer = e.clock.AfterFunc(delay, func() { e.fire(p) })
	e.pending = p

	e.logger.Debug("thinking", "cursor", target, "speaker", e.script.Turns[target].Speaker, "delay", delay)
}

// fire applies a delayed reveal unless it has gone stale.
func (e *Engine) fire(p *reveal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.pending != p || p.cursor != e.cursor || e.mode != domain.ModeRevealing {
		e.logger.Debug("discarding stale reveal", "target", p.cursor, "cursor", e.cursor, "closed", e.closed)
		return
	}

	e.pending = nil
	e.setThinking(false)
	e.appendTurn(e.script.Turns[p.cursor], p.delay, 0)
	e.advance()
}

// awaitHuman suspends the engine on the human turn at the cursor.
func (e *Engine) awaitHuman() {
	turn := e.script.Turns[e.cursor]
	e.mode = domain.ModeAwaitingHuman
	e.awaitingSince = e.clock.Now()

	prompt := turn.PromptOrDefault()
	e.emit(domain.Event{
		Type:          domain.EventAwaitingHumanChanged,
		AwaitingHuman: true,
		Prompt:        prompt,
	})
	e.logger.Debug("awaiting human", "cursor", e.cursor, "turn", turn.ID)

	if e.hooks.OnAwaitingHuman != nil {
		e.hooks.OnAwaitingHuman(e.ctx, &domain.TurnEvent{
			EventBase: e.base(domain.EventAwaitingHumanChanged),
			Cursor:    e.cursor,
			Turn:      turn,
			Human:     true,
		})
	}
}

// Submit offers the participant's response for the pending human turn.
// Empty text and submissions outside AwaitingHuman are rejected without any
// state change and reported as false.
func (e *Engine) Submit(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	switch {
	case e.closed:
		e.reject(domain.RejectClosed)
		return false
	case e.mode != domain.ModeAwaitingHuman:
		e.reject(domain.RejectNotAwaiting)
		return false
	case trimmed == "":
		e.reject(domain.RejectEmpty)
		return false
	}

	turn := e.script.Turns[e.cursor].WithContent(trimmed)
	waited := e.clock.Now().Sub(e.awaitingSince)

	e.mode = domain.ModeRevealing
	e.emit(domain.Event{Type: domain.EventAwaitingHumanChanged})
	e.appendTurn(turn, 0, waited)
	e.advance()
	return true
}

func (e *Engine) reject(reason string) {
	e.logger.Debug("submission rejected", "reason", reason, "mode", e.mode)
	if e.hooks.OnSubmissionRejected != nil {
		e.hooks.OnSubmissionRejected(e.ctx, &domain.SubmissionEvent{
			EventBase: e.base(domain.EventSubmissionRejected),
			Cursor:    e.cursor,
			Reason:    reason,
		})
	}
}

// appendTurn adds the turn at the cursor to the transcript and moves the cursor.
func (e *Engine) appendTurn(turn domain.Turn, delay, waited time.Duration) {
	index := e.cursor
	e.transcript = append(e.transcript, turn)
	e.cursor++

	t := turn
	e.emit(domain.Event{
		Type:       domain.EventTranscriptUpdated,
		Turn:       &t,
		Transcript: append([]domain.Turn(nil), e.transcript...),
	})

	if e.hooks.OnTurnRevealed != nil {
		e.hooks.OnTurnRevealed(e.ctx, &domain.TurnEvent{
			EventBase: e.base(domain.EventTurnRevealed),
			Cursor:    index,
			Turn:      turn,
			Human:     e.script.IsHuman(turn),
			Delay:     delay,
			Waited:    waited,
		})
	}
}

// finish enters the terminal state. It runs at most once per session.
func (e *Engine) finish() {
	if e.mode == domain.ModeFinished {
		return
	}
	e.mode = domain.ModeFinished
	close(e.done)

	e.emit(domain.Event{Type: domain.EventSessionFinished})
	e.closeSubscribers()
	e.logger.Info("session finished", "turns", len(e.transcript))

	if e.hooks.OnSessionFinished != nil {
		e.hooks.OnSessionFinished(e.ctx, &domain.SessionEvent{
			EventBase: e.base(domain.EventSessionFinished),
			ScriptID:  e.script.ID,
			Turns:     e.script.Len(),
			Revealed:  len(e.transcript),
		})
	}
}

func (e *Engine) setThinking(v bool) {
	if e.thinking == v {
		return
	}
	e.thinking = v
	e.emit(domain.Event{Type: domain.EventThinkingChanged, Thinking: v})
}

// Close tears the session down. The pending reveal, if any, is cancelled and
// no later call can change the transcript. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	if e.pending != nil {
		e.pending.timer.Stop()
		e.pending = nil
	}
	e.thinking = false
	e.closeSubscribers()
	e.logger.Debug("session closed", "mode", e.mode, "cursor", e.cursor)

	if e.hooks.OnSessionClosed != nil {
		e.hooks.OnSessionClosed(e.ctx, &domain.SessionEvent{
			EventBase: e.base(domain.EventSessionClosed),
			ScriptID:  e.script.ID,
			Turns:     e.script.Len(),
			Revealed:  len(e.transcript),
		})
	}
}

// Subscribe registers a stream listener. The channel is buffered for every
// event the script can still produce, so the engine never blocks on it.
// It is closed when the session finishes or is closed.
func (e *Engine) Subscribe() (<-chan domain.Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan domain.Event, 4*e.script.Len()+8)
	if e.closed || e.mode == domain.ModeFinished {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

func (e *Engine) emit(ev domain.Event) {
	ev.SessionID = e.id
	ev.Timestamp = e.clock.Now()
	ev.Cursor = e.cursor
	for id, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			e.logger.Warn("subscriber buffer full, dropping event", "subscriber", id, "type", ev.Type)
		}
	}
}

func (e *Engine) closeSubscribers() {
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.clock.Now(),
		Type:      t,
		SessionID: e.id,
	}
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &domain.Snapshot{
		SessionID:     e.id,
		ScriptID:      e.script.ID,
		Mode:          e.mode,
		Cursor:        e.cursor,
		Total:         e.script.Len(),
		Transcript:    append([]domain.Turn{}, e.transcript...),
		Thinking:      e.thinking,
		AwaitingHuman: e.mode == domain.ModeAwaitingHuman && !e.closed,
		Finished:      e.mode == domain.ModeFinished,
		Closed:        e.closed,
	}
	if s.AwaitingHuman {
		s.Prompt = e.script.Turns[e.cursor].PromptOrDefault()
	}
	return s
}

// Mode returns the current engine mode.
func (e *Engine) Mode() domain.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Prompt returns the instruction for the pending human turn, or "" when none is pending.
func (e *Engine) Prompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != domain.ModeAwaitingHuman || e.closed {
		return ""
	}
	return e.script.Turns[e.cursor].PromptOrDefault()
}

// Done is closed the first time the engine enters Finished.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Finished reports whether the script has been exhausted.
func (e *Engine) Finished() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Closed reports whether the session was torn down.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
