package runtime

import (
	"strings"
	"sync"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// Gate is the human input side of a session: a transient draft buffer bound
// to the engine's pending human turn.
type Gate struct {
	engine *Engine

	mu    sync.Mutex
	draft string
}

// NewGate binds a gate to an engine.
func NewGate(e *Engine) *Gate {
	return &Gate{engine: e}
}

// SetDraft replaces the draft buffer.
func (g *Gate) SetDraft(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.draft = text
}

// Draft returns the draft buffer.
func (g *Gate) Draft() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draft
}

// IsHumanTurn reports whether the engine is waiting for the participant.
func (g *Gate) IsHumanTurn() bool {
	return g.engine.Prompt() != ""
}

// Prompt returns the instruction to show next to the input control.
func (g *Gate) Prompt() string {
	if p := g.engine.Prompt(); p != "" {
		return p
	}
	return domain.WaitingPrompt
}

// CanSubmit reports whether Submit would currently be accepted.
func (g *Gate) CanSubmit() bool {
	return g.IsHumanTurn() && strings.TrimSpace(g.Draft()) != ""
}

// Submit hands the draft to the engine. The draft is cleared only when the
// submission is accepted.
func (g *Gate) Submit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.engine.Submit(g.draft) {
		return false
	}
	g.draft = ""
	return true
}

// SubmitText stores text as the draft and submits it.
func (g *Gate) SubmitText(text string) bool {
	g.SetDraft(text)
	return g.Submit()
}
