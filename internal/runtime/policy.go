package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// DefaultThinkingDelay is the simulated deliberation before an automated turn.
const DefaultThinkingDelay = 2000 * time.Millisecond

// Policy names accepted by NewThinkingPolicy.
const (
	PolicyPerTurn = "per-turn"
	PolicyPerRun  = "per-run"
)

// ThinkingPolicy decides how long the engine deliberates before revealing the
// automated turn at cursor. A zero delay reveals the turn synchronously.
type ThinkingPolicy interface {
	Delay(script domain.Script, cursor int) time.Duration
}

// PerTurnPolicy delays every deliberating turn by the same duration.
// Narration turns are never delayed.
type PerTurnPolicy struct {
	Duration time.Duration
}

// Delay implements ThinkingPolicy.
func (p PerTurnPolicy) Delay(script domain.Script, cursor int) time.Duration {
	if script.IsNarration(script.Turns[cursor]) {
		return 0
	}
	return p.Duration
}

// PerRunPolicy delays only the first deliberating turn of a consecutive run of
// automated turns; the rest of the run follows without a pause.
// A run starts at the beginning of the script or after a human turn.
type PerRunPolicy struct {
	Duration time.Duration
}

// Delay implements ThinkingPolicy.
func (p PerRunPolicy) Delay(script domain.Script, cursor int) time.Duration {
	if script.IsNarration(script.Turns[cursor]) {
		return 0
	}
	for i := cursor - 1; i > 0; i-- {
		prev := script.Turns[i]
		if script.IsHuman(prev) {
			break
		}
		if !script.IsNarration(prev) {
			return 0
		}
	}
	return p.Duration
}

// NewThinkingPolicy builds a policy by name. An empty name selects per-turn.
func NewThinkingPolicy(name string, d time.Duration) (ThinkingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPerTurn:
		return PerTurnPolicy{Duration: d}, nil
	case PolicyPerRun:
		return PerRunPolicy{Duration: d}, nil
	default:
		return nil, fmt.Errorf("unknown thinking policy %q (want %s or %s)", name, PolicyPerTurn, PolicyPerRun)
	}
}
