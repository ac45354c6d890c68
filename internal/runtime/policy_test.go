package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/mootcourt/internal/runtime"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThinkingPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    runtime.ThinkingPolicy
		wantErr bool
	}{
		{name: "", want: runtime.PerTurnPolicy{Duration: time.Second}},
		{name: "per-turn", want: runtime.PerTurnPolicy{Duration: time.Second}},
		{name: " Per-Run ", want: runtime.PerRunPolicy{Duration: time.Second}},
		{name: "combined", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runtime.NewThinkingPolicy(tt.name, time.Second)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThinkingPolicies_Delay(t *testing.T) {
	script := domain.Script{Turns: []domain.Turn{
		{ID: "0", Speaker: domain.SpeakerJudge, Content: "opens"},
		{ID: "1", Speaker: domain.SpeakerCoJudge1, Content: "asks"},
		{ID: "2", Speaker: domain.SpeakerHuman},
		{ID: "3", Speaker: domain.SpeakerClerk, Content: "notes"},
		{ID: "4", Speaker: domain.SpeakerProsecution, Content: "rebuts"},
		{ID: "5", Speaker: domain.SpeakerRespondent, Content: "pleads"},
	}}

	perTurn := runtime.PerTurnPolicy{Duration: delay}
	perRun := runtime.PerRunPolicy{Duration: delay}

	tests := []struct {
		cursor  int
		perTurn time.Duration
		perRun  time.Duration
	}{
		{cursor: 1, perTurn: delay, perRun: delay},
		{cursor: 3, perTurn: 0, perRun: 0},
		{cursor: 4, perTurn: delay, perRun: delay},
		{cursor: 5, perTurn: delay, perRun: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.perTurn, perTurn.Delay(script, tt.cursor), "per-turn cursor %d", tt.cursor)
		assert.Equal(t, tt.perRun, perRun.Delay(script, tt.cursor), "per-run cursor %d", tt.cursor)
	}
}

func TestEngine_PerRunPolicy(t *testing.T) {
	script := domain.Script{Turns: []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerJudge, Content: "A"},
		{ID: "2", Speaker: domain.SpeakerCoJudge1, Content: "B"},
		{ID: "3", Speaker: domain.SpeakerCoJudge2, Content: "C"},
		{ID: "4", Speaker: domain.SpeakerHuman},
		{ID: "5", Speaker: domain.SpeakerProsecution, Content: "D"},
		{ID: "6", Speaker: domain.SpeakerJudge, Content: "E"},
	}}
	e, clock := newEngine(t, script, runtime.WithThinkingPolicy(runtime.PerRunPolicy{Duration: delay}))
	require.NoError(t, e.Start(context.Background()))

	assert.Equal(t, []string{"A"}, contents(e.Snapshot().Transcript))
	clock.Advance(delay)
	assert.Equal(t, []string{"A", "B", "C"}, contents(e.Snapshot().Transcript), "the run shares one delay")
	assert.True(t, e.Snapshot().AwaitingHuman)

	require.True(t, e.Submit("X"))
	assert.True(t, e.Snapshot().Thinking)
	clock.Advance(delay)
	assert.Equal(t, []string{"A", "B", "C", "X", "D", "E"}, contents(e.Snapshot().Transcript))
	assert.True(t, e.Finished())
}
