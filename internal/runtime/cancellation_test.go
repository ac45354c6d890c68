package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_CloseCancelsPendingReveal(t *testing.T) {
	script := domain.Script{Turns: []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerJudge, Content: "A"},
		{ID: "2", Speaker: domain.SpeakerProsecution, Content: "B"},
	}}
	e, clock := newEngine(t, script)
	events, _ := e.Subscribe()

	require.NoError(t, e.Start(context.Background()))
	require.True(t, e.Snapshot().Thinking)
	require.Equal(t, 1, clock.Pending())

	e.Close()
	assert.Equal(t, 0, clock.Pending(), "teardown cancels the timer")

	clock.Advance(time.Hour)
	snap := e.Snapshot()
	assert.Equal(t, []string{"A"}, contents(snap.Transcript))
	assert.True(t, snap.Closed)
	assert.False(t, snap.Thinking)
	assert.False(t, e.Finished())

	for range events {
	}
}

func TestEngine_StaleFiringIsDiscarded(t *testing.T) {
	script := domain.Script{Turns: []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerJudge, Content: "A"},
		{ID: "2", Speaker: domain.SpeakerProsecution, Content: "B"},
		{ID: "3", Speaker: domain.SpeakerJudge, Content: "C"},
	}}
	e, clock := newEngine(t, script)
	require.NoError(t, e.Start(context.Background()))

	e.Close()

	// A timer that raced its own cancellation must not mutate the session.
	assert.Equal(t, 1, clock.FireStopped())
	assert.Equal(t, []string{"A"}, contents(e.Snapshot().Transcript))
	assert.Equal(t, 1, e.Snapshot().Cursor)
}

func TestEngine_CloseWhileAwaitingHuman(t *testing.T) {
	e, _ := newEngine(t, interleaved())
	require.NoError(t, e.Start(context.Background()))

	e.Close()
	assert.False(t, e.Submit("late argument"))
	assert.Equal(t, "", e.Prompt())
	assert.False(t, e.Snapshot().AwaitingHuman)
	assert.Equal(t, []string{"Court opens"}, contents(e.Snapshot().Transcript))
}
