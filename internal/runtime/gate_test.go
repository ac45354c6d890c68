package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/mootcourt/internal/runtime"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	e, clock := newEngine(t, interleaved())
	gate := runtime.NewGate(e)

	assert.False(t, gate.IsHumanTurn())
	assert.Equal(t, domain.WaitingPrompt, gate.Prompt())

	require.NoError(t, e.Start(context.Background()))
	assert.True(t, gate.IsHumanTurn())
	assert.Equal(t, "Argue", gate.Prompt())

	t.Run("Blank Draft Cannot Be Submitted", func(t *testing.T) {
		gate.SetDraft("  \n ")
		assert.False(t, gate.CanSubmit())
		assert.False(t, gate.Submit())
		assert.Equal(t, "  \n ", gate.Draft(), "rejected drafts are kept")
		assert.Len(t, e.Snapshot().Transcript, 1)
	})

	t.Run("Accepted Draft Clears Buffer", func(t *testing.T) {
		gate.SetDraft("The injuries were not deliberate.")
		assert.True(t, gate.CanSubmit())
		assert.True(t, gate.Submit())
		assert.Equal(t, "", gate.Draft())
		assert.False(t, gate.IsHumanTurn())
		assert.Equal(t, domain.WaitingPrompt, gate.Prompt())
	})

	t.Run("Draft Outside Human Turn", func(t *testing.T) {
		gate.SetDraft("Objection!")
		assert.False(t, gate.CanSubmit())
		assert.False(t, gate.SubmitText("Objection!"))
		assert.Equal(t, "Objection!", gate.Draft())
	})

	clock.Advance(delay)
	assert.True(t, e.Finished())
	assert.False(t, gate.IsHumanTurn())
}
