package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/runtime"
	"github.com/aretw0/mootcourt/internal/testutils"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *testutils.ManualClock) {
	t.Helper()
	clock := testutils.NewManualClock()
	opts = append(opts, session.WithSessionOptions(mootcourt.WithClock(clock)))
	m := session.NewManager(cases.MustDefault(), opts...)
	t.Cleanup(func() { m.CloseAll(context.Background()) })
	return m, clock
}

func TestManager_Create(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	entry, err := m.Create(ctx, session.Request{CaseID: "royal-park-murder", Role: "defense", Mode: "guided"})
	require.NoError(t, err)

	snap := entry.Session.Snapshot()
	assert.Equal(t, "royal-park-murder", snap.ScriptID)
	assert.Len(t, snap.Transcript, 1)
	assert.True(t, snap.AwaitingHuman)
	assert.Equal(t, "Enter your opening argument as Defense Counsel.", snap.Prompt)

	got, err := m.Get(entry.Session.ID())
	require.NoError(t, err)
	assert.Same(t, entry, got)

	infos := m.List()
	require.Len(t, infos, 1)
	assert.Equal(t, "guided", infos[0].Practice)
	assert.Equal(t, domain.ModeAwaitingHuman, infos[0].Mode)
}

func TestManager_CreateErrors(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, session.Request{CaseID: "white-flag"})
	assert.ErrorIs(t, err, domain.ErrCaseNotFound, "cases without a hearing cannot be played")

	_, err = m.Create(ctx, session.Request{CaseID: "royal-park-murder", Role: "judge"})
	assert.ErrorIs(t, err, session.ErrInvalidRequest)

	_, err = m.Create(ctx, session.Request{CaseID: "royal-park-murder", Mode: "speedrun"})
	assert.ErrorIs(t, err, session.ErrInvalidRequest)

	_, err = m.CreateFromScript(ctx, domain.Script{})
	assert.ErrorIs(t, err, domain.ErrEmptyScript)
	assert.Equal(t, 0, m.Len(), "failed creates release their slot")
}

func TestManager_Limit(t *testing.T) {
	m, _ := newManager(t, session.WithLimit(2))
	ctx := context.Background()
	req := session.Request{CaseID: "royal-park-murder"}

	first, err := m.Create(ctx, req)
	require.NoError(t, err)
	_, err = m.Create(ctx, req)
	require.NoError(t, err)

	_, err = m.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrSessionLimit)

	require.NoError(t, m.Close(ctx, first.Session.ID()))
	_, err = m.Create(ctx, req)
	assert.NoError(t, err)
}

func TestManager_SubmitAndClose(t *testing.T) {
	m, clock := newManager(t)
	ctx := context.Background()

	entry, err := m.Create(ctx, session.Request{CaseID: "royal-park-murder"})
	require.NoError(t, err)
	id := entry.Session.ID()

	ok, err := m.Submit(ctx, id, "   ")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Submit(ctx, id, "The injuries were not premeditated.")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Close(ctx, id))
	clock.Advance(runtime.DefaultThinkingDelay)
	assert.Len(t, entry.Session.Snapshot().Transcript, 2, "closed sessions stop revealing")

	_, err = m.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = m.Submit(ctx, id, "late")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(ctx, id), domain.ErrSessionNotFound)
}

func TestManager_ConcurrentSubmissions(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	entry, err := m.Create(ctx, session.Request{CaseID: "royal-park-murder"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Submit(ctx, entry.Session.ID(), "My Lords")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted, "only one submission fills the pending turn")
	assert.Len(t, entry.Session.Snapshot().Transcript, 2)
}

func TestManager_CloseAll(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Create(ctx, session.Request{CaseID: "royal-park-murder"})
		require.NoError(t, err)
	}
	m.CloseAll(ctx)
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.List())
}
