package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/testutils"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/observability"
)

func hearing() domain.Script {
	return domain.Script{ID: "hearing", Turns: []domain.Turn{
		{ID: "1", Speaker: domain.SpeakerJudge, Content: "Proceed."},
		{ID: "2", Speaker: domain.SpeakerHuman, Prompt: "Argue"},
		{ID: "3", Speaker: domain.SpeakerProsecution, Content: "Rebuttal."},
	}}
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	clock := testutils.NewManualClock()

	completed, err := mootcourt.New(hearing(),
		mootcourt.WithClock(clock),
		mootcourt.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)
	abandoned, err := mootcourt.New(hearing(),
		mootcourt.WithClock(clock),
		mootcourt.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsStarted.WithLabelValues("hearing")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveSessions))

	assert.False(t, completed.Submit(" "))
	clock.Advance(45 * time.Second)
	require.True(t, completed.Submit("The alibi stands."))
	clock.Advance(2 * time.Second)
	require.True(t, completed.Finished())

	completed.Close()
	abandoned.Close()
	abandoned.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsFinished.WithLabelValues("hearing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsClosed.WithLabelValues(observability.OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsClosed.WithLabelValues(observability.OutcomeAbandoned)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TurnsRevealed.WithLabelValues(string(domain.SpeakerJudge))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TurnsRevealed.WithLabelValues(string(domain.SpeakerHuman))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmissionsRejected.WithLabelValues(domain.RejectEmpty)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResponseLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	s, err := mootcourt.New(hearing(), mootcourt.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mootcourt_sessions_started_total{script="hearing"} 1`)
	assert.Contains(t, string(body), "mootcourt_sessions_active 1")
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := mootcourt.New(hearing(),
		mootcourt.WithThinkingDelay(0),
		mootcourt.WithLifecycleHooks(observability.LoggingHooks(logger)),
		mootcourt.WithContext(context.Background()),
	)
	require.NoError(t, err)
	require.True(t, s.Submit("argument"))
	s.Close()

	out := buf.String()
	for _, msg := range []string{"session started", "turn revealed", "awaiting participant", "session finished", "session closed"} {
		assert.Contains(t, out, msg)
	}
}
