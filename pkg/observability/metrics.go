package observability

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/mootcourt/pkg/domain"
)

// Close outcomes recorded by mootcourt_sessions_closed_total.
const (
	OutcomeCompleted = "completed"
	OutcomeAbandoned = "abandoned"
)

// Metrics records session activity as Prometheus collectors.
type Metrics struct {
	SessionsStarted     *prometheus.CounterVec
	SessionsFinished    *prometheus.CounterVec
	SessionsClosed      *prometheus.CounterVec
	TurnsRevealed       *prometheus.CounterVec
	SubmissionsRejected *prometheus.CounterVec
	ResponseLatency     prometheus.Histogram
	ThinkingDelay       prometheus.Histogram
	ActiveSessions      prometheus.Gauge

	gatherer prometheus.Gatherer

	mu       sync.Mutex
	sessions map[string]bool // session id -> finished
}

// NewMetrics creates the collectors and registers them on a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	m.gatherer = reg
	return m
}

// NewMetricsWith registers the collectors on reg, e.g. prometheus.DefaultRegisterer.
func NewMetricsWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := newMetrics(reg)
	m.gatherer = g
	return m
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mootcourt_sessions_started_total",
			Help: "Total number of sessions started",
		}, []string{"script"}),
		SessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mootcourt_sessions_finished_total",
			Help: "Total number of sessions that revealed their last turn",
		}, []string{"script"}),
		SessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mootcourt_sessions_closed_total",
			Help: "Total number of sessions torn down, by outcome",
		}, []string{"outcome"}),
		TurnsRevealed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mootcourt_turns_revealed_total",
			Help: "Total number of turns appended to transcripts",
		}, []string{"speaker"}),
		SubmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mootcourt_submissions_rejected_total",
			Help: "Total number of refused participant submissions",
		}, []string{"reason"}),
		ResponseLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mootcourt_human_response_seconds",
			Help:    "Time the participant took to answer a human turn",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		ThinkingDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mootcourt_thinking_delay_seconds",
			Help:    "Simulated deliberation before automated turns",
			Buckets: []float64{0, 0.5, 1, 2, 5},
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mootcourt_sessions_active",
			Help: "Sessions started and not yet closed",
		}),
		sessions: make(map[string]bool),
	}
	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsFinished,
		m.SessionsClosed,
		m.TurnsRevealed,
		m.SubmissionsRejected,
		m.ResponseLatency,
		m.ThinkingDelay,
		m.ActiveSessions,
	)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSessionStart: func(_ context.Context, e *domain.SessionEvent) {
			m.mu.Lock()
			m.sessions[e.SessionID] = false
			m.mu.Unlock()
			m.SessionsStarted.WithLabelValues(e.ScriptID).Inc()
			m.ActiveSessions.Inc()
		},
		OnTurnRevealed: func(_ context.Context, e *domain.TurnEvent) {
			m.TurnsRevealed.WithLabelValues(string(e.Turn.Speaker)).Inc()
			if e.Human {
				m.ResponseLatency.Observe(e.Waited.Seconds())
			} else if e.Cursor > 0 {
				m.ThinkingDelay.Observe(e.Delay.Seconds())
			}
		},
		OnSubmissionRejected: func(_ context.Context, e *domain.SubmissionEvent) {
			m.SubmissionsRejected.WithLabelValues(e.Reason).Inc()
		},
		OnSessionFinished: func(_ context.Context, e *domain.SessionEvent) {
			m.mu.Lock()
			if _, ok := m.sessions[e.SessionID]; ok {
				m.sessions[e.SessionID] = true
			}
			m.mu.Unlock()
			m.SessionsFinished.WithLabelValues(e.ScriptID).Inc()
		},
		OnSessionClosed: func(_ context.Context, e *domain.SessionEvent) {
			m.mu.Lock()
			finished, started := m.sessions[e.SessionID]
			delete(m.sessions, e.SessionID)
			m.mu.Unlock()
			if !started {
				return
			}
			m.ActiveSessions.Dec()
			outcome := OutcomeAbandoned
			if finished {
				outcome = OutcomeCompleted
			}
			m.SessionsClosed.WithLabelValues(outcome).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
