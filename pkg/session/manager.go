package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/logging"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/google/uuid"
)

// ErrInvalidRequest is returned when a session request names an unknown
// practice role or mode.
var ErrInvalidRequest = errors.New("invalid session request")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Entry is a live session together with how it was set up.
type Entry struct {
	Session   *mootcourt.Session
	CaseID    string
	Role      string
	Mode      string
	CreatedAt time.Time
}

// Info is the serialisable summary of an Entry.
type Info struct {
	ID        string      `json:"id"`
	CaseID    string      `json:"case_id,omitempty"`
	ScriptID  string      `json:"script_id"`
	Role      string      `json:"role,omitempty"`
	Mode      domain.Mode `json:"mode"`
	Practice  string      `json:"practice,omitempty"`
	Cursor    int         `json:"cursor"`
	Total     int         `json:"total"`
	Finished  bool        `json:"finished"`
	CreatedAt time.Time   `json:"created_at"`
}

// Info summarises the entry.
func (e *Entry) Info() Info {
	snap := e.Session.Snapshot()
	return Info{
		ID:        snap.SessionID,
		CaseID:    e.CaseID,
		ScriptID:  snap.ScriptID,
		Role:      e.Role,
		Mode:      snap.Mode,
		Practice:  e.Mode,
		Cursor:    snap.Cursor,
		Total:     snap.Total,
		Finished:  snap.Finished,
		CreatedAt: e.CreatedAt,
	}
}

// Request describes a session to create from the catalog.
type Request struct {
	CaseID string `json:"case_id"`
	Role   string `json:"role,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// Manager owns the live sessions of a host.
// It uses Reference Counting to garbage collect unused per-session locks.
type Manager struct {
	catalog *cases.Catalog

	mu       sync.Mutex            // Global lock for the maps
	sessions map[string]*Entry     // Live sessions by ID
	locks    map[string]*lockEntry // Map of active locks

	limit       int
	sessionOpts []mootcourt.Option
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager and the sessions it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLimit caps the number of live sessions (0 means unlimited).
func WithLimit(n int) Option {
	return func(m *Manager) {
		m.limit = n
	}
}

// WithSessionOptions appends options applied to every created session.
func WithSessionOptions(opts ...mootcourt.Option) Option {
	return func(m *Manager) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// NewManager creates a new Session Manager backed by the given catalog.
func NewManager(catalog *cases.Catalog, opts ...Option) *Manager {
	m := &Manager{
		catalog:  catalog,
		sessions: make(map[string]*Entry),
		locks:    make(map[string]*lockEntry),
		now:      time.Now,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the case catalog sessions are created from.
func (m *Manager) Catalog() *cases.Catalog {
	return m.catalog
}

// Create starts a hearing for a catalog case.
func (m *Manager) Create(ctx context.Context, req Request) (*Entry, error) {
	if m.catalog == nil {
		return nil, fmt.Errorf("%w: no catalog configured", domain.ErrCaseNotFound)
	}
	if req.Role != "" {
		if _, ok := m.catalog.Role(req.Role); !ok {
			return nil, fmt.Errorf("%w: unknown practice role %q", ErrInvalidRequest, req.Role)
		}
	}
	if req.Mode != "" {
		if _, ok := m.catalog.Mode(req.Mode); !ok {
			return nil, fmt.Errorf("%w: unknown practice mode %q", ErrInvalidRequest, req.Mode)
		}
	}

	script, err := m.catalog.Script(req.CaseID)
	if err != nil {
		return nil, err
	}
	return m.start(ctx, script, req)
}

// CreateFromScript starts a hearing for an ad-hoc script.
func (m *Manager) CreateFromScript(ctx context.Context, script domain.Script) (*Entry, error) {
	return m.start(ctx, script, Request{})
}

func (m *Manager) start(ctx context.Context, script domain.Script, req Request) (*Entry, error) {
	id := uuid.NewString()

	m.mu.Lock()
	if m.limit > 0 && len(m.sessions) >= m.limit {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w (%d live sessions)", domain.ErrSessionLimit, m.limit)
	}
	// Reserve the slot so concurrent creates respect the limit.
	m.sessions[id] = nil
	m.mu.Unlock()

	opts := append([]mootcourt.Option{
		mootcourt.WithLogger(m.logger.With("case", req.CaseID)),
	}, m.sessionOpts...)
	opts = append(opts, mootcourt.WithSessionID(id), mootcourt.WithContext(ctx))

	s, err := mootcourt.Prepare(script, opts...)
	if err != nil {
		m.forget(id)
		return nil, err
	}

	entry := &Entry{
		Session:   s,
		CaseID:    req.CaseID,
		Role:      req.Role,
		Mode:      req.Mode,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = entry
	m.mu.Unlock()

	if err := s.Start(ctx); err != nil {
		m.forget(id)
		return nil, err
	}

	m.logger.Info("session created", "session_id", id, "case", req.CaseID, "script", script.ID)
	return entry, nil
}

func (m *Manager) forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok || entry == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return entry, nil
}

// List returns a summary of every live session, oldest first.
func (m *Manager) List() []Info {
	m.mu.Lock()
	entries := make([]*Entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		if e != nil {
			entries = append(entries, e)
		}
	}
	m.mu.Unlock()

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Info())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Submit forwards a submission to a live session.
// The boolean reports whether the engine accepted it.
func (m *Manager) Submit(ctx context.Context, id, text string) (bool, error) {
	var accepted bool
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		entry, err := m.Get(id)
		if err != nil {
			return err
		}
		accepted = entry.Session.Submit(text)
		return nil
	})
	return accepted, err
}

// Close tears a session down and removes it from the registry.
func (m *Manager) Close(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		entry, ok := m.sessions[id]
		if ok && entry != nil {
			delete(m.sessions, id)
		}
		m.mu.Unlock()

		if !ok || entry == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		entry.Session.Close()
		m.logger.Info("session closed", "session_id", id)
		return nil
	})
}

// CloseAll tears every live session down.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id, e := range m.sessions {
		if e != nil {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		if err := m.Close(ctx, id); err != nil {
			m.logger.Debug("close during shutdown", "session_id", id, "err", err)
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
