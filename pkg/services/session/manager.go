package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned when an operation references a session
// id the manager does not hold.
var ErrSessionNotFound = errors.New("session not found")

// Session is one interactive remediation session: an exclusive working
// copy of the original snapshot that accumulates edits until the
// session is discarded.
type Session struct {
	ID        string
	CreatedAt time.Time
	working   *domain.ResourceTable
}

// Manager owns the immutable original snapshot and hands out
// independent working copies. The mutex guards only the registry map
// and working-table pointer swaps; each session is driven by a single
// interactive surface, so there is no per-row locking.
type Manager struct {
	engine   *compliance.Engine
	original *domain.ResourceTable

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(engine *compliance.Engine, original *domain.ResourceTable) *Manager {
	return &Manager{
		engine:   engine,
		original: original,
		sessions: make(map[string]*Session),
	}
}

// Original returns the immutable load-time snapshot. Callers must treat
// it as read-only; edits only ever apply to working copies.
func (m *Manager) Original() *domain.ResourceTable {
	return m.original
}

// Create seeds a new session with an exact duplicate of the original
// table.
func (m *Manager) Create(ctx context.Context) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		working:   m.original.Clone(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	zerolog.Ctx(ctx).Info().Str("session", s.ID).Int("rows", m.original.Len()).Msg("session created")
	return s
}

// Working returns the current edit-accumulating table of a session.
func (m *Manager) Working(id string) (*domain.ResourceTable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.working, nil
}

// Delete discards a session and its working copy.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	zerolog.Ctx(ctx).Info().Str("session", id).Msg("session discarded")
	return nil
}

// ApplyEdits routes a batch through the engine and swaps in the new
// working table. The swap happens only after the engine returns, so a
// failing batch leaves the session on its prior table.
func (m *Manager) ApplyEdits(ctx context.Context, id string, batch domain.EditBatch) (domain.ApplyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return domain.ApplyResult{}, ErrSessionNotFound
	}

	next, result := m.engine.ApplyEdits(ctx, s.working, batch)
	s.working = next

	zerolog.Ctx(ctx).Info().
		Str("session", id).
		Int("applied", result.Applied).
		Int("ignored", len(result.Ignored)).
		Msg("edit batch applied")
	return result, nil
}

// Compare computes before/after metrics for a session under one filter
// set.
func (m *Manager) Compare(id string, fs domain.FilterSet) (domain.Comparison, error) {
	working, err := m.Working(id)
	if err != nil {
		return domain.Comparison{}, err
	}
	return m.engine.CompareBeforeAfter(m.original, working, fs), nil
}
