package services

import (
	"sync"
	"time"

	"github.com/nyayalabs/nyaya-cli/internal/core/domain"
)

// DefaultMaxTurns bounds the number of turns kept per session.
// Oldest turns are discarded first once the bound is reached.
const DefaultMaxTurns = 50

// SessionHistory is the ordered log of completed turns for one session.
// It is mutated only by appending after a completed exchange.
type SessionHistory struct {
	mu       sync.Mutex
	turns    []domain.Turn
	maxTurns int
}

// Turns returns a copy of the session's turns in creation order.
func (h *SessionHistory) Turns() []domain.Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]domain.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *SessionHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// append records a completed turn, discarding the oldest turn when the
// bound is reached.
func (h *SessionHistory) append(t domain.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, t)
	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

// HistoryRegistry is the process-wide registry of session histories,
// keyed by opaque session id. Histories are created lazily on first
// reference and live until cleared. Access is safe across sessions;
// operations on different keys never interfere.
type HistoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*SessionHistory
	maxTurns int
}

// RegistryOption configures the history registry.
type RegistryOption func(*HistoryRegistry)

// WithMaxTurns sets the per-session turn bound. Zero disables the bound.
func WithMaxTurns(n int) RegistryOption {
	return func(r *HistoryRegistry) {
		if n >= 0 {
			r.maxTurns = n
		}
	}
}

// NewHistoryRegistry creates an empty history registry.
func NewHistoryRegistry(opts ...RegistryOption) *HistoryRegistry {
	r := &HistoryRegistry{
		sessions: make(map[string]*SessionHistory),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the history for the given session id, creating
// it if the id has not been seen before.
func (r *HistoryRegistry) GetOrCreate(sessionID string) *SessionHistory {
	r.mu.RLock()
	h, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.sessions[sessionID]; ok {
		return h
	}
	h = &SessionHistory{maxTurns: r.maxTurns}
	r.sessions[sessionID] = h
	return h
}

// Append records a completed (query, answer) exchange for the session.
func (r *HistoryRegistry) Append(sessionID, query, answer string) {
	r.GetOrCreate(sessionID).append(domain.Turn{
		Query:  query,
		Answer: answer,
		At:     time.Now(),
	})
}

// Clear removes a session's history entirely, reporting whether a
// history existed.
func (r *HistoryRegistry) Clear(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	return ok
}

// Sessions returns the number of live sessions.
func (r *HistoryRegistry) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
