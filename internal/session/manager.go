package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is a snapshot of one browser session.
type State struct {
	Identity string
	Cursor   int
}

// Identified reports whether the session has established an identity.
func (s State) Identified() bool {
	return s.Identity != ""
}

type entry struct {
	state     State
	expiresAt time.Time
}

// Manager owns all in-memory session state. Safe for concurrent use.
type Manager struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	sessions map[string]*entry
}

// NewManager creates a manager whose sessions expire after ttl of inactivity.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Establish binds an identity to a session and resets its cursor to zero.
// An unknown or empty token gets a fresh one. The returned token is what
// the caller should hand back to the browser.
func (m *Manager) Establish(token, identity string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	ent, ok := m.sessions[token]
	if !ok {
		token = uuid.NewString()
		ent = &entry{}
		m.sessions[token] = ent
	}
	ent.state = State{Identity: identity, Cursor: 0}
	ent.expiresAt = m.now().Add(m.ttl)
	return token
}

// Lookup returns the session state for a token. Expired or unknown tokens
// miss. A hit refreshes the expiry.
func (m *Manager) Lookup(token string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.liveLocked(token)
	if !ok {
		return State{}, false
	}
	ent.expiresAt = m.now().Add(m.ttl)
	return ent.state, true
}

// AdvanceCursor increments the session's cursor by exactly one and returns
// the new value.
func (m *Manager) AdvanceCursor(token string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.liveLocked(token)
	if !ok {
		return 0, false
	}
	ent.state.Cursor++
	ent.expiresAt = m.now().Add(m.ttl)
	return ent.state.Cursor, true
}

// Drop destroys a session.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()
	return len(m.sessions)
}

func (m *Manager) liveLocked(token string) (*entry, bool) {
	ent, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if m.now().After(ent.expiresAt) {
		delete(m.sessions, token)
		return nil, false
	}
	return ent, true
}

func (m *Manager) purgeLocked() {
	now := m.now()
	for token, ent := range m.sessions {
		if now.After(ent.expiresAt) {
			delete(m.sessions, token)
		}
	}
}
