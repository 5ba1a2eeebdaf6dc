// Package session holds the process-lifetime current-identity state. Each
// confirmed OTP establishes a session entry keyed by the session ID embedded
// in the bearer token; consumers observe identity changes through explicit
// subscriptions instead of ambient listeners.
package session

import (
	"sync"
	"time"

	"github.com/yaduvivaah/agent-portal-api/internal/model"
)

// EventType classifies an identity-change event.
type EventType string

const (
	EventLogin          EventType = "login"
	EventLogout         EventType = "logout"
	EventProfileRefresh EventType = "profile_refresh"
)

// Event describes an identity change delivered to subscribers.
type Event struct {
	Type          EventType
	IdentityToken string
	Agent         *model.Agent
}

// Session is an authenticated agent session. It caches the agent record so
// request handling does not refetch it; the cache is refreshed whenever the
// profile is updated.
type Session struct {
	IdentityToken string
	Agent         *model.Agent
	CreatedAt     time.Time
}

// Manager owns all live sessions. Sessions are never persisted; they are
// discarded on logout or process end.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	subscribers map[int]func(Event)
	nextSubID   int
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		subscribers: make(map[int]func(Event)),
	}
}

// Establish records a new session and notifies subscribers of the login.
func (m *Manager) Establish(sessionID, identityToken string, agent *model.Agent) {
	m.mu.Lock()
	m.sessions[sessionID] = &Session{
		IdentityToken: identityToken,
		Agent:         agent,
		CreatedAt:     time.Now(),
	}
	m.mu.Unlock()

	m.publish(Event{Type: EventLogin, IdentityToken: identityToken, Agent: agent})
}

// Lookup returns the session for sessionID, or nil when none exists.
func (m *Manager) Lookup(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID]
}

// Refresh replaces the cached agent record on every session belonging to the
// identity and notifies subscribers.
func (m *Manager) Refresh(identityToken string, agent *model.Agent) {
	m.mu.Lock()
	for _, s := range m.sessions {
		if s.IdentityToken == identityToken {
			s.Agent = agent
		}
	}
	m.mu.Unlock()

	m.publish(Event{Type: EventProfileRefresh, IdentityToken: identityToken, Agent: agent})
}

// Destroy removes the session and notifies subscribers of the logout. It is
// a no-op for unknown session IDs.
func (m *Manager) Destroy(sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if ok {
		m.publish(Event{Type: EventLogout, IdentityToken: s.IdentityToken})
	}
}

// Subscribe registers fn for identity-change events and returns a function
// that tears the subscription down.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish(event Event) {
	m.mu.RLock()
	fns := make([]func(Event), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(event)
	}
}
