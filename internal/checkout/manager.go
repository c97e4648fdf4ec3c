package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("checkout session not found")

// Manager holds the live checkout sessions in memory, keyed by session ID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Machine
	touched  map[string]time.Time
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Machine),
		touched:  make(map[string]time.Time),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Put registers a machine and returns its generated session ID.
func (m *Manager) Put(machine *Machine) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.sessions[id] = machine
	m.touched[id] = m.now()
	return id
}

// Get returns the machine for a session ID and refreshes its idle timer.
func (m *Manager) Get(id string) (*Machine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	machine, exists := m.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	m.touched[id] = m.now()
	return machine, nil
}

// Delete discards a session. Closing the dialog has no other side effect;
// the draft simply disappears.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	delete(m.touched, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// ExpireIdle discards sessions idle for longer than ttl and returns how
// many were removed. Redirecting sessions are expired too - the draft is
// already superseded by the success view.
func (m *Manager) ExpireIdle(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-ttl)
	var removed int
	for id, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.touched, id)
			removed++
		}
	}
	return removed
}
