package poller

import "sync"

// Canceller is the surface the Manager tracks for a live handle.
type Canceller interface {
	Cancel()
}

// Manager is the arena of live poll handles indexed by view identity. Starting
// a view that already has a handle cancels the old one first, so a parameter
// change (a different module id under the same view) always begins a fresh
// cycle with fresh state.
type Manager struct {
	mu      sync.Mutex
	handles map[string]Canceller
}

// NewManager builds an empty arena.
func NewManager() *Manager {
	return &Manager{handles: make(map[string]Canceller)}
}

// Track registers the handle for a view, cancelling any previous one.
func (m *Manager) Track(view string, h Canceller) {
	m.mu.Lock()
	prev := m.handles[view]
	m.handles[view] = h
	m.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
}

// Stop cancels and forgets the handle for a view, if any.
func (m *Manager) Stop(view string) {
	m.mu.Lock()
	h := m.handles[view]
	delete(m.handles, view)
	m.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}

// StopAll tears down every live handle. Used on shutdown so no timer leaks.
func (m *Manager) StopAll() {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[string]Canceller)
	m.mu.Unlock()

	for _, h := range handles {
		h.Cancel()
	}
}
