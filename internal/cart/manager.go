package cart

import (
	"sync"
	"time"
)

// cartEntry pairs a cart with its last-access time for idle eviction.
type cartEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// Manager is the process-wide registry of carts, keyed by browser-session
// ID. Carts are created empty on first access and evicted after the idle
// TTL -- deliberately not persisted, matching the session-scoped lifetime
// of the cart.
type Manager struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*cartEntry
}

// NewManager creates a cart manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		ttl:     ttl,
		entries: make(map[string]*cartEntry),
	}

	// Background cleanup of idle carts every few minutes.
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			m.evictIdle()
		}
	}()

	return m
}

// For returns the cart for the given browser session, creating an empty one
// on first access.
func (m *Manager) For(sid string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[sid]; ok {
		e.lastSeen = time.Now()
		return e.cart
	}

	c := New()
	m.entries[sid] = &cartEntry{cart: c, lastSeen: time.Now()}
	return c
}

// Drop removes a session's cart immediately (used on logout).
func (m *Manager) Drop(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
}

// evictIdle drops carts that have not been touched within the TTL.
func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	for sid, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, sid)
		}
	}
}
