package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the browser-session cookie. It identifies the browser, not
// the user: the marketplace credential lives server-side, keyed by this ID.
const CookieName = "aisle_session"

// entry pairs a store with its last-access time for idle eviction.
type entry struct {
	store    *Store
	lastSeen time.Time
}

// Manager is the process-wide registry of session stores, keyed by the
// browser-session cookie. Stores are created lazily on first request and
// evicted after sitting idle; an evicted session re-resolves from its
// durable token on the next visit, so eviction never logs anyone out.
type Manager struct {
	api      AuthAPI
	tokens   TokenStore
	notifier Notifier
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager creates a session manager. ttl bounds both the cookie lifetime
// and how long an idle in-memory store is kept.
func NewManager(api AuthAPI, tokens TokenStore, notifier Notifier, ttl time.Duration) *Manager {
	m := &Manager{
		api:      api,
		tokens:   tokens,
		notifier: notifier,
		ttl:      ttl,
		entries:  make(map[string]*entry),
	}

	// Background cleanup of idle stores every few minutes.
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			m.evictIdle()
		}
	}()

	return m
}

// Attach returns the store for the request's browser session, issuing a new
// session cookie when none exists yet.
func (m *Manager) Attach(c echo.Context) *Store {
	sid := readSessionCookie(c)
	if sid == "" {
		sid = uuid.NewString()
		setSessionCookie(c, sid, m.ttl)
	}
	return m.store(sid)
}

// Lookup returns the store for a known session ID, or nil. Used by tests
// and diagnostics; request handling goes through Attach.
func (m *Manager) Lookup(sid string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[sid]; ok {
		return e.store
	}
	return nil
}

// store returns the store for sid, creating it on first use.
func (m *Manager) store(sid string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[sid]; ok {
		e.lastSeen = time.Now()
		return e.store
	}

	s := NewStore(m.api, m.tokens, m.notifier, sid)
	m.entries[sid] = &entry{store: s, lastSeen: time.Now()}
	return s
}

// evictIdle drops stores that have not been touched within the TTL.
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

// --- Cookie helpers ---

// readSessionCookie reads the browser-session ID, rejecting malformed values.
func readSessionCookie(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	// Session IDs are UUIDs we issued; anything else is garbage.
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// setSessionCookie issues the browser-session cookie. HttpOnly so scripts
// can't exfiltrate it, Secure behind TLS, SameSite=Lax.
func setSessionCookie(c echo.Context, sid string, ttl time.Duration) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}
