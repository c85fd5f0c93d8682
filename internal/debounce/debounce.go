// Package debounce provides a keyed, cancellable debounce primitive with
// stale-result protection. The login and register forms probe the
// marketplace for "which role does this email belong to" on every
// keystroke; the debouncer holds each probe until typing pauses, releases
// superseded probes immediately, and lets callers verify their result is
// still the freshest before publishing it -- so a slow response for an old
// input can never overwrite a newer one.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned by Ticket.Wait when a newer acquisition for the
// same key arrived before the quiet window elapsed.
var ErrSuperseded = errors.New("debounce: superseded by a newer request")

// Keyed debounces independent streams of events identified by a key (here:
// the email being typed). At most one ticket per key is live; acquiring a
// new one releases the previous waiter with ErrSuperseded. Safe for
// concurrent use.
type Keyed struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*Ticket
}

// NewKeyed creates a keyed debouncer with the given quiet window.
func NewKeyed(window time.Duration) *Keyed {
	return &Keyed{
		window:  window,
		pending: make(map[string]*Ticket),
	}
}

// Ticket represents one acquisition of a key. Wait blocks until the quiet
// window elapses; Valid reports whether the ticket is still the freshest
// for its key.
type Ticket struct {
	owner      *Keyed
	key        string
	superseded chan struct{}
}

// Acquire registers a new event for key, superseding any pending ticket for
// the same key (its Wait returns ErrSuperseded immediately).
func (k *Keyed) Acquire(key string) *Ticket {
	k.mu.Lock()
	defer k.mu.Unlock()

	if prev, ok := k.pending[key]; ok {
		close(prev.superseded)
	}

	t := &Ticket{
		owner:      k,
		key:        key,
		superseded: make(chan struct{}),
	}
	k.pending[key] = t
	return t
}

// Wait blocks until the quiet window elapses with no newer acquisition.
// Returns ErrSuperseded when a newer ticket took over the key, or the
// context's error when the caller went away.
func (t *Ticket) Wait(ctx context.Context) error {
	timer := time.NewTimer(t.owner.window)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-t.superseded:
		return ErrSuperseded
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Valid reports whether this ticket is still the freshest for its key.
// Callers check it after their lookup completes and drop the response when
// it returns false.
func (t *Ticket) Valid() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.owner.pending[t.key] == t
}

// Release removes the ticket if it is still the current one for its key.
// Called after the result has been published so the map doesn't grow with
// settled keys.
func (t *Ticket) Release() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.owner.pending[t.key] == t {
		delete(t.owner.pending, t.key)
	}
}
