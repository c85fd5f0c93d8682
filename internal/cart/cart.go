// Package cart holds a customer's in-progress selection of services and
// packages. Carts live in memory, one per browser session, and reset on
// gateway restart; the checkout flow is an external collaborator that reads
// the cart's contents through the JSON endpoints.
package cart

import "sync"

// Kind distinguishes what a cart item references.
type Kind string

const (
	// KindService references a single bookable service.
	KindService Kind = "service"

	// KindPackage references a bundled package.
	KindPackage Kind = "package"
)

// Valid reports whether the kind is a known variant.
func (k Kind) Valid() bool {
	return k == KindService || k == KindPackage
}

// Item is one line of the cart. Items are identified by (ReferenceID, Kind);
// no duplicate entries exist -- adding an existing reference increments its
// quantity instead of appending.
type Item struct {
	ReferenceID string  `json:"reference_id"`
	Kind        Kind    `json:"kind"`
	Quantity    int     `json:"quantity"`
	Title       string  `json:"title,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
}

// Cart is a mutex-guarded ordered collection of items. The item count is
// recomputed from the items on every read, never cached.
type Cart struct {
	mu    sync.Mutex
	items []Item
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of the referenced offering into the cart. An
// existing (reference, kind) entry has its quantity incremented; order of
// existing entries is preserved. Quantities below one are treated as one.
func (c *Cart) Add(referenceID string, kind Kind, quantity int, title string, unitPrice float64) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ReferenceID == referenceID && c.items[i].Kind == kind {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, Item{
		ReferenceID: referenceID,
		Kind:        kind,
		Quantity:    quantity,
		Title:       title,
		UnitPrice:   unitPrice,
	})
}

// Remove deletes the matching entry entirely, regardless of its quantity.
// Removing an absent entry is a no-op.
func (c *Cart) Remove(referenceID string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ReferenceID == referenceID && c.items[i].Kind == kind {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart's contents in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemCount returns the sum of all quantities. Always derived from the
// items at call time; used for the navigation badge.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Total returns the cart's monetary total.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, item := range c.items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}
