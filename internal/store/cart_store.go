// internal/store/cart_store.go
package store

import (
	"sync"

	cartdom "sweetshop/internal/domain/cart"
)

// CartStore owns the cart slice. The derived total is single-writer: it is
// recomputed inside the store after every mutation and no external component
// may set it directly (ReplaceAll validates and recomputes on mismatch).
type CartStore struct {
	mu   sync.Mutex
	cart cartdom.Cart
	subs []func(cartdom.Cart)
}

func NewCartStore() *CartStore {
	return &CartStore{cart: cartdom.New()}
}

// Subscribe registers a callback invoked with a deep-copied snapshot after
// every mutation. The sync coordinator uses this to trigger remote persists.
func (s *CartStore) Subscribe(fn func(cartdom.Cart)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Cart returns a deep-copied snapshot.
func (s *CartStore) Cart() cartdom.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem merges qty into the line for snapshot.ItemID, or appends a new
// line. qty must be a positive integer; that (and the stock check) is a
// caller contract enforced by the shopping usecase before dispatch.
func (s *CartStore) AddItem(snapshot cartdom.Line, qty int) error {
	return s.mutate(func(c *cartdom.Cart) error { return c.Add(snapshot, qty) })
}

// RemoveItem drops the line if present; absent id is a no-op.
func (s *CartStore) RemoveItem(itemID string) {
	_ = s.mutate(func(c *cartdom.Cart) error {
		c.Remove(itemID)
		return nil
	})
}

// SetQuantity overwrites the line's quantity; qty <= 0 behaves as RemoveItem.
func (s *CartStore) SetQuantity(itemID string, qty int) error {
	return s.mutate(func(c *cartdom.Cart) error { return c.SetQuantity(itemID, qty) })
}

// Clear empties the cart.
func (s *CartStore) Clear() {
	_ = s.mutate(func(c *cartdom.Cart) error {
		c.Clear()
		return nil
	})
}

// ReplaceAll hydrates the cart from a persisted snapshot (remote load on
// login). The supplied total is only kept when it matches the recomputed sum.
func (s *CartStore) ReplaceAll(lines []cartdom.Line, totalPrice float64) {
	_ = s.mutate(func(c *cartdom.Cart) error {
		c.Replace(lines, totalPrice)
		return nil
	})
}

// mutate applies fn under the lock and notifies subscribers afterwards.
// A failed mutation leaves the state untouched and notifies nobody.
func (s *CartStore) mutate(fn func(*cartdom.Cart) error) error {
	s.mu.Lock()
	if err := fn(&s.cart); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.cart.Clone()
	subs := make([]func(cartdom.Cart), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}
