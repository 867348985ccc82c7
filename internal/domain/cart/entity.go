// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidItemID   = errors.New("cart: invalid item id")
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
)

// Line represents one line item in the cart: an item reference plus the
// name/price/image snapshot taken at add time. A later catalog price change
// must not silently reprice a cart, hence the snapshot.
type Line struct {
	ItemID   string  `json:"id" firestore:"id"`
	Name     string  `json:"name" firestore:"name"`
	Price    float64 `json:"price" firestore:"price"`
	Image    string  `json:"image,omitempty" firestore:"image,omitempty"`
	Quantity int     `json:"quantity" firestore:"quantity"`
}

// Cart is the local cart value: an ordered list of lines (insertion order)
// plus the derived total.
//
// Invariants:
// - at most one line per item id
// - TotalPrice == Total(Lines) after every mutation
type Cart struct {
	Lines      []Line  `json:"items" firestore:"items"`
	TotalPrice float64 `json:"totalPrice" firestore:"totalPrice"`
}

// New returns an empty cart.
func New() Cart {
	return Cart{Lines: []Line{}}
}

// Add merges qty into an existing line for the item id, or appends a new line
// built from the snapshot. qty must be >= 1; validating that (and stock) is a
// caller contract, but a non-positive qty is still rejected here so the
// invariant can never be broken by a misbehaving caller.
func (c *Cart) Add(snapshot Line, qty int) error {
	if c == nil {
		return ErrInvalidItemID
	}
	id := strings.TrimSpace(snapshot.ItemID)
	if id == "" {
		return ErrInvalidItemID
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	if idx := c.indexOf(id); idx >= 0 {
		c.Lines[idx].Quantity += qty
	} else {
		snapshot.ItemID = id
		snapshot.Quantity = qty
		c.Lines = append(c.Lines, snapshot)
	}

	c.recompute()
	return nil
}

// SetQuantity overwrites the quantity for the item id. qty <= 0 removes the
// line (absent id is then a no-op).
func (c *Cart) SetQuantity(itemID string, qty int) error {
	if c == nil {
		return ErrInvalidItemID
	}
	id := strings.TrimSpace(itemID)
	if id == "" {
		return ErrInvalidItemID
	}

	idx := c.indexOf(id)

	if qty <= 0 {
		if idx >= 0 {
			c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		}
		c.recompute()
		return nil
	}

	if idx < 0 {
		return ErrInvalidItemID
	}
	c.Lines[idx].Quantity = qty
	c.recompute()
	return nil
}

// Remove drops the line for the item id. Absent id is a no-op, not an error.
func (c *Cart) Remove(itemID string) {
	if c == nil {
		return
	}
	_ = c.SetQuantity(strings.TrimSpace(itemID), 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	if c == nil {
		return
	}
	c.Lines = []Line{}
	c.TotalPrice = 0
}

// Replace swaps in a full externally-sourced snapshot (remote cart load).
// The supplied total is checked against the fold over the lines and
// recomputed on mismatch; persisted derived data is never trusted blindly.
func (c *Cart) Replace(lines []Line, totalPrice float64) {
	if c == nil {
		return
	}
	c.Lines = normalize(lines)
	if sameAmount(totalPrice, Total(c.Lines)) {
		c.TotalPrice = totalPrice
	} else {
		c.recompute()
	}
}

// Clone returns a deep copy, safe to hand to other goroutines.
func (c Cart) Clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines, TotalPrice: c.TotalPrice}
}

// Total is the single derivation for the cart total: sum of price*quantity
// over the lines.
func Total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

func (c *Cart) recompute() {
	c.TotalPrice = Total(c.Lines)
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// normalize drops malformed lines and merges duplicate item ids while
// preserving first-appearance order. Persisted carts from older clients may
// contain both.
func normalize(src []Line) []Line {
	out := make([]Line, 0, len(src))
	index := map[string]int{}
	for _, l := range src {
		id := strings.TrimSpace(l.ItemID)
		if id == "" || l.Quantity <= 0 || l.Price < 0 {
			continue
		}
		l.ItemID = id
		if i, ok := index[id]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, l)
	}
	return out
}

// sameAmount compares two currency amounts with a tolerance for float noise
// accumulated by a remote round-trip.
func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
