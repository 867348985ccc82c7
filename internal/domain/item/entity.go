// internal/domain/item/entity.go
package item

import (
	"errors"
	"strings"
)

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "all"

// Errors (single source)
var (
	ErrInvalidID       = errors.New("item: invalid id")
	ErrInvalidName     = errors.New("item: invalid name")
	ErrInvalidPrice    = errors.New("item: invalid price")
	ErrInvalidQuantity = errors.New("item: invalid quantity")
)

// Item is one catalog product ("sweet").
//
// The catalog backend is the source of truth; the client only mirrors the
// latest committed state. Quantity is the stock count, not a cart quantity.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
}

// Validate checks the field constraints the UI must enforce before
// dispatching an admin create/update. ID is not required here: the backend
// assigns it on create.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if i.Price < 0 {
		return ErrInvalidPrice
	}
	if i.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// InStock reports whether the item can be added to a cart at all.
func (i Item) InStock() bool {
	return i.Quantity > 0
}

// Matches reports whether the item passes the given search text and category
// filter. Search is a case-insensitive substring match against name or
// description; category is an exact match unless it is CategoryAll.
func (i Item) Matches(searchText, category string) bool {
	if q := strings.TrimSpace(searchText); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(i.Name), q) &&
			!strings.Contains(strings.ToLower(i.Description), q) {
			return false
		}
	}
	if category != "" && category != CategoryAll && i.Category != category {
		return false
	}
	return true
}

// Categories returns the distinct categories of items, in first-appearance
// order, with the CategoryAll sentinel prepended. Used to populate the
// category selector.
func Categories(items []Item) []string {
	out := []string{CategoryAll}
	seen := map[string]bool{}
	for _, it := range items {
		c := strings.TrimSpace(it.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
