// internal/store/catalog_store.go
package store

import (
	"strings"
	"sync"

	itemdom "sweetshop/internal/domain/item"
)

// CatalogState is a snapshot of the catalog slice: the master item list plus
// the derived filtered view and the filter inputs that produced it.
type CatalogState struct {
	Items      []itemdom.Item
	Filtered   []itemdom.Item
	SearchText string
	Category   string
}

// CatalogStore owns the master item list (mirroring the backend's committed
// state) and the derived search/category view.
//
// The view is a pure recomputation over the master list after every
// operation, not an incremental index. Catalog sizes are small; this is a
// scaling limit, not a defect.
type CatalogStore struct {
	mu         sync.Mutex
	items      []itemdom.Item
	searchText string
	category   string
	filtered   []itemdom.Item
	subs       []func(CatalogState)
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		items:    []itemdom.Item{},
		filtered: []itemdom.Item{},
		category: itemdom.CategoryAll,
	}
}

// Subscribe registers a callback invoked with a snapshot after every change.
func (s *CatalogStore) Subscribe(fn func(CatalogState)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// State returns the current snapshot with copied slices.
func (s *CatalogStore) State() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Items returns a copy of the master list.
func (s *CatalogStore) Items() []itemdom.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

// Filtered returns a copy of the derived view.
func (s *CatalogStore) Filtered() []itemdom.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.filtered)
}

// SetAll replaces the master list (catalog fetch) and recomputes the view.
func (s *CatalogStore) SetAll(items []itemdom.Item) {
	s.mutate(func() { s.items = copyItems(items) })
}

// Add appends a newly created item.
func (s *CatalogStore) Add(it itemdom.Item) {
	s.mutate(func() { s.items = append(s.items, it) })
}

// Update replaces the item with the same id. Unknown id is a no-op; callers
// must not assume creation-on-miss.
func (s *CatalogStore) Update(it itemdom.Item) {
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == it.ID {
				s.items[i] = it
				return
			}
		}
	})
}

// Remove drops the item with the given id.
func (s *CatalogStore) Remove(itemID string) {
	s.mutate(func() {
		kept := s.items[:0]
		for _, it := range s.items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		s.items = kept
	})
}

// SetSearchText sets the search filter and recomputes the view.
func (s *CatalogStore) SetSearchText(text string) {
	s.mutate(func() { s.searchText = text })
}

// SetCategory sets the category filter ("all" disables it).
func (s *CatalogStore) SetCategory(category string) {
	s.mutate(func() {
		if strings.TrimSpace(category) == "" {
			category = itemdom.CategoryAll
		}
		s.category = category
	})
}

// Categories returns the category selector values for the current master
// list: "all" plus distinct categories in master order.
func (s *CatalogStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemdom.Categories(s.items)
}

func (s *CatalogStore) mutate(apply func()) {
	s.mu.Lock()
	apply()
	s.filtered = deriveView(s.items, s.searchText, s.category)
	snap := s.snapshot()
	subs := make([]func(CatalogState), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *CatalogStore) snapshot() CatalogState {
	return CatalogState{
		Items:      copyItems(s.items),
		Filtered:   copyItems(s.filtered),
		SearchText: s.searchText,
		Category:   s.category,
	}
}

// deriveView filters the master list by search text (case-insensitive
// substring on name or description) and category (exact, "all" disables),
// preserving master-list order.
func deriveView(items []itemdom.Item, searchText, category string) []itemdom.Item {
	out := make([]itemdom.Item, 0, len(items))
	for _, it := range items {
		if it.Matches(searchText, category) {
			out = append(out, it)
		}
	}
	return out
}

func copyItems(src []itemdom.Item) []itemdom.Item {
	out := make([]itemdom.Item, len(src))
	copy(out, src)
	return out
}
