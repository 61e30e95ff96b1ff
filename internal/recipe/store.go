package recipe

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrDuplicateTitle = errors.New("recipe title is already in use")
	ErrNotFound       = errors.New("recipe not found")
)

// Store is the Recipe Store: the observable container for one user's
// recipes. Titles are unique case-insensitively after trimming.
type Store struct {
	mu      sync.RWMutex
	items   []Recipe
	subs    map[int]func(Recipe)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Recipe))}
}

// Subscribe registers fn to be called with the affected recipe after
// every mutation. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func(Recipe)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(r Recipe) {
	s.mu.RLock()
	fns := make([]func(Recipe), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(r)
	}
}

func (s *Store) List() []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Recipe, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.items {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}

// titleTaken reports whether a recipe other than excludeID already
// uses the title, ignoring case and surrounding whitespace.
// Caller must hold the lock.
func (s *Store) titleTaken(title, excludeID string) bool {
	normalized := strings.ToLower(strings.TrimSpace(title))
	for _, r := range s.items {
		if r.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(r.Title)) == normalized {
			return true
		}
	}
	return false
}

func (s *Store) Add(r Recipe) error {
	s.mu.Lock()
	if s.titleTaken(r.Title, "") {
		s.mu.Unlock()
		return ErrDuplicateTitle
	}
	s.items = append(s.items, r)
	s.mu.Unlock()

	s.notify(r)
	return nil
}

func (s *Store) Edit(id string, updated Recipe) error {
	s.mu.Lock()
	if s.titleTaken(updated.Title, id) {
		s.mu.Unlock()
		return ErrDuplicateTitle
	}

	found := false
	for i, r := range s.items {
		if r.ID == id {
			updated.ID = id
			s.items[i] = updated
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	s.notify(updated)
	return nil
}

func (s *Store) Remove(id string) (Recipe, bool) {
	s.mu.Lock()
	var removed Recipe
	found := false
	for i, r := range s.items {
		if r.ID == id {
			removed = r
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify(removed)
	}
	return removed, found
}

// SetPrice stores a manual selling price and the margin it was set
// at. The recipe keeps its other fields untouched.
func (s *Store) SetPrice(id string, price int, margin float64) (Recipe, bool) {
	s.mu.Lock()
	var updated Recipe
	found := false
	for i, r := range s.items {
		if r.ID == id {
			r.SellingPrice = &price
			r.Margin = &margin
			s.items[i] = r
			updated = r
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify(updated)
	}
	return updated, found
}

// Replace swaps in a full snapshot (initial load from persistence).
func (s *Store) Replace(items []Recipe) {
	s.mu.Lock()
	s.items = make([]Recipe, len(items))
	copy(s.items, items)
	s.mu.Unlock()
}
