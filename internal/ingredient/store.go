package ingredient

import (
	"fmt"
	"strings"
	"sync"
)

// Change event kinds, matching the remote document feed.
type EventType int

const (
	EventAdded EventType = iota
	EventModified
	EventRemoved
)

type Event struct {
	Type       EventType
	Ingredient Ingredient
}

// Store is the Ingredient Store: a single observable state container.
// All mutation goes through its command methods; readers get snapshot
// copies. Subscribers are notified of every change so dependents
// (cost propagation, the local cache) can patch their state
// incrementally.
type Store struct {
	mu      sync.RWMutex
	items   []Ingredient
	subs    map[int]func(Event)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Event))}
}

// Subscribe registers fn for change events and returns an
// unsubscribe function. fn is called synchronously, outside the
// store lock.
func (s *Store) Subscribe(fn func(Event)) func() {
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

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// List returns a snapshot copy of all ingredients.
func (s *Store) List() []Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Ingredient, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id string) (Ingredient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Ingredient{}, false
}

// FindByName matches case-insensitively on the trimmed name.
func (s *Store) FindByName(name string) (Ingredient, bool) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if strings.ToLower(strings.TrimSpace(it.Name)) == key {
			return it, true
		}
	}
	return Ingredient{}, false
}

func (s *Store) Add(item Ingredient) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	s.notify(Event{Type: EventAdded, Ingredient: item})
}

func (s *Store) AddMany(items []Ingredient) {
	if len(items) == 0 {
		return
	}

	s.mu.Lock()
	s.items = append(s.items, items...)
	s.mu.Unlock()

	for _, it := range items {
		s.notify(Event{Type: EventAdded, Ingredient: it})
	}
}

// Edit replaces the fields of the ingredient with the given id and
// recomputes its price per unit. Returns false if the id is unknown.
func (s *Store) Edit(id string, in Input) (Ingredient, bool) {
	s.mu.Lock()
	var updated Ingredient
	found := false
	for i, it := range s.items {
		if it.ID != id {
			continue
		}
		it.Name = strings.TrimSpace(in.Name)
		it.Unit = in.Unit
		it.Quantity = in.Quantity
		it.TotalPrice = in.TotalPrice
		it.PricePerUnit = PricePerUnit(in.TotalPrice, in.Quantity)
		s.items[i] = it
		updated = it
		found = true
		break
	}
	s.mu.Unlock()

	if found {
		s.notify(Event{Type: EventModified, Ingredient: updated})
	}
	return updated, found
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	var removed Ingredient
	found := false
	for i, it := range s.items {
		if it.ID == id {
			removed = it
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify(Event{Type: EventRemoved, Ingredient: removed})
	}
	return found
}

// RemoveMany deletes the given ids in one pass.
func (s *Store) RemoveMany(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	s.mu.Lock()
	var removed []Ingredient
	kept := s.items[:0]
	for _, it := range s.items {
		if _, hit := idSet[it.ID]; hit {
			removed = append(removed, it)
		} else {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()

	for _, it := range removed {
		s.notify(Event{Type: EventRemoved, Ingredient: it})
	}
	return len(removed)
}

func (s *Store) Clear() {
	s.mu.Lock()
	removed := s.items
	s.items = nil
	s.mu.Unlock()

	for _, it := range removed {
		s.notify(Event{Type: EventRemoved, Ingredient: it})
	}
}

// Replace swaps in a full snapshot (initial load from persistence).
// No per-item events fire; subscribers use Replace-time reloads.
func (s *Store) Replace(items []Ingredient) {
	s.mu.Lock()
	s.items = make([]Ingredient, len(items))
	copy(s.items, items)
	s.mu.Unlock()
}

// Apply patches the store from a remote change event: add, modify or
// remove the referenced document.
func (s *Store) Apply(ev Event) {
	switch ev.Type {
	case EventAdded:
		if _, exists := s.Get(ev.Ingredient.ID); exists {
			return
		}
		s.Add(ev.Ingredient)
	case EventModified:
		in := Input{
			Name:       ev.Ingredient.Name,
			Unit:       ev.Ingredient.Unit,
			Quantity:   ev.Ingredient.Quantity,
			TotalPrice: ev.Ingredient.TotalPrice,
		}
		s.Edit(ev.Ingredient.ID, in)
	case EventRemoved:
		s.Remove(ev.Ingredient.ID)
	}
}

// Fingerprint is a stable version marker of the collection for the
// fields costing depends on. Cost propagation rebuilds its lookup
// index only when this changes.
func (s *Store) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	for i, it := range s.items {
		if i > 0 {
			b.WriteString("|||")
		}
		fmt.Fprintf(&b, "%s-%s-%s-%g", it.ID, it.Name, it.Unit, it.PricePerUnit)
	}
	return b.String()
}
