package recipe

import (
	"context"
	"sync"

	"dapurku/internal/ingredient"
	"dapurku/internal/localstore"
)

// Hub hands out one Service per user, created lazily and primed from
// persistence. Each recipe service is wired to the same user's
// ingredient store so costing always reads live prices.
type hubEntry struct {
	svc   *Service
	prime sync.Once
}

type Hub struct {
	mu          sync.Mutex
	repo        Repository
	ingredients *ingredient.Hub
	local       *localstore.Store
	svcs        map[string]*hubEntry
}

func NewHub(repo Repository, ingredients *ingredient.Hub, local *localstore.Store) *Hub {
	return &Hub{
		repo:        repo,
		ingredients: ingredients,
		local:       local,
		svcs:        make(map[string]*hubEntry),
	}
}

func (h *Hub) ForUser(ctx context.Context, userID string) *Service {
	ingStore := h.ingredients.ForUser(ctx, userID).Store()

	h.mu.Lock()
	entry, ok := h.svcs[userID]
	if !ok {
		entry = &hubEntry{svc: NewService(userID, NewStore(), h.repo, ingStore, h.local)}
		h.svcs[userID] = entry
	}
	h.mu.Unlock()

	// Concurrent first-touch callers wait for the initial load
	// instead of seeing an empty store.
	entry.prime.Do(func() {
		_ = entry.svc.Reload(ctx)
	})
	return entry.svc
}
