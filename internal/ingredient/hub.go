package ingredient

import (
	"context"
	"sync"

	"dapurku/internal/localstore"
)

// Hub hands out one Service per user, created lazily on first touch
// and primed from persistence. It is the server-side stand-in for the
// app's single global provider.
type hubEntry struct {
	svc   *Service
	prime sync.Once
}

type Hub struct {
	mu    sync.Mutex
	repo  Repository
	local *localstore.Store
	svcs  map[string]*hubEntry
}

func NewHub(repo Repository, local *localstore.Store) *Hub {
	return &Hub{
		repo:  repo,
		local: local,
		svcs:  make(map[string]*hubEntry),
	}
}

func (h *Hub) ForUser(ctx context.Context, userID string) *Service {
	h.mu.Lock()
	entry, ok := h.svcs[userID]
	if !ok {
		entry = &hubEntry{svc: NewService(userID, NewStore(), h.repo, h.local)}
		h.svcs[userID] = entry
	}
	h.mu.Unlock()

	// Prime from the remote collection exactly once; concurrent
	// first-touch callers wait for the load instead of seeing an
	// empty store.
	entry.prime.Do(func() {
		_ = entry.svc.Reload(ctx)
	})
	return entry.svc
}
