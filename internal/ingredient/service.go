package ingredient

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"dapurku/internal/debounce"
	"dapurku/internal/localstore"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("all fields must be filled in correctly")
	ErrUnknownUnit  = errors.New("unit is not in the accepted list")
	ErrNotFound     = errors.New("ingredient not found")
)

// Local cache writes are debounced so bursts of edits collapse into
// one snapshot write, mirroring the app's autosave.
const cacheSaveDelay = 500 * time.Millisecond

type Service struct {
	userID string
	store  *Store
	repo   Repository
	local  *localstore.Store
	saver  *debounce.Scheduler
}

func NewService(
	userID string,
	store *Store,
	repo Repository,
	local *localstore.Store,
) *Service {

	s := &Service{
		userID: userID,
		store:  store,
		repo:   repo,
		local:  local,
		saver:  debounce.NewScheduler(cacheSaveDelay),
	}

	// Keep the local cache trailing the store. Best effort: a failed
	// snapshot write is logged and the in-memory state stays
	// authoritative.
	store.Subscribe(func(Event) {
		s.saver.Schedule(s.snapshotLocal)
	})

	return s
}

func (s *Service) Store() *Store { return s.store }

func (s *Service) snapshotLocal() {
	if s.local == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := localstore.UserKey(s.userID, localstore.KeyIngredients)
	if err := s.local.PutJSON(ctx, key, s.store.List()); err != nil {
		log.Println("failed to cache ingredients locally:", err)
	}
}

// Reload fills the store from the remote collection, falling back to
// the local cache when the remote read fails.
func (s *Service) Reload(ctx context.Context) error {
	items, err := s.repo.ListByUser(ctx, s.userID)
	if err == nil {
		s.store.Replace(items)
		return nil
	}

	log.Println("remote ingredient load failed, using local cache:", err)

	if s.local != nil {
		var cached []Ingredient
		key := localstore.UserKey(s.userID, localstore.KeyIngredients)
		if cacheErr := s.local.GetJSON(ctx, key, &cached); cacheErr == nil {
			s.store.Replace(cached)
			return nil
		}
	}
	return err
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Name) == "" || in.Quantity <= 0 || in.TotalPrice <= 0 || strings.TrimSpace(in.Unit) == "" {
		return ErrInvalidInput
	}
	if !ValidUnit(in.Unit) {
		return ErrUnknownUnit
	}
	return nil
}

// Submit creates a new ingredient from form input.
func (s *Service) Submit(ctx context.Context, in Input) (Ingredient, error) {
	if err := validateInput(in); err != nil {
		return Ingredient{}, err
	}

	item := Ingredient{
		ID:           uuid.New().String(),
		UserID:       s.userID,
		Name:         strings.TrimSpace(in.Name),
		Unit:         strings.TrimSpace(in.Unit),
		Quantity:     in.Quantity,
		TotalPrice:   in.TotalPrice,
		PricePerUnit: PricePerUnit(in.TotalPrice, in.Quantity),
	}

	s.store.Add(item)

	if err := s.repo.Upsert(ctx, item); err != nil {
		// Optimistic: state keeps the item, caller reports the failure.
		log.Println("failed to persist ingredient:", err)
		return item, err
	}
	return item, nil
}

// Edit updates an existing ingredient and recomputes its price per unit.
func (s *Service) Edit(ctx context.Context, id string, in Input) (Ingredient, error) {
	if err := validateInput(in); err != nil {
		return Ingredient{}, err
	}

	updated, ok := s.store.Edit(id, in)
	if !ok {
		return Ingredient{}, ErrNotFound
	}

	if err := s.repo.Upsert(ctx, updated); err != nil {
		log.Println("failed to persist ingredient edit:", err)
		return updated, err
	}
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if !s.store.Remove(id) {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		log.Println("failed to delete ingredient remotely:", err)
		return err
	}
	return nil
}

// RemoveMany deletes a selection in one store pass and one chunked
// remote batch.
func (s *Service) RemoveMany(ctx context.Context, ids []string) (int, error) {
	removed := s.store.RemoveMany(ids)
	if removed == 0 {
		return 0, nil
	}

	if err := s.repo.DeleteMany(ctx, s.userID, ids); err != nil {
		log.Println("failed to batch-delete ingredients remotely:", err)
		return removed, err
	}
	return removed, nil
}

func (s *Service) ClearAll(ctx context.Context) error {
	s.store.Clear()

	if err := s.repo.DeleteAll(ctx, s.userID); err != nil {
		log.Println("failed to clear ingredients remotely:", err)
		return err
	}
	return nil
}

// ImportCSV reads an import file, drops invalid rows silently, and
// adds the remainder in bulk. Returns how many rows were imported.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	items, err := ReadCSV(r)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	for i := range items {
		items[i].UserID = s.userID
	}

	s.store.AddMany(items)

	if err := s.repo.UpsertMany(ctx, items); err != nil {
		log.Println("failed to persist imported ingredients:", err)
		return len(items), err
	}
	return len(items), nil
}
