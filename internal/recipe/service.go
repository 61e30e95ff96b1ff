package recipe

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"dapurku/internal/debounce"
	"dapurku/internal/ingredient"
	"dapurku/internal/localstore"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle        = errors.New("recipe title must not be empty")
	ErrNoIngredients     = errors.New("add at least one ingredient")
	ErrIngredientMissing = errors.New("ingredient not found, add it to the ingredient list first")
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrLineExists        = errors.New("ingredient already added to this recipe")
)

const (
	cacheSaveDelay = 500 * time.Millisecond
	priceSaveDelay = 600 * time.Millisecond
	persistTimeout = 5 * time.Second
)

// Service glues the Recipe Store to cost propagation, the pricing
// engine and persistence for one user.
type Service struct {
	userID      string
	store       *Store
	repo        Repository
	ingredients *ingredient.Store
	local       *localstore.Store
	saver       *debounce.Scheduler

	// Lookup index rebuilt only when the ingredient collection's
	// fingerprint moves.
	idxMu sync.Mutex
	idxFP string
	idx   *Index

	// One single-slot scheduler per recipe for manual price writes.
	priceMu     sync.Mutex
	priceSavers map[string]*debounce.Scheduler

	draft *Reconciler
}

func NewService(
	userID string,
	store *Store,
	repo Repository,
	ingredients *ingredient.Store,
	local *localstore.Store,
) *Service {

	s := &Service{
		userID:      userID,
		store:       store,
		repo:        repo,
		ingredients: ingredients,
		local:       local,
		saver:       debounce.NewScheduler(cacheSaveDelay),
		priceSavers: make(map[string]*debounce.Scheduler),
		draft:       NewReconciler(ModeNew(), userID, local),
	}

	store.Subscribe(func(Recipe) {
		s.saver.Schedule(s.snapshotLocal)
	})

	return s
}

func (s *Service) Store() *Store { return s.store }

func (s *Service) snapshotLocal() {
	if s.local == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	key := localstore.UserKey(s.userID, localstore.KeyRecipes)
	if err := s.local.PutJSON(ctx, key, s.store.List()); err != nil {
		log.Println("failed to cache recipes locally:", err)
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

	log.Println("remote recipe load failed, using local cache:", err)

	if s.local != nil {
		var cached []Recipe
		key := localstore.UserKey(s.userID, localstore.KeyRecipes)
		if cacheErr := s.local.GetJSON(ctx, key, &cached); cacheErr == nil {
			s.store.Replace(cached)
			return nil
		}
	}
	return err
}

// costIndex returns the lookup index for the current ingredient
// collection version, rebuilding it only when the fingerprint moved.
func (s *Service) costIndex() *Index {
	fp := s.ingredients.Fingerprint()

	s.idxMu.Lock()
	defer s.idxMu.Unlock()

	if s.idx == nil || s.idxFP != fp {
		s.idx = NewIndex(s.ingredients.List())
		s.idxFP = fp
	}
	return s.idx
}

// BuildLine validates and costs one form line against the Ingredient
// Store. The ingredient must already exist there and must not already
// appear among the form's current lines.
func (s *Service) BuildLine(name string, quantity float64, unit string, current []IngredientLine) (IngredientLine, error) {
	if quantity <= 0 {
		return IngredientLine{}, ErrInvalidQuantity
	}

	matched, ok := s.ingredients.FindByName(name)
	if !ok {
		return IngredientLine{}, ErrIngredientMissing
	}

	for _, l := range current {
		if l.IngredientID == matched.ID {
			return IngredientLine{}, ErrLineExists
		}
	}

	line := IngredientLine{
		ID:           uuid.New().String(),
		IngredientID: matched.ID,
		Name:         matched.Name,
		Quantity:     quantity,
		Unit:         unit,
	}
	refreshed := RefreshLines([]IngredientLine{line}, s.costIndex())
	return refreshed[0], nil
}

func (s *Service) validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if len(in.Ingredients) == 0 {
		return ErrNoIngredients
	}
	return nil
}

// prepare refreshes the lines against the live ingredient collection
// and caches the HPP snapshot the way a save does.
func (s *Service) prepare(in Input) ([]IngredientLine, float64) {
	lines := RefreshLines(in.Ingredients, s.costIndex())
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
	}
	return lines, TotalHPP(lines)
}

// Create commits a new recipe and clears the draft.
func (s *Service) Create(ctx context.Context, in Input) (Recipe, error) {
	if err := s.validate(in); err != nil {
		return Recipe{}, err
	}

	lines, hpp := s.prepare(in)
	rec := Recipe{
		ID:          uuid.New().String(),
		UserID:      s.userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Ingredients: lines,
		ImageURIs:   in.ImageURIs,
		Category:    in.Category,
		HPP:         hpp,
	}

	if err := s.store.Add(rec); err != nil {
		return Recipe{}, err
	}

	s.draft.Clear(ctx)

	if err := s.repo.Upsert(ctx, rec); err != nil {
		log.Println("failed to persist recipe:", err)
		return rec, err
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Recipe, error) {
	if err := s.validate(in); err != nil {
		return Recipe{}, err
	}

	existing, ok := s.store.Get(id)
	if !ok {
		return Recipe{}, ErrNotFound
	}

	lines, hpp := s.prepare(in)
	rec := existing
	rec.Title = strings.TrimSpace(in.Title)
	rec.Description = in.Description
	rec.Ingredients = lines
	rec.ImageURIs = in.ImageURIs
	rec.Category = in.Category
	rec.HPP = hpp

	if err := s.store.Edit(id, rec); err != nil {
		return Recipe{}, err
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		log.Println("failed to persist recipe edit:", err)
		return rec, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, ok := s.store.Remove(id); !ok {
		return ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.userID, id); err != nil {
		log.Println("failed to delete recipe remotely:", err)
		return err
	}
	return nil
}

// View returns the recipe with its lines recomputed from the live
// ingredient collection. The stored HPP snapshot is not trusted.
func (s *Service) View(id string) (Recipe, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return Recipe{}, ErrNotFound
	}

	rec.Ingredients = RefreshLines(rec.Ingredients, s.costIndex())
	rec.HPP = TotalHPP(rec.Ingredients)
	return rec, nil
}

// PricingFor derives the current price view of a recipe. A nil
// margin falls back to the recipe's stored margin or the default.
func (s *Service) PricingFor(id string, margin *float64) (Pricing, error) {
	rec, err := s.View(id)
	if err != nil {
		return Pricing{}, err
	}

	m := DefaultMargin
	if rec.Margin != nil {
		m = *rec.Margin
	}
	if margin != nil {
		m = *margin
	}

	return ComputePricing(rec.HPP, m, rec.SellingPrice), nil
}

func (s *Service) priceSaver(id string) *debounce.Scheduler {
	s.priceMu.Lock()
	defer s.priceMu.Unlock()

	saver, ok := s.priceSavers[id]
	if !ok {
		saver = debounce.NewScheduler(priceSaveDelay)
		s.priceSavers[id] = saver
	}
	return saver
}

// SetManualPrice validates a manual price edit and schedules the
// write. Invalid input is rejected immediately; rapid edits inside
// the debounce window collapse into a single persisted write of the
// latest value. A failed save is logged and not retried — the next
// edit re-attempts.
func (s *Service) SetManualPrice(id, rawPrice string, margin float64) error {
	price, err := ParseManualPrice(rawPrice)
	if err != nil {
		return err
	}
	if _, ok := s.store.Get(id); !ok {
		return ErrNotFound
	}

	margin = ClampMargin(margin)

	s.priceSaver(id).Schedule(func() {
		updated, ok := s.store.SetPrice(id, price, margin)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := s.repo.Upsert(ctx, updated); err != nil {
			log.Println("failed to persist manual price:", err)
		}
	})

	return nil
}

// AddImage appends an uploaded image URI to the recipe.
func (s *Service) AddImage(ctx context.Context, id, uri string) (Recipe, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return Recipe{}, ErrNotFound
	}

	rec.ImageURIs = append(rec.ImageURIs, uri)
	if err := s.store.Edit(id, rec); err != nil {
		return Recipe{}, err
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		log.Println("failed to persist recipe image:", err)
		return rec, err
	}
	return rec, nil
}

// ImportCSV imports grouped recipes; titles that collide with
// existing recipes are skipped. Returns how many were imported.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	parsed, err := ReadCSV(r, s.costIndex())
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, p := range parsed {
		if len(p.Ingredients) == 0 {
			continue
		}

		rec := Recipe{
			ID:          uuid.New().String(),
			UserID:      s.userID,
			Title:       strings.TrimSpace(p.Title),
			Ingredients: p.Ingredients,
			HPP:         TotalHPP(p.Ingredients),
		}

		if err := s.store.Add(rec); err != nil {
			// Duplicate title; skip like any invalid row.
			continue
		}

		imported++

		// Optimistic: a failed remote write keeps the in-memory recipe.
		if err := s.repo.Upsert(ctx, rec); err != nil {
			log.Println("failed to persist imported recipe:", err)
		}
	}

	return imported, nil
}

// --------------------------------------------------
// Draft Reconciliation
// --------------------------------------------------

// LoadDraft returns the persisted draft for the new-recipe form.
func (s *Service) LoadDraft(ctx context.Context) Draft {
	return s.draft.Load(ctx)
}

// SyncDraft mirrors the form snapshot into the persisted draft.
func (s *Service) SyncDraft(d Draft) {
	s.draft.Sync(d)
}

// DiscardDraft wipes the draft on explicit discard.
func (s *Service) DiscardDraft(ctx context.Context) {
	s.draft.Clear(ctx)
}
