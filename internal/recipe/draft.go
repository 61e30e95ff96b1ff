package recipe

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"dapurku/internal/debounce"
	"dapurku/internal/localstore"
)

// Draft is the staging area for one in-progress, unsaved recipe. It
// exists so a half-composed recipe survives an app restart; it is
// never referenced by a saved recipe.
type Draft struct {
	Title       string           `json:"title"`
	Steps       []string         `json:"steps"`
	Ingredients []IngredientLine `json:"ingredients"`
	ImageURIs   []string         `json:"imageUris"`
	Category    string           `json:"category"`
}

func EmptyDraft() Draft {
	return Draft{
		Steps:       []string{""},
		Ingredients: []IngredientLine{},
		ImageURIs:   []string{},
	}
}

// FormMode selects between composing a new recipe and editing an
// existing one. Draft reconciliation is only reachable from ModeNew.
type FormMode struct {
	recipeID string
}

func ModeNew() FormMode { return FormMode{} }

func ModeEditing(recipeID string) FormMode { return FormMode{recipeID: recipeID} }

func (m FormMode) Editing() bool    { return m.recipeID != "" }
func (m FormMode) RecipeID() string { return m.recipeID }

// Writes settle briefly so a burst of keystrokes produces one persist.
const draftSettleDelay = 300 * time.Millisecond

// Reconciler mirrors new-recipe form state into the persisted draft.
// In editing mode every sync call is short-circuited: editing an
// existing recipe must never touch the draft record.
//
// Persistence is best effort. A failed read starts from an empty
// draft; a failed write is logged and the in-memory state stays
// authoritative for the session.
type Reconciler struct {
	mode   FormMode
	userID string
	local  *localstore.Store
	saver  *debounce.Scheduler

	// mu guards lastSynced and the compare-and-schedule sequence so
	// concurrent syncs cannot record one snapshot while scheduling
	// another.
	mu         sync.Mutex
	lastSynced []byte
}

func NewReconciler(mode FormMode, userID string, local *localstore.Store) *Reconciler {
	return &Reconciler{
		mode:   mode,
		userID: userID,
		local:  local,
		saver:  debounce.NewScheduler(draftSettleDelay),
	}
}

func (r *Reconciler) key() string {
	return localstore.UserKey(r.userID, localstore.KeyDraft)
}

// Load returns the draft the form should start from: the persisted
// draft in new-recipe mode, or nothing in editing mode (the form
// initializes from the recipe instead).
func (r *Reconciler) Load(ctx context.Context) Draft {
	if r.mode.Editing() || r.local == nil {
		return EmptyDraft()
	}

	var d Draft
	if err := r.local.GetJSON(ctx, r.key(), &d); err != nil {
		return EmptyDraft()
	}

	snapshot, _ := json.Marshal(d)
	r.mu.Lock()
	r.lastSynced = snapshot
	r.mu.Unlock()
	return d
}

// Sync compares the draft against the last-synced snapshot and, on
// any difference, schedules a replace-whole-object write after the
// settle delay. Structural equality via canonical JSON avoids
// redundant writes when nothing semantically changed.
func (r *Reconciler) Sync(d Draft) {
	if r.mode.Editing() || r.local == nil {
		return
	}

	snapshot, err := json.Marshal(d)
	if err != nil {
		log.Println("failed to snapshot draft:", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if string(snapshot) == string(r.lastSynced) {
		return
	}
	r.lastSynced = snapshot

	key := r.key()
	r.saver.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.local.Put(ctx, key, snapshot); err != nil {
			log.Println("failed to persist draft:", err)
		}
	})
}

// Clear wipes the persisted draft after an explicit save or discard.
func (r *Reconciler) Clear(ctx context.Context) {
	if r.mode.Editing() || r.local == nil {
		return
	}

	r.saver.Stop()

	r.mu.Lock()
	r.lastSynced = nil
	r.mu.Unlock()

	if err := r.local.Delete(ctx, r.key()); err != nil {
		log.Println("failed to clear draft:", err)
	}
}

// Stop cancels any pending draft write on form teardown.
func (r *Reconciler) Stop() {
	r.saver.Stop()
}
