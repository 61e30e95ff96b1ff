package recipe

import (
	"errors"
	"testing"
)

func TestDuplicateTitleRejected(t *testing.T) {
	store := NewStore()

	if err := store.Add(Recipe{ID: "1", Title: "Nasi Goreng"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, title := range []string{"Nasi Goreng", "nasi goreng", "  NASI GORENG  "} {
		err := store.Add(Recipe{ID: "2", Title: title})
		if !errors.Is(err, ErrDuplicateTitle) {
			t.Errorf("title %q: expected ErrDuplicateTitle, got %v", title, err)
		}
	}

	if len(store.List()) != 1 {
		t.Fatalf("duplicate was stored, have %d recipes", len(store.List()))
	}
}

func TestEditMayKeepOwnTitle(t *testing.T) {
	store := NewStore()
	store.Add(Recipe{ID: "1", Title: "Nasi Goreng"})

	if err := store.Edit("1", Recipe{Title: "Nasi Goreng", Category: "Cemilan"}); err != nil {
		t.Fatalf("editing a recipe under its own title must pass: %v", err)
	}

	got, _ := store.Get("1")
	if got.Category != "Cemilan" {
		t.Fatalf("edit not applied: %+v", got)
	}
}

func TestEditRejectsOtherRecipesTitle(t *testing.T) {
	store := NewStore()
	store.Add(Recipe{ID: "1", Title: "Nasi Goreng"})
	store.Add(Recipe{ID: "2", Title: "Sate Ayam"})

	err := store.Edit("2", Recipe{Title: "nasi goreng"})
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestSetPrice(t *testing.T) {
	store := NewStore()
	store.Add(Recipe{ID: "1", Title: "Nasi Goreng", HPP: 10000})

	updated, ok := store.SetPrice("1", 20000, 75)
	if !ok {
		t.Fatal("recipe not found")
	}
	if updated.SellingPrice == nil || *updated.SellingPrice != 20000 {
		t.Fatalf("selling price not set: %+v", updated)
	}
	if updated.Margin == nil || *updated.Margin != 75 {
		t.Fatalf("margin not set: %+v", updated)
	}
}

func TestRemove(t *testing.T) {
	store := NewStore()
	store.Add(Recipe{ID: "1", Title: "Nasi Goreng"})

	if _, ok := store.Remove("1"); !ok {
		t.Fatal("remove failed")
	}
	if _, ok := store.Remove("1"); ok {
		t.Fatal("second remove should report missing")
	}
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	store := NewStore()

	var notified int
	unsubscribe := store.Subscribe(func(Recipe) { notified++ })

	store.Add(Recipe{ID: "1", Title: "A"})
	store.SetPrice("1", 100, 60)
	store.Remove("1")

	if notified != 3 {
		t.Fatalf("expected 3 notifications, got %d", notified)
	}

	unsubscribe()
	store.Add(Recipe{ID: "2", Title: "B"})
	if notified != 3 {
		t.Fatal("notified after unsubscribe")
	}
}
