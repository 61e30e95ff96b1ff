package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KeyUserName, []byte(`"Agung"`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	raw, err := s.Get(ctx, KeyUserName)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != `"Agung"` {
		t.Fatalf("unexpected value: %s", raw)
	}
}

func TestPutReplacesWholeValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	type draft struct {
		Title string   `json:"title"`
		Steps []string `json:"steps"`
	}

	if err := s.PutJSON(ctx, KeyDraft, draft{Title: "Nasi Goreng", Steps: []string{"a", "b"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.PutJSON(ctx, KeyDraft, draft{Title: "Sate"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	var got draft
	if err := s.GetJSON(ctx, KeyDraft, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Sate" || len(got.Steps) != 0 {
		t.Fatalf("overwrite did not replace whole value: %+v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "no_such_key")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, KeyDraft, []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(ctx, KeyDraft); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, KeyDraft); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
