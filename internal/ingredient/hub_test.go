package ingredient

import (
	"context"
	"sync"
	"testing"
	"time"
)

// slowRepository delays the initial load so concurrent first-touch
// callers would observe an unprimed store without the once gate.
type slowRepository struct {
	*memoryRepository
	delay time.Duration
}

func (s *slowRepository) ListByUser(ctx context.Context, userID string) ([]Ingredient, error) {
	time.Sleep(s.delay)
	return s.memoryRepository.ListByUser(ctx, userID)
}

func TestForUserWaitsForInitialLoad(t *testing.T) {
	repo := newMemoryRepository()
	repo.items["ing-1"] = Ingredient{
		ID: "ing-1", UserID: "user-1", Name: "Gula Pasir",
		Unit: "gram", Quantity: 1000, TotalPrice: 15000, PricePerUnit: 15,
	}

	hub := NewHub(&slowRepository{memoryRepository: repo, delay: 50 * time.Millisecond}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := hub.ForUser(context.Background(), "user-1")
			if got := len(svc.Store().List()); got != 1 {
				t.Errorf("got %d ingredients before priming finished", got)
			}
		}()
	}
	wg.Wait()
}

func TestForUserReusesService(t *testing.T) {
	hub := NewHub(newMemoryRepository(), nil)

	first := hub.ForUser(context.Background(), "user-1")
	second := hub.ForUser(context.Background(), "user-1")
	if first != second {
		t.Fatal("expected the same service for repeat calls")
	}

	other := hub.ForUser(context.Background(), "user-2")
	if other == first {
		t.Fatal("expected a distinct service per user")
	}
}
