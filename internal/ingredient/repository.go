package ingredient

import "context"

// Repository defines the remote document operations for a user's
// ingredient subcollection. Service depends ONLY on this interface.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Ingredient, error)
	Upsert(ctx context.Context, item Ingredient) error
	UpsertMany(ctx context.Context, items []Ingredient) error
	Delete(ctx context.Context, userID, id string) error

	// DeleteMany removes the given documents in chunks of at most
	// deleteChunkSize operations per batch.
	DeleteMany(ctx context.Context, userID string, ids []string) error

	DeleteAll(ctx context.Context, userID string) error
}
