package recipe

import "context"

// Repository defines the remote document operations for a user's
// recipe subcollection.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Recipe, error)
	Upsert(ctx context.Context, r Recipe) error
	Delete(ctx context.Context, userID, id string) error
}
