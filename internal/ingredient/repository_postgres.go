package ingredient

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The remote store caps batched deletes at 500 operations per batch.
const deleteChunkSize = 500

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Ingredient, error) {

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, unit, quantity, total_price, price_per_unit,
		       created_at, updated_at
		FROM ingredients
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Ingredient
	for rows.Next() {
		var it Ingredient
		if err := rows.Scan(
			&it.ID,
			&it.UserID,
			&it.Name,
			&it.Unit,
			&it.Quantity,
			&it.TotalPrice,
			&it.PricePerUnit,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *PostgresRepository) Upsert(ctx context.Context, item Ingredient) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ingredients (
			id, user_id, name, unit, quantity, total_price, price_per_unit,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			quantity = EXCLUDED.quantity,
			total_price = EXCLUDED.total_price,
			price_per_unit = EXCLUDED.price_per_unit,
			updated_at = now()
	`, item.ID, item.UserID, item.Name, item.Unit,
		item.Quantity, item.TotalPrice, item.PricePerUnit)

	return err
}

func (r *PostgresRepository) UpsertMany(ctx context.Context, items []Ingredient) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO ingredients (
				id, user_id, name, unit, quantity, total_price, price_per_unit,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				unit = EXCLUDED.unit,
				quantity = EXCLUDED.quantity,
				total_price = EXCLUDED.total_price,
				price_per_unit = EXCLUDED.price_per_unit,
				updated_at = now()
		`, item.ID, item.UserID, item.Name, item.Unit,
			item.Quantity, item.TotalPrice, item.PricePerUnit)
	}

	return r.db.SendBatch(ctx, batch).Close()
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM ingredients
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	return err
}

// DeleteMany chunks the ids so no single batch exceeds the remote
// store's 500-operation limit.
func (r *PostgresRepository) DeleteMany(
	ctx context.Context,
	userID string,
	ids []string,
) error {

	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := &pgx.Batch{}
		for _, id := range ids[start:end] {
			batch.Queue(`
				DELETE FROM ingredients
				WHERE user_id = $1 AND id = $2
			`, userID, id)
		}

		if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM ingredients
		WHERE user_id = $1
	`, userID)

	return err
}
