package recipe

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Recipe, error) {

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, description, ingredients, image_uris,
		       category, hpp, selling_price, margin, created_at, updated_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var (
			rec          Recipe
			linesJSON    []byte
			imageURIJSON []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Title,
			&rec.Description,
			&linesJSON,
			&imageURIJSON,
			&rec.Category,
			&rec.HPP,
			&rec.SellingPrice,
			&rec.Margin,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(linesJSON, &rec.Ingredients); err != nil {
			return nil, err
		}
		if len(imageURIJSON) > 0 {
			if err := json.Unmarshal(imageURIJSON, &rec.ImageURIs); err != nil {
				return nil, err
			}
		}

		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec Recipe) error {
	linesJSON, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}
	imageURIJSON, err := json.Marshal(rec.ImageURIs)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO recipes (
			id, user_id, title, description, ingredients, image_uris,
			category, hpp, selling_price, margin, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			ingredients = EXCLUDED.ingredients,
			image_uris = EXCLUDED.image_uris,
			category = EXCLUDED.category,
			hpp = EXCLUDED.hpp,
			selling_price = EXCLUDED.selling_price,
			margin = EXCLUDED.margin,
			updated_at = now()
	`, rec.ID, rec.UserID, rec.Title, rec.Description, linesJSON, imageURIJSON,
		rec.Category, rec.HPP, rec.SellingPrice, rec.Margin)

	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM recipes
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	return err
}
