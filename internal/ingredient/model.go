package ingredient

import (
	"time"

	"dapurku/internal/core"
)

// Ingredient is the costing source of truth: every recipe line's cost
// derives from an ingredient's price per unit.
type Ingredient struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId,omitempty"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Quantity     float64   `json:"quantity"`
	TotalPrice   float64   `json:"totalPrice"`
	PricePerUnit float64   `json:"pricePerUnit"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Input is what the form submits. PricePerUnit is always derived,
// never accepted from the caller.
type Input struct {
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// PricePerUnit derives the per-unit cost basis:
// totalPrice / quantity, rounded to 2 decimals.
func PricePerUnit(totalPrice, quantity float64) float64 {
	if quantity == 0 {
		return 0
	}
	return core.Round2(totalPrice / quantity)
}
