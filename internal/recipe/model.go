package recipe

import "time"

// Categories the app offers for grouping recipes.
var Categories = []string{"Cemilan", "Minuman", "Dessert"}

// IngredientLine is one costed line of a recipe. IngredientID is a
// weak reference into the Ingredient Store: lookup-only, no
// ownership. Cost is the line's snapshot of
// pricePerUnit * quantity at the last recomputation.
type IngredientLine struct {
	ID           string  `json:"id"`
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
}

// Recipe is a composed dish. HPP is the cached total cost at last
// save; the authoritative value is always recomputed live from the
// current Ingredient Store. SellingPrice is a manual override of the
// margin-derived price; nil means the automatic price applies.
type Recipe struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId,omitempty"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Ingredients  []IngredientLine `json:"ingredients"`
	ImageURIs    []string         `json:"imageUris,omitempty"`
	Category     string           `json:"category,omitempty"`
	HPP          float64          `json:"hpp"`
	SellingPrice *int             `json:"sellingPrice,omitempty"`
	Margin       *float64         `json:"margin,omitempty"`
	CreatedAt    time.Time        `json:"createdAt,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt,omitempty"`
}

// Input is the recipe form payload.
type Input struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Ingredients []IngredientLine `json:"ingredients"`
	ImageURIs   []string         `json:"imageUris"`
	Category    string           `json:"category"`
}
