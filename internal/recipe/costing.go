package recipe

import (
	"strings"

	"dapurku/internal/core"
	"dapurku/internal/ingredient"
)

// Index is an O(1) lookup view over one version of the ingredient
// collection, keyed by id with a case-insensitive trimmed name
// fallback. Built once per collection fingerprint; never mutated.
type Index struct {
	byID   map[string]ingredient.Ingredient
	byName map[string]ingredient.Ingredient
}

func NewIndex(items []ingredient.Ingredient) *Index {
	idx := &Index{
		byID:   make(map[string]ingredient.Ingredient, len(items)),
		byName: make(map[string]ingredient.Ingredient, len(items)),
	}
	for _, it := range items {
		idx.byID[it.ID] = it
		idx.byName[normalizeName(it.Name)] = it
	}
	return idx
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve looks the line's ingredient up by id, then falls back to
// name matching. The name fallback is a compatibility shim for lines
// imported before ids were tracked.
func (idx *Index) Resolve(line IngredientLine) (ingredient.Ingredient, bool) {
	if it, ok := idx.byID[line.IngredientID]; ok {
		return it, true
	}
	it, ok := idx.byName[normalizeName(line.Name)]
	return it, ok
}

// RefreshLines recomputes each line's cost, name and unit from the
// ingredient it resolves to. A line that resolves to nothing keeps
// its previous values untouched: the reference gap is tolerated, not
// an error. Running it twice over unchanged inputs yields identical
// output.
func RefreshLines(lines []IngredientLine, idx *Index) []IngredientLine {
	out := make([]IngredientLine, len(lines))
	for i, line := range lines {
		matched, ok := idx.Resolve(line)
		if !ok {
			out[i] = line
			continue
		}

		line.IngredientID = matched.ID
		line.Name = matched.Name
		line.Unit = matched.Unit
		line.Cost = core.Round2(matched.PricePerUnit * line.Quantity)
		out[i] = line
	}
	return out
}

// TotalHPP sums the line costs, rounded to 2 decimals.
func TotalHPP(lines []IngredientLine) float64 {
	var sum float64
	for _, line := range lines {
		sum += line.Cost
	}
	return core.Round2(sum)
}
