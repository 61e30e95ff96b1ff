package recipe

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"dapurku/internal/core"
	"dapurku/internal/ingredient"

	"github.com/google/uuid"
)

var ErrUnknownCSVFormat = errors.New("csv: unrecognized recipe header")

// ParsedRecipe is one grouped import result before it is committed
// through the store.
type ParsedRecipe struct {
	Title       string
	Ingredients []IngredientLine
}

// ReadCSV imports recipes from either supported layout:
//
//	title, ingredients, jumlah_bahan        lines reference ingredients by name
//	title, name, quantity, unit, pricePerUnit   lines carry their own price data
//
// Rows are grouped by title. Rows that fail validation or reference
// an ingredient that does not exist are dropped silently; duplicate
// ingredient rows under one title sum their quantities.
func ReadCSV(r io.Reader, idx *Index) ([]ParsedRecipe, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := cols[n]; !ok {
				return false
			}
		}
		return true
	}

	switch {
	case has("title", "ingredients", "jumlah_bahan"):
		return readByReference(reader, cols, idx)
	case has("title", "name", "quantity", "unit", "pricePerUnit"):
		return readSelfPriced(reader, cols, idx)
	default:
		return nil, ErrUnknownCSVFormat
	}
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// grouping preserves the order titles first appear in the file.
type grouping struct {
	order   []string
	recipes map[string]*ParsedRecipe
}

func newGrouping() *grouping {
	return &grouping{recipes: make(map[string]*ParsedRecipe)}
}

func (g *grouping) get(title string) *ParsedRecipe {
	if rec, ok := g.recipes[title]; ok {
		return rec
	}
	rec := &ParsedRecipe{Title: title}
	g.recipes[title] = rec
	g.order = append(g.order, title)
	return rec
}

func (g *grouping) result() []ParsedRecipe {
	out := make([]ParsedRecipe, 0, len(g.order))
	for _, title := range g.order {
		out = append(out, *g.recipes[title])
	}
	return out
}

func readByReference(
	reader *csv.Reader,
	cols map[string]int,
	idx *Index,
) ([]ParsedRecipe, error) {

	groups := newGrouping()

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		title := field(record, cols, "title")
		name := field(record, cols, "ingredients")
		qty, qtyErr := strconv.ParseFloat(field(record, cols, "jumlah_bahan"), 64)

		if title == "" || name == "" || qtyErr != nil || qty <= 0 {
			continue
		}

		matched, ok := idx.Resolve(IngredientLine{Name: name})
		if !ok {
			// Unknown ingredient, skip the row.
			continue
		}

		rec := groups.get(title)
		merged := false
		for i, line := range rec.Ingredients {
			if line.IngredientID == matched.ID {
				rec.Ingredients[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			rec.Ingredients = append(rec.Ingredients, IngredientLine{
				ID:           uuid.New().String(),
				IngredientID: matched.ID,
				Name:         matched.Name,
				Unit:         matched.Unit,
				Quantity:     qty,
			})
		}
	}

	// Costs computed once per grouped line, after quantity merging.
	result := groups.result()
	for i := range result {
		result[i].Ingredients = RefreshLines(result[i].Ingredients, idx)
	}
	return result, nil
}

func readSelfPriced(
	reader *csv.Reader,
	cols map[string]int,
	idx *Index,
) ([]ParsedRecipe, error) {

	groups := newGrouping()

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}

		title := field(record, cols, "title")
		name := field(record, cols, "name")
		unit := field(record, cols, "unit")
		qty, qtyErr := strconv.ParseFloat(field(record, cols, "quantity"), 64)
		ppu, ppuErr := strconv.ParseFloat(field(record, cols, "pricePerUnit"), 64)

		if title == "" || name == "" || qtyErr != nil || ppuErr != nil || qty <= 0 || ppu <= 0 {
			continue
		}
		if !ingredient.ValidUnit(unit) {
			continue
		}

		line := IngredientLine{
			ID:       uuid.New().String(),
			Name:     name,
			Unit:     unit,
			Quantity: qty,
			Cost:     core.Round2(ppu * qty),
		}
		// Link to the store entry when one exists under this name.
		if matched, ok := idx.Resolve(line); ok {
			line.IngredientID = matched.ID
		}

		groups.get(title).Ingredients = append(groups.get(title).Ingredients, line)
	}

	return groups.result(), nil
}
