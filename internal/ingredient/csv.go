package ingredient

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CSVRow is one raw record from an ingredient import file with the
// header: name, quantity, totalPrice, unit.
type CSVRow struct {
	Name       string
	Quantity   string
	TotalPrice string
	Unit       string
}

var ErrMissingHeader = errors.New("csv: missing required header columns")

// ParseCSVRow validates a raw row and builds an Ingredient. Rows with
// a missing name or unit, a non-numeric or non-positive quantity or
// price, or a unit outside the accepted vocabulary yield (zero,
// false) and are dropped by the importer without surfacing an error.
func ParseCSVRow(row CSVRow) (Ingredient, bool) {
	name := strings.TrimSpace(row.Name)
	unit := strings.TrimSpace(row.Unit)

	qty, errQty := strconv.ParseFloat(strings.TrimSpace(row.Quantity), 64)
	price, errPrice := strconv.ParseFloat(strings.TrimSpace(row.TotalPrice), 64)

	if name == "" || unit == "" || errQty != nil || errPrice != nil || qty <= 0 || price <= 0 {
		return Ingredient{}, false
	}
	if !ValidUnit(unit) {
		return Ingredient{}, false
	}

	return Ingredient{
		ID:           uuid.New().String(),
		Name:         name,
		Unit:         unit,
		Quantity:     qty,
		TotalPrice:   price,
		PricePerUnit: PricePerUnit(price, qty),
	}, true
}

// ReadCSV parses an import file into valid ingredients, silently
// dropping invalid rows. The header row decides column order.
func ReadCSV(r io.Reader) ([]Ingredient, error) {
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
	for _, required := range []string{"name", "quantity", "totalPrice", "unit"} {
		if _, ok := cols[required]; !ok {
			return nil, ErrMissingHeader
		}
	}

	var items []Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed record, skip like any other invalid row.
			continue
		}

		field := func(name string) string {
			i := cols[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		item, ok := ParseCSVRow(CSVRow{
			Name:       field("name"),
			Quantity:   field("quantity"),
			TotalPrice: field("totalPrice"),
			Unit:       field("unit"),
		})
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}
