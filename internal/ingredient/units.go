package ingredient

import "strings"

// SatuanList is the accepted unit vocabulary. Ingredients and CSV
// rows naming anything else are rejected.
var SatuanList = []string{
	// Berat
	"gram", "kg", "mg",

	// Volume
	"ml", "liter", "cl", "cup", "gelas", "tsp", "tbsp", "sendok teh", "sendok makan",

	// Jumlah / pcs
	"butir", "pcs", "buah", "biji", "porsi", "sachet", "package",

	// Lembar / batang / iris
	"lembar", "batang", "slice", "iris", "strip",

	// Bahan kering/minor
	"sdt", "sdm",

	// Lain-lain
	"cc", "drops", "paket", "bungkus", "tangkai",
}

var unitSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SatuanList))
	for _, u := range SatuanList {
		m[u] = struct{}{}
	}
	return m
}()

func ValidUnit(unit string) bool {
	_, ok := unitSet[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}
