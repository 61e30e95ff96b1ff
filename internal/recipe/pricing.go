package recipe

import (
	"errors"
	"strconv"
	"strings"

	"dapurku/internal/core"
)

const (
	// DefaultMargin is the starting markup percentage.
	DefaultMargin = 60.0

	// Slider bounds for the margin control.
	MinMargin  = 0.0
	MaxMargin  = 500.0
	MarginStep = 5.0
)

var ErrInvalidPrice = errors.New("price must be a positive whole number")

// Pricing is the derived price view of one recipe.
type Pricing struct {
	HPP            float64  `json:"hpp"`
	Margin         float64  `json:"margin"`
	AutomaticPrice int      `json:"automaticPrice"`
	FinalPrice     int      `json:"finalPrice"`
	IsManual       bool     `json:"isManual"`
	// DerivedMargin is the effective markup of the final price over
	// HPP; nil when HPP is zero.
	DerivedMargin *float64 `json:"derivedMargin,omitempty"`
}

// ClampMargin bounds a margin to the slider's range and step.
func ClampMargin(margin float64) float64 {
	if margin < MinMargin {
		return MinMargin
	}
	if margin > MaxMargin {
		return MaxMargin
	}
	return margin
}

// ComputePricing derives the displayed price. The automatic price is
// round(hpp + hpp*margin/100); a positive manual override wins over
// it, with margin still reported as the derived percentage.
func ComputePricing(hpp, margin float64, manualPrice *int) Pricing {
	margin = ClampMargin(margin)
	automatic := core.RoundPrice(hpp + hpp*margin/100)

	p := Pricing{
		HPP:            hpp,
		Margin:         margin,
		AutomaticPrice: automatic,
		FinalPrice:     automatic,
	}

	if manualPrice != nil && *manualPrice > 0 {
		p.FinalPrice = *manualPrice
		p.IsManual = true
	}

	if hpp > 0 {
		derived := core.Round2((float64(p.FinalPrice) - hpp) / hpp * 100)
		p.DerivedMargin = &derived
	}

	return p
}

// ParseManualPrice validates free-text price input. Only a positive
// integer is accepted.
func ParseManualPrice(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, ErrInvalidPrice
	}
	return n, nil
}
