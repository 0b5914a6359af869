package usecase

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

var (
	maxVariation = decimal.RequireFromString("0.05")
	one          = decimal.NewFromInt(1)
)

// PriceSimulator derives synthetic tick prices from a reference price.
type PriceSimulator struct {
	// draw returns a uniform value in [0, 1].
	draw func() float64
}

// NewPriceSimulator returns a simulator backed by draw. A nil draw uses math/rand/v2.
func NewPriceSimulator(draw func() float64) *PriceSimulator {
	if draw == nil {
		draw = rand.Float64
	}
	return &PriceSimulator{draw: draw}
}

// Next perturbs ref by a uniform offset within ±5% and rounds to two decimals.
// The result never leaves the band [ref*0.95, ref*1.05].
func (p *PriceSimulator) Next(ref decimal.Decimal) decimal.Decimal {
	if ref.Sign() <= 0 {
		return ref.Round(2)
	}
	u := p.draw()
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	variation := decimal.NewFromFloat(u*2 - 1).Mul(maxVariation)
	price := ref.Add(ref.Mul(variation)).Round(2)

	lower := ref.Mul(one.Sub(maxVariation)).RoundCeil(2)
	upper := ref.Mul(one.Add(maxVariation)).RoundFloor(2)
	if lower.GreaterThan(upper) {
		// sub-cent reference: no two-decimal value fits inside the band
		return price
	}
	if price.LessThan(lower) {
		return lower
	}
	if price.GreaterThan(upper) {
		return upper
	}
	return price
}
