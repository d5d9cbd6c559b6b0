// Package valuation computes melt value and profit for a listing from its
// normalized weight and purity and the run's spot price.
package valuation

import "github.com/shopspring/decimal"

var pureKarat = decimal.NewFromInt(24)

// MeltValue is (purity/24) * weight * spot price per gram, rounded to two
// decimals (half away from zero).
func MeltValue(weightGrams float64, purityKarat int, spotPerGram decimal.Decimal) decimal.Decimal {
	purityFraction := decimal.NewFromInt(int64(purityKarat)).Div(pureKarat)
	return purityFraction.
		Mul(decimal.NewFromFloat(weightGrams)).
		Mul(spotPerGram).
		Round(2)
}

// Profit is melt value minus the listing price, rounded to two decimals.
// Negative profit means the listing asks more than the metal is worth.
func Profit(meltValue, price decimal.Decimal) decimal.Decimal {
	return meltValue.Sub(price).Round(2)
}
