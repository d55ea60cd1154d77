// Package pricing converts nominal Grand Exchange prices into realized values.
package pricing

import "github.com/osse101/FlipResolver_Go/internal/domain"

const (
	// TaxCapThreshold is the unit price at or above which the flat cap replaces the percentage
	TaxCapThreshold int64 = 500_000_000

	// TaxCap is the flat tax charged on prices at or above TaxCapThreshold
	TaxCap int64 = 5_000_000

	// TaxRateDivisor expresses the 1% rate as an integer divisor so that floor(price*0.01) is exact
	TaxRateDivisor int64 = 100
)

// Tax returns the GE tax charged on a single unit sold at price
func Tax(price int64) int64 {
	if price <= 0 {
		return 0
	}
	if price >= TaxCapThreshold {
		return TaxCap
	}
	return price / TaxRateDivisor
}

// PostTaxPrice returns what a seller realizes for one unit sold at price
func PostTaxPrice(price int64) int64 {
	return price - Tax(price)
}

// RealizedPrice applies tax to sells only. Buys cost their nominal price.
func RealizedPrice(price int64, side domain.Side) int64 {
	if side == domain.SideSell {
		return PostTaxPrice(price)
	}
	return price
}
