package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/FlipResolver_Go/internal/domain"
)

func TestPostTaxPrice(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		want  int64
	}{
		{"zero", 0, 0},
		{"below one percent granularity", 99, 99},
		{"exact hundred", 100, 99},
		{"floors fractional tax", 1_999, 1_980},
		{"just below cap threshold", 499_999_999, 499_999_999 - 4_999_999},
		{"exactly at cap threshold", 500_000_000, 495_000_000},
		{"above cap threshold", 2_147_483_647, 2_147_483_647 - 5_000_000},
		{"negative price is untaxed", -10, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostTaxPrice(tt.price))
		})
	}
}

func TestTax_NeverExceedsCap(t *testing.T) {
	for _, price := range []int64{1, 1_000, 499_999_999, 500_000_000, 9_000_000_000} {
		assert.LessOrEqual(t, Tax(price), TaxCap)
	}
}

func TestRealizedPrice_OnlySellsAreTaxed(t *testing.T) {
	assert.Equal(t, int64(1_000), RealizedPrice(1_000, domain.SideBuy))
	assert.Equal(t, int64(990), RealizedPrice(1_000, domain.SideSell))
}
