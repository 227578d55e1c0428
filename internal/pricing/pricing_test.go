package pricing

import (
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate(t *testing.T) {
	content := domain.QuotationContent{
		Items: []domain.LineItem{
			{SlNo: "H01", Description: "Hydraulic hose replacement", Quantity: 2, UnitPrice: 100},
			{SlNo: "H02", Description: "Pressure test", Quantity: 1, UnitPrice: 350.50},
		},
		// Stale stored values that must be overwritten
		Total:        999999,
		TotalInWords: "STALE",
	}

	result := Recalculate(content)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 200.0, result.Items[0].Amount)
	assert.Equal(t, 350.50, result.Items[1].Amount)
	assert.Equal(t, 550.50, result.Total)
	assert.Equal(t, "FIVE HUNDRED FIFTY ONE QATAR RIYALS ONLY.", result.TotalInWords)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	content := domain.QuotationContent{
		Items: []domain.LineItem{
			{Description: "Deck crane inspection", Quantity: 3, UnitPrice: 1200},
			{Description: "Spare seals", Quantity: 10, UnitPrice: 45},
		},
	}

	once := Recalculate(content)
	twice := Recalculate(once)

	assert.Equal(t, once.Total, twice.Total)
	assert.Equal(t, once.TotalInWords, twice.TotalInWords)
	assert.Equal(t, once.Items, twice.Items)
}

func TestRecalculateEmptyItems(t *testing.T) {
	result := Recalculate(domain.QuotationContent{})

	assert.Equal(t, 0.0, result.Total)
	assert.Equal(t, "ZERO QATAR RIYALS ONLY.", result.TotalInWords)
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "ZERO QATAR RIYALS ONLY."},
		{"single digit", 5, "FIVE QATAR RIYALS ONLY."},
		{"teens", 14, "FOURTEEN QATAR RIYALS ONLY."},
		{"tens", 40, "FORTY QATAR RIYALS ONLY."},
		{"compound tens", 87, "EIGHTY SEVEN QATAR RIYALS ONLY."},
		{"hundreds", 200, "TWO HUNDRED QATAR RIYALS ONLY."},
		{"hundred and remainder", 345, "THREE HUNDRED FORTY FIVE QATAR RIYALS ONLY."},
		{"thousand with and", 10600, "TEN THOUSAND AND SIX HUNDRED QATAR RIYALS ONLY."},
		{"round thousand", 25000, "TWENTY FIVE THOUSAND QATAR RIYALS ONLY."},
		{"thousand and units", 1001, "ONE THOUSAND AND ONE QATAR RIYALS ONLY."},
		{"million", 2000000, "TWO MILLION QATAR RIYALS ONLY."},
		{"million thousand and group", 1234567, "ONE MILLION TWO HUNDRED THIRTY FOUR THOUSAND AND FIVE HUNDRED SIXTY SEVEN QATAR RIYALS ONLY."},
		{"skips zero group", 1000500, "ONE MILLION AND FIVE HUNDRED QATAR RIYALS ONLY."},
		{"billion", 3e9, "THREE BILLION QATAR RIYALS ONLY."},
		{"trillion", 1.5e12, "ONE TRILLION AND FIVE HUNDRED BILLION QATAR RIYALS ONLY."},
		{"rounds to nearest", 99.6, "ONE HUNDRED QATAR RIYALS ONLY."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(tt.amount))
		})
	}
}
