// Package pricing holds the pure quotation arithmetic. Stored amounts are
// never trusted: every content write recomputes line amounts, the total and
// the in-words rendering from quantity and unit price.
package pricing

import (
	"github.com/highrangestar/quotation-api/internal/domain"
)

// Amount computes a single line amount
func Amount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Total sums the recomputed amounts of all items
func Total(items []domain.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += Amount(item.Quantity, item.UnitPrice)
	}
	return total
}

// Recalculate rewrites every item's amount and returns the content with a
// fresh total and in-words rendering. The input slice is modified in place.
func Recalculate(content domain.QuotationContent) domain.QuotationContent {
	var total float64
	for i := range content.Items {
		content.Items[i].Amount = Amount(content.Items[i].Quantity, content.Items[i].UnitPrice)
		total += content.Items[i].Amount
	}
	content.Total = total
	content.TotalInWords = AmountInWords(total)
	return content
}
