package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// PricedLine is the minimal view of a stored line item the aggregator
// needs; estimate and quote line items both project onto it.
type PricedLine struct {
	Category  enums.LineItemCategory
	Total     decimal.Decimal
	TotalCost decimal.Decimal
}

// CategoryTotals is the per-category slice of a document aggregation.
type CategoryTotals struct {
	Amount decimal.Decimal `json:"amount"`
	Cost   decimal.Decimal `json:"cost"`
	Markup decimal.Decimal `json:"markup"`
}

// DocumentTotals is the full roll-up of a line item list. ByCategory holds
// only categories that appear in the input.
type DocumentTotals struct {
	TotalAmount decimal.Decimal                          `json:"total_amount"`
	TotalCost   decimal.Decimal                          `json:"total_cost"`
	TotalMarkup decimal.Decimal                          `json:"total_markup"`
	ByCategory  map[enums.LineItemCategory]CategoryTotals `json:"by_category"`
}

// Aggregate folds line items into document and per-category totals. The
// fold is order-independent and an empty input yields all-zero totals.
func Aggregate(lines []PricedLine) DocumentTotals {
	totals := DocumentTotals{
		ByCategory: make(map[enums.LineItemCategory]CategoryTotals, len(enums.LineItemCategories())),
	}
	for _, line := range lines {
		markup := line.Total.Sub(line.TotalCost)
		totals.TotalAmount = totals.TotalAmount.Add(line.Total)
		totals.TotalCost = totals.TotalCost.Add(line.TotalCost)
		totals.TotalMarkup = totals.TotalMarkup.Add(markup)

		entry := totals.ByCategory[line.Category]
		entry.Amount = entry.Amount.Add(line.Total)
		entry.Cost = entry.Cost.Add(line.TotalCost)
		entry.Markup = entry.Markup.Add(markup)
		totals.ByCategory[line.Category] = entry
	}
	return totals
}
