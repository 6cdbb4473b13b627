// Package pricing is the financial roll-up and comparison engine: pure
// functions over line items producing totals, margins, variances, and
// quote recommendations. Nothing in this package touches the network or
// the database.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

var (
	// ErrNegativeQuantity rejects line items with a quantity below zero.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	// ErrNegativeCost rejects line items whose cost basis is below zero.
	ErrNegativeCost = errors.New("cost per unit must not be negative")
)

// LineItemInput is the cost basis and markup specification for one line.
// Labor fields apply only to the internal labor category.
type LineItemInput struct {
	Category              enums.LineItemCategory
	Quantity              decimal.Decimal
	CostPerUnit           decimal.Decimal
	Markup                Markup
	LaborHours            *decimal.Decimal
	BillingRatePerHour    *decimal.Decimal
	ActualCostRatePerHour *decimal.Decimal
}

// LineItemPricing holds every derived figure for a line item. MarginPercent
// is display-only and never stored.
type LineItemPricing struct {
	CostPerUnit        decimal.Decimal
	PricePerUnit       decimal.Decimal
	Total              decimal.Decimal
	TotalCost          decimal.Decimal
	TotalMarkup        decimal.Decimal
	MarginPercent      decimal.Decimal
	LaborCushionAmount decimal.Decimal
}

// ComputeLineItem derives price and totals from a cost basis and markup.
//
// For internal labor with both rates present, the billed rate stands in as
// the cost basis, so the "cost" fed into markup math is the client-facing
// rate rather than the true internal rate. That rule is preserved from the
// product's established behavior; the hidden spread is surfaced separately
// as the labor cushion.
func ComputeLineItem(input LineItemInput) (LineItemPricing, error) {
	if input.Quantity.IsNegative() {
		return LineItemPricing{}, ErrNegativeQuantity
	}
	if err := input.Markup.Validate(); err != nil {
		return LineItemPricing{}, err
	}

	costBasis := input.CostPerUnit
	cushion := decimal.Zero
	if input.Category == enums.CategoryLaborInternal &&
		input.BillingRatePerHour != nil && input.ActualCostRatePerHour != nil {
		costBasis = *input.BillingRatePerHour
		if input.LaborHours != nil {
			cushion = input.LaborHours.Mul(input.BillingRatePerHour.Sub(*input.ActualCostRatePerHour))
		}
	}
	if costBasis.IsNegative() {
		return LineItemPricing{}, ErrNegativeCost
	}

	price := input.Markup.Apply(costBasis)
	total := input.Quantity.Mul(price)
	totalCost := input.Quantity.Mul(costBasis)

	return LineItemPricing{
		CostPerUnit:        costBasis,
		PricePerUnit:       price,
		Total:              total,
		TotalCost:          totalCost,
		TotalMarkup:        total.Sub(totalCost),
		MarginPercent:      ratioPercent(price.Sub(costBasis), price),
		LaborCushionAmount: cushion,
	}, nil
}

// ratioPercent returns numer/denom as a percentage, or zero whenever the
// denominator is zero or negative. Percentages never error or panic on a
// non-positive denominator.
func ratioPercent(numer, denom decimal.Decimal) decimal.Decimal {
	if denom.Sign() <= 0 {
		return decimal.Zero
	}
	return numer.Div(denom).Mul(hundred)
}
