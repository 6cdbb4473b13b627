package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", value, err)
	}
	return d
}

func decPtr(t *testing.T, value string) *decimal.Decimal {
	t.Helper()
	d := dec(t, value)
	return &d
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(t, want)) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestComputeLineItem_PercentMarkup(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategoryMaterials,
		Quantity:    dec(t, "4"),
		CostPerUnit: dec(t, "100"),
		Markup:      PercentMarkup(dec(t, "20")),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}

	requireDec(t, "120", got.PricePerUnit)
	requireDec(t, "480", got.Total)
	requireDec(t, "400", got.TotalCost)
	requireDec(t, "80", got.TotalMarkup)
	if !got.Total.Equal(got.PricePerUnit.Mul(dec(t, "4"))) {
		t.Fatal("total must equal quantity times price per unit")
	}
	if !got.TotalMarkup.Equal(got.Total.Sub(got.TotalCost)) {
		t.Fatal("total markup must equal total minus total cost")
	}
}

func TestComputeLineItem_AmountMarkup(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategoryEquipment,
		Quantity:    dec(t, "2"),
		CostPerUnit: dec(t, "250"),
		Markup:      AmountMarkup(dec(t, "35.50")),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}
	requireDec(t, "285.50", got.PricePerUnit)
	requireDec(t, "571.00", got.Total)
}

func TestComputeLineItem_LaborRatesOverrideCostBasis(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:              enums.CategoryLaborInternal,
		Quantity:              dec(t, "1"),
		CostPerUnit:           dec(t, "45"),
		Markup:                PercentMarkup(dec(t, "10")),
		LaborHours:            decPtr(t, "40"),
		BillingRatePerHour:    decPtr(t, "85"),
		ActualCostRatePerHour: decPtr(t, "60"),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}

	// The billed rate replaces the entered cost per unit.
	requireDec(t, "85", got.CostPerUnit)
	requireDec(t, "93.5", got.PricePerUnit)
	// cushion = 40 x (85 - 60)
	requireDec(t, "1000", got.LaborCushionAmount)
}

func TestComputeLineItem_LaborCushionZeroWhenRateMissing(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:           enums.CategoryLaborInternal,
		Quantity:           dec(t, "1"),
		CostPerUnit:        dec(t, "45"),
		Markup:             NoMarkup(),
		LaborHours:         decPtr(t, "40"),
		BillingRatePerHour: decPtr(t, "85"),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}
	// Without both rates the cost basis stays as entered.
	requireDec(t, "45", got.CostPerUnit)
	requireDec(t, "0", got.LaborCushionAmount)
}

func TestComputeLineItem_NegativePercentIsDiscount(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategorySubcontractors,
		Quantity:    dec(t, "1"),
		CostPerUnit: dec(t, "200"),
		Markup:      PercentMarkup(dec(t, "-25")),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}
	requireDec(t, "150", got.PricePerUnit)
	if !got.TotalMarkup.IsNegative() {
		t.Fatalf("discounted line should carry negative markup, got %s", got.TotalMarkup)
	}
}

func TestComputeLineItem_PercentFloor(t *testing.T) {
	_, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategoryOther,
		Quantity:    dec(t, "1"),
		CostPerUnit: dec(t, "10"),
		Markup:      PercentMarkup(dec(t, "-100.01")),
	})
	if !errors.Is(err, ErrMarkupBelowFloor) {
		t.Fatalf("expected ErrMarkupBelowFloor, got %v", err)
	}
}

func TestComputeLineItem_MarginZeroOnNonPositivePrice(t *testing.T) {
	got, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategoryOther,
		Quantity:    dec(t, "3"),
		CostPerUnit: dec(t, "50"),
		Markup:      PercentMarkup(dec(t, "-100")),
	})
	if err != nil {
		t.Fatalf("ComputeLineItem error: %v", err)
	}
	requireDec(t, "0", got.PricePerUnit)
	requireDec(t, "0", got.MarginPercent)
}

func TestComputeLineItem_NegativeQuantityRejected(t *testing.T) {
	_, err := ComputeLineItem(LineItemInput{
		Category:    enums.CategoryMaterials,
		Quantity:    dec(t, "-1"),
		CostPerUnit: dec(t, "10"),
		Markup:      NoMarkup(),
	})
	if !errors.Is(err, ErrNegativeQuantity) {
		t.Fatalf("expected ErrNegativeQuantity, got %v", err)
	}
}

func TestMarkupModeSwitchRoundTrip(t *testing.T) {
	cost := dec(t, "180")
	original := PercentMarkup(dec(t, "17.5"))
	price := original.Apply(cost)

	// percent -> amount -> percent with no other edits restores the price.
	asAmount := AmountMarkup(price.Sub(cost))
	requireDec(t, price.String(), asAmount.Apply(cost))

	backToPercent := PercentMarkup(ratioPercent(price.Sub(cost), cost))
	if !backToPercent.Apply(cost).Sub(price).Abs().LessThan(dec(t, "0.0000001")) {
		t.Fatalf("round trip drifted: %s vs %s", backToPercent.Apply(cost), price)
	}
}

func TestMarkupFromColumns(t *testing.T) {
	if got := MarkupFromColumns(decPtr(t, "15"), nil); got.Mode() != MarkupModePercent {
		t.Fatalf("expected percent mode, got %q", got.Mode())
	}
	if got := MarkupFromColumns(nil, decPtr(t, "9.99")); got.Mode() != MarkupModeAmount {
		t.Fatalf("expected amount mode, got %q", got.Mode())
	}
	if got := MarkupFromColumns(nil, nil); got.Mode() != MarkupModeNone {
		t.Fatalf("expected no markup, got %q", got.Mode())
	}

	m := PercentMarkup(dec(t, "12"))
	if m.AmountColumn() != nil {
		t.Fatal("percent markup must not populate the amount column")
	}
	if m.PercentColumn() == nil || !m.PercentColumn().Equal(dec(t, "12")) {
		t.Fatal("percent column should round-trip the value")
	}
}
