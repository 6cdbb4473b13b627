package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

func TestContingencyScenario(t *testing.T) {
	// Two line items totaling cost 1000 at 20% markup give a 1200 total;
	// a 10% contingency reserves 120. A 50 draw leaves 70, and a further
	// 100 draw must be rejected.
	inputs := []LineItemInput{
		{Category: enums.CategoryMaterials, Quantity: dec(t, "1"), CostPerUnit: dec(t, "600"), Markup: PercentMarkup(dec(t, "20"))},
		{Category: enums.CategoryEquipment, Quantity: dec(t, "1"), CostPerUnit: dec(t, "400"), Markup: PercentMarkup(dec(t, "20"))},
	}

	var lines []PricedLine
	for _, input := range inputs {
		priced, err := ComputeLineItem(input)
		if err != nil {
			t.Fatalf("ComputeLineItem error: %v", err)
		}
		lines = append(lines, PricedLine{Category: input.Category, Total: priced.Total, TotalCost: priced.TotalCost})
	}

	totals := Aggregate(lines)
	requireDec(t, "1200", totals.TotalAmount)
	requireDec(t, "1000", totals.TotalCost)

	reserve := ContingencyAmount(totals.TotalAmount, dec(t, "10"))
	requireDec(t, "120", reserve)

	used := decimal.Zero
	if err := ValidateAllocation(dec(t, "50"), reserve, used); err != nil {
		t.Fatalf("first allocation should succeed: %v", err)
	}
	used = used.Add(dec(t, "50"))
	requireDec(t, "70", ContingencyRemaining(reserve, used))

	if err := ValidateAllocation(dec(t, "100"), reserve, used); !errors.Is(err, ErrAllocationExceedsRemaining) {
		t.Fatalf("expected ErrAllocationExceedsRemaining, got %v", err)
	}
}

func TestValidateAllocation_RejectsNonPositive(t *testing.T) {
	reserve := dec(t, "100")
	for _, amount := range []string{"0", "-10"} {
		if err := ValidateAllocation(dec(t, amount), reserve, decimal.Zero); !errors.Is(err, ErrAllocationNotPositive) {
			t.Fatalf("amount %s: expected ErrAllocationNotPositive, got %v", amount, err)
		}
	}
}
