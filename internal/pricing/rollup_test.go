package pricing

import (
	"testing"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

func TestRollupChangeOrders_ApprovedOnly(t *testing.T) {
	rows := []ChangeOrderFigures{
		{
			Status:       enums.ChangeOrderStatusApproved,
			ClientAmount: dec(t, "1000"),
			CostImpact:   dec(t, "800"),
			MarginImpact: dec(t, "200"),
		},
		{
			Status:       enums.ChangeOrderStatusPending,
			ClientAmount: dec(t, "500"),
			CostImpact:   dec(t, "100"),
			MarginImpact: dec(t, "999"),
		},
		{
			Status:       enums.ChangeOrderStatusRejected,
			ClientAmount: dec(t, "9000"),
			CostImpact:   dec(t, "9000"),
			MarginImpact: dec(t, "9000"),
		},
	}

	rollup := RollupChangeOrders(rows)
	if rollup.ApprovedCount != 1 {
		t.Fatalf("expected 1 approved row, got %d", rollup.ApprovedCount)
	}
	requireDec(t, "1000", rollup.TotalClientAmount)
	requireDec(t, "800", rollup.TotalCostImpact)
	requireDec(t, "200", rollup.TotalMarginImpact)
	requireDec(t, "20", rollup.OverallMarginPercent)
}

func TestRollupChangeOrders_EmptyAndZeroDenominator(t *testing.T) {
	rollup := RollupChangeOrders(nil)
	requireDec(t, "0", rollup.TotalClientAmount)
	requireDec(t, "0", rollup.OverallMarginPercent)

	rollup = RollupChangeOrders([]ChangeOrderFigures{
		{Status: enums.ChangeOrderStatusApproved, ClientAmount: dec(t, "0"), MarginImpact: dec(t, "50")},
	})
	requireDec(t, "0", rollup.OverallMarginPercent)
}
