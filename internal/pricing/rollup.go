package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// ChangeOrderFigures is the rollup's view of one change order row.
type ChangeOrderFigures struct {
	Status       enums.ChangeOrderStatus
	ClientAmount decimal.Decimal
	CostImpact   decimal.Decimal
	MarginImpact decimal.Decimal
}

// ChangeOrderRollup sums approved change orders only; pending and rejected
// rows never count toward project totals.
type ChangeOrderRollup struct {
	ApprovedCount        int             `json:"approved_count"`
	TotalClientAmount    decimal.Decimal `json:"total_client_amount"`
	TotalCostImpact      decimal.Decimal `json:"total_cost_impact"`
	TotalMarginImpact    decimal.Decimal `json:"total_margin_impact"`
	OverallMarginPercent decimal.Decimal `json:"overall_margin_percent"`
}

// RollupChangeOrders folds the approved subset into project-level figures.
func RollupChangeOrders(rows []ChangeOrderFigures) ChangeOrderRollup {
	var rollup ChangeOrderRollup
	for _, row := range rows {
		if row.Status != enums.ChangeOrderStatusApproved {
			continue
		}
		rollup.ApprovedCount++
		rollup.TotalClientAmount = rollup.TotalClientAmount.Add(row.ClientAmount)
		rollup.TotalCostImpact = rollup.TotalCostImpact.Add(row.CostImpact)
		rollup.TotalMarginImpact = rollup.TotalMarginImpact.Add(row.MarginImpact)
	}
	rollup.OverallMarginPercent = ratioPercent(rollup.TotalMarginImpact, rollup.TotalClientAmount)
	return rollup
}
