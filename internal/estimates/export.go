package estimates

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/internal/pricing"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
)

var exportHeader = []string{
	"category",
	"description",
	"quantity",
	"cost_per_unit",
	"price_per_unit",
	"total_cost",
	"total_markup",
	"total",
}

// ExportCSV renders the estimate's line items plus a totals row. Numbers
// are written at full precision.
func (s *service) ExportCSV(ctx context.Context, id uuid.UUID) ([]byte, error) {
	estimate, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, item := range estimate.Items {
		record := []string{
			item.Category.String(),
			item.Description,
			item.Quantity.String(),
			item.CostPerUnit.String(),
			item.PricePerUnit.String(),
			item.TotalCost.String(),
			item.TotalMarkup.String(),
			item.Total.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}

	totals := pricing.Aggregate(pricedLines(estimate.Items))
	totalsRow := []string{
		"",
		fmt.Sprintf("TOTAL (%d items)", len(estimate.Items)),
		"",
		"",
		"",
		totals.TotalCost.String(),
		totals.TotalMarkup.String(),
		totals.TotalAmount.String(),
	}
	if err := w.Write(totalsRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv totals")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return buf.Bytes(), nil
}
