package estimates

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/internal/pricing"
	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// EstimateDTO exposes one estimate version with its line items.
type EstimateDTO struct {
	ID                  uuid.UUID            `json:"id"`
	ProjectID           uuid.UUID            `json:"project_id"`
	Title               string               `json:"title"`
	Status              enums.EstimateStatus `json:"status"`
	ContingencyPercent  decimal.Decimal      `json:"contingency_percent"`
	ContingencyAmount   decimal.Decimal      `json:"contingency_amount"`
	ContingencyUsed     decimal.Decimal      `json:"contingency_used"`
	TargetMarginPercent decimal.Decimal      `json:"target_margin_percent"`
	VersionNumber       int                  `json:"version_number"`
	ParentEstimateID    *uuid.UUID           `json:"parent_estimate_id,omitempty"`
	IsCurrentVersion    bool                 `json:"is_current_version"`
	Notes               *string              `json:"notes,omitempty"`
	ApprovedAt          *time.Time           `json:"approved_at,omitempty"`
	Items               []LineItemDTO        `json:"items"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// LineItemDTO exposes one estimate line item with its derived figures.
type LineItemDTO struct {
	ID                    uuid.UUID              `json:"id"`
	Category              enums.LineItemCategory `json:"category"`
	Description           string                 `json:"description"`
	Quantity              decimal.Decimal        `json:"quantity"`
	CostPerUnit           decimal.Decimal        `json:"cost_per_unit"`
	PricePerUnit          decimal.Decimal        `json:"price_per_unit"`
	MarkupPercent         *decimal.Decimal       `json:"markup_percent,omitempty"`
	MarkupAmount          *decimal.Decimal       `json:"markup_amount,omitempty"`
	Total                 decimal.Decimal        `json:"total"`
	TotalCost             decimal.Decimal        `json:"total_cost"`
	TotalMarkup           decimal.Decimal        `json:"total_markup"`
	LaborHours            *decimal.Decimal       `json:"labor_hours,omitempty"`
	BillingRatePerHour    *decimal.Decimal       `json:"billing_rate_per_hour,omitempty"`
	ActualCostRatePerHour *decimal.Decimal       `json:"actual_cost_rate_per_hour,omitempty"`
	LaborCushionAmount    decimal.Decimal        `json:"labor_cushion_amount"`
	SortOrder             int                    `json:"sort_order"`
}

// TotalsDTO is the roll-up of an estimate plus its contingency state.
type TotalsDTO struct {
	pricing.DocumentTotals
	ContingencyPercent   decimal.Decimal `json:"contingency_percent"`
	ContingencyAmount    decimal.Decimal `json:"contingency_amount"`
	ContingencyUsed      decimal.Decimal `json:"contingency_used"`
	ContingencyRemaining decimal.Decimal `json:"contingency_remaining"`
	TargetMarginPercent  decimal.Decimal `json:"target_margin_percent"`
	LaborCushionTotal    decimal.Decimal `json:"labor_cushion_total"`
}

// FromModel maps the persisted estimate into a DTO.
func FromModel(m *models.Estimate) *EstimateDTO {
	if m == nil {
		return nil
	}
	items := make([]LineItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, lineItemFromModel(&m.Items[i]))
	}
	return &EstimateDTO{
		ID:                  m.ID,
		ProjectID:           m.ProjectID,
		Title:               m.Title,
		Status:              m.Status,
		ContingencyPercent:  m.ContingencyPercent,
		ContingencyAmount:   m.ContingencyAmount,
		ContingencyUsed:     m.ContingencyUsed,
		TargetMarginPercent: m.TargetMarginPercent,
		VersionNumber:       m.VersionNumber,
		ParentEstimateID:    m.ParentEstimateID,
		IsCurrentVersion:    m.IsCurrentVersion,
		Notes:               m.Notes,
		ApprovedAt:          m.ApprovedAt,
		Items:               items,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func lineItemFromModel(m *models.EstimateLineItem) LineItemDTO {
	return LineItemDTO{
		ID:                    m.ID,
		Category:              m.Category,
		Description:           m.Description,
		Quantity:              m.Quantity,
		CostPerUnit:           m.CostPerUnit,
		PricePerUnit:          m.PricePerUnit,
		MarkupPercent:         m.MarkupPercent,
		MarkupAmount:          m.MarkupAmount,
		Total:                 m.Total,
		TotalCost:             m.TotalCost,
		TotalMarkup:           m.TotalMarkup,
		LaborHours:            m.LaborHours,
		BillingRatePerHour:    m.BillingRatePerHour,
		ActualCostRatePerHour: m.ActualCostRatePerHour,
		LaborCushionAmount:    m.LaborCushionAmount,
		SortOrder:             m.SortOrder,
	}
}

func pricedLines(items []models.EstimateLineItem) []pricing.PricedLine {
	lines := make([]pricing.PricedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.PricedLine{
			Category:  item.Category,
			Total:     item.Total,
			TotalCost: item.TotalCost,
		})
	}
	return lines
}
