package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// QuoteDTO exposes a vendor quote with its line items.
type QuoteDTO struct {
	ID          uuid.UUID         `json:"id"`
	ProjectID   uuid.UUID         `json:"project_id"`
	EstimateID  *uuid.UUID        `json:"estimate_id,omitempty"`
	VendorName  string            `json:"vendor_name"`
	Status      enums.QuoteStatus `json:"status"`
	ValidUntil  *time.Time        `json:"valid_until,omitempty"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Notes       *string           `json:"notes,omitempty"`
	AcceptedAt  *time.Time        `json:"accepted_at,omitempty"`
	RejectedAt  *time.Time        `json:"rejected_at,omitempty"`
	ExpiredAt   *time.Time        `json:"expired_at,omitempty"`
	Items       []LineItemDTO     `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LineItemDTO exposes one quote line item.
type LineItemDTO struct {
	ID                 uuid.UUID              `json:"id"`
	EstimateLineItemID *uuid.UUID             `json:"estimate_line_item_id,omitempty"`
	Category           enums.LineItemCategory `json:"category"`
	Description        string                 `json:"description"`
	Quantity           decimal.Decimal        `json:"quantity"`
	CostPerUnit        decimal.Decimal        `json:"cost_per_unit"`
	PricePerUnit       decimal.Decimal        `json:"price_per_unit"`
	MarkupPercent      *decimal.Decimal       `json:"markup_percent,omitempty"`
	MarkupAmount       *decimal.Decimal       `json:"markup_amount,omitempty"`
	Total              decimal.Decimal        `json:"total"`
	TotalCost          decimal.Decimal        `json:"total_cost"`
	TotalMarkup        decimal.Decimal        `json:"total_markup"`
	SortOrder          int                    `json:"sort_order"`
}

// FromModel maps the persisted quote into a DTO.
func FromModel(m *models.Quote) *QuoteDTO {
	if m == nil {
		return nil
	}
	items := make([]LineItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, lineItemFromModel(&m.Items[i]))
	}
	return &QuoteDTO{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		EstimateID:  m.EstimateID,
		VendorName:  m.VendorName,
		Status:      m.Status,
		ValidUntil:  m.ValidUntil,
		TotalAmount: m.TotalAmount,
		Notes:       m.Notes,
		AcceptedAt:  m.AcceptedAt,
		RejectedAt:  m.RejectedAt,
		ExpiredAt:   m.ExpiredAt,
		Items:       items,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func lineItemFromModel(m *models.QuoteLineItem) LineItemDTO {
	return LineItemDTO{
		ID:                 m.ID,
		EstimateLineItemID: m.EstimateLineItemID,
		Category:           m.Category,
		Description:        m.Description,
		Quantity:           m.Quantity,
		CostPerUnit:        m.CostPerUnit,
		PricePerUnit:       m.PricePerUnit,
		MarkupPercent:      m.MarkupPercent,
		MarkupAmount:       m.MarkupAmount,
		Total:              m.Total,
		TotalCost:          m.TotalCost,
		TotalMarkup:        m.TotalMarkup,
		SortOrder:          m.SortOrder,
	}
}
