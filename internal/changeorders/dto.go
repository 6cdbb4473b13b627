package changeorders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// ChangeOrderDTO exposes a change order in API responses.
type ChangeOrderDTO struct {
	ID                  uuid.UUID               `json:"id"`
	ProjectID           uuid.UUID               `json:"project_id"`
	Title               string                  `json:"title"`
	Description         *string                 `json:"description,omitempty"`
	Status              enums.ChangeOrderStatus `json:"status"`
	ClientAmount        decimal.Decimal         `json:"client_amount"`
	CostImpact          decimal.Decimal         `json:"cost_impact"`
	MarginImpact        decimal.Decimal         `json:"margin_impact"`
	IncludesContingency bool                    `json:"includes_contingency"`
	ApprovedAt          *time.Time              `json:"approved_at,omitempty"`
	RejectedAt          *time.Time              `json:"rejected_at,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// FromModel maps the persisted change order into a DTO.
func FromModel(m *models.ChangeOrder) *ChangeOrderDTO {
	if m == nil {
		return nil
	}
	return &ChangeOrderDTO{
		ID:                  m.ID,
		ProjectID:           m.ProjectID,
		Title:               m.Title,
		Description:         m.Description,
		Status:              m.Status,
		ClientAmount:        m.ClientAmount,
		CostImpact:          m.CostImpact,
		MarginImpact:        m.MarginImpact,
		IncludesContingency: m.IncludesContingency,
		ApprovedAt:          m.ApprovedAt,
		RejectedAt:          m.RejectedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
