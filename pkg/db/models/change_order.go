package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// ChangeOrder captures a scope change against a project. MarginImpact is
// ClientAmount minus CostImpact by convention and is recomputed on write.
type ChangeOrder struct {
	ID                  uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID           uuid.UUID               `gorm:"column:project_id;type:uuid;not null"`
	Title               string                  `gorm:"column:title;not null"`
	Description         *string                 `gorm:"column:description"`
	Status              enums.ChangeOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ClientAmount        decimal.Decimal         `gorm:"column:client_amount;type:numeric(12,2);not null;default:0"`
	CostImpact          decimal.Decimal         `gorm:"column:cost_impact;type:numeric(12,2);not null;default:0"`
	MarginImpact        decimal.Decimal         `gorm:"column:margin_impact;type:numeric(12,2);not null;default:0"`
	IncludesContingency bool                    `gorm:"column:includes_contingency;not null;default:false"`
	ApprovedAt          *time.Time              `gorm:"column:approved_at"`
	RejectedAt          *time.Time              `gorm:"column:rejected_at"`
	CreatedAt           time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
