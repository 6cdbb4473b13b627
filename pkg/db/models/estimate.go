package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// Estimate is one version within an estimate chain. Exactly one version per
// chain carries IsCurrentVersion; new versions are cut only from approved
// estimates and always restart in draft.
type Estimate struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID           uuid.UUID            `gorm:"column:project_id;type:uuid;not null"`
	Title               string               `gorm:"column:title;not null"`
	Status              enums.EstimateStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	ContingencyPercent  decimal.Decimal      `gorm:"column:contingency_percent;type:numeric(7,3);not null;default:0"`
	ContingencyAmount   decimal.Decimal      `gorm:"column:contingency_amount;type:numeric(12,2);not null;default:0"`
	ContingencyUsed     decimal.Decimal      `gorm:"column:contingency_used;type:numeric(12,2);not null;default:0"`
	TargetMarginPercent decimal.Decimal      `gorm:"column:target_margin_percent;type:numeric(7,3);not null;default:0"`
	VersionNumber       int                  `gorm:"column:version_number;not null;default:1"`
	ParentEstimateID    *uuid.UUID           `gorm:"column:parent_estimate_id;type:uuid"`
	IsCurrentVersion    bool                 `gorm:"column:is_current_version;not null;default:true"`
	Notes               *string              `gorm:"column:notes"`
	ApprovedAt          *time.Time           `gorm:"column:approved_at"`
	Items               []EstimateLineItem   `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ChainRootID returns the id of the first version in this estimate's chain.
func (e Estimate) ChainRootID() uuid.UUID {
	if e.ParentEstimateID != nil {
		return *e.ParentEstimateID
	}
	return e.ID
}
