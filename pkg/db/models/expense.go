package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// Expense is an actual cost booked against a project. ContingencyDraw marks
// expenses created by a contingency allocation; those rows and the
// estimate's contingency_used counter are written in one transaction.
type Expense struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID       uuid.UUID              `gorm:"column:project_id;type:uuid;not null"`
	EstimateID      *uuid.UUID             `gorm:"column:estimate_id;type:uuid"`
	Category        enums.LineItemCategory `gorm:"column:category;type:text;not null"`
	Amount          decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	Description     string                 `gorm:"column:description;not null"`
	VendorName      *string                `gorm:"column:vendor_name"`
	ExpenseDate     time.Time              `gorm:"column:expense_date;not null"`
	ContingencyDraw bool                   `gorm:"column:contingency_draw;not null;default:false"`
	Receipts        []Receipt              `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
