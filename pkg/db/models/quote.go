package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// Quote is a vendor's priced response, optionally linked to the estimate it
// answers. TotalAmount is denormalized from the line items on every write.
type Quote struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID   uuid.UUID         `gorm:"column:project_id;type:uuid;not null"`
	EstimateID  *uuid.UUID        `gorm:"column:estimate_id;type:uuid"`
	VendorName  string            `gorm:"column:vendor_name;not null"`
	Status      enums.QuoteStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ValidUntil  *time.Time        `gorm:"column:valid_until"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Notes       *string           `gorm:"column:notes"`
	AcceptedAt  *time.Time        `gorm:"column:accepted_at"`
	RejectedAt  *time.Time        `gorm:"column:rejected_at"`
	ExpiredAt   *time.Time        `gorm:"column:expired_at"`
	Items       []QuoteLineItem   `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
