package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// QuickBooksAccountMapping maps a local line item category to the
// QuickBooks account expenses in that category post to.
type QuickBooksAccountMapping struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category      enums.LineItemCategory `gorm:"column:category;type:text;not null;uniqueIndex"`
	QBAccountID   string                 `gorm:"column:qb_account_id;not null"`
	QBAccountName string                 `gorm:"column:qb_account_name;not null"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
