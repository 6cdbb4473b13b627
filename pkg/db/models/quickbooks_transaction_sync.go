package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// QuickBooksTransactionSync is one locally-stored sync attempt for a local
// record. The QuickBooks API itself is out of scope; only this history is
// read and pruned here.
type QuickBooksTransactionSync struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EntityType      enums.SyncEntityType `gorm:"column:entity_type;type:text;not null"`
	EntityID        uuid.UUID            `gorm:"column:entity_id;type:uuid;not null"`
	QBTransactionID *string              `gorm:"column:qb_transaction_id"`
	Status          enums.SyncStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	ErrorMessage    *string              `gorm:"column:error_message"`
	SyncedAt        *time.Time           `gorm:"column:synced_at"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
}
