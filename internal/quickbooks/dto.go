package quickbooks

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// AccountMappingDTO links an expense category to a QuickBooks account.
type AccountMappingDTO struct {
	ID            uuid.UUID              `json:"id"`
	Category      enums.LineItemCategory `json:"category"`
	QBAccountID   string                 `json:"qb_account_id"`
	QBAccountName string                 `json:"qb_account_name"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SyncRecordDTO is one stored sync attempt.
type SyncRecordDTO struct {
	ID              uuid.UUID            `json:"id"`
	EntityType      enums.SyncEntityType `json:"entity_type"`
	EntityID        uuid.UUID            `json:"entity_id"`
	QBTransactionID *string              `json:"qb_transaction_id,omitempty"`
	Status          enums.SyncStatus     `json:"status"`
	ErrorMessage    *string              `json:"error_message,omitempty"`
	SyncedAt        *time.Time           `json:"synced_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func mappingFromModel(m *models.QuickBooksAccountMapping) *AccountMappingDTO {
	if m == nil {
		return nil
	}
	return &AccountMappingDTO{
		ID:            m.ID,
		Category:      m.Category,
		QBAccountID:   m.QBAccountID,
		QBAccountName: m.QBAccountName,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func syncRecordFromModel(m *models.QuickBooksTransactionSync) *SyncRecordDTO {
	if m == nil {
		return nil
	}
	return &SyncRecordDTO{
		ID:              m.ID,
		EntityType:      m.EntityType,
		EntityID:        m.EntityID,
		QBTransactionID: m.QBTransactionID,
		Status:          m.Status,
		ErrorMessage:    m.ErrorMessage,
		SyncedAt:        m.SyncedAt,
		CreatedAt:       m.CreatedAt,
	}
}
