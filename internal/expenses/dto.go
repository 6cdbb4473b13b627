package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/internal/pricing"
	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// ExpenseDTO exposes an actual cost in API responses.
type ExpenseDTO struct {
	ID              uuid.UUID              `json:"id"`
	ProjectID       uuid.UUID              `json:"project_id"`
	EstimateID      *uuid.UUID             `json:"estimate_id,omitempty"`
	Category        enums.LineItemCategory `json:"category"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	VendorName      *string                `json:"vendor_name,omitempty"`
	ExpenseDate     time.Time              `json:"expense_date"`
	ContingencyDraw bool                   `json:"contingency_draw"`
	Receipts        []ReceiptDTO           `json:"receipts"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ReceiptDTO exposes stored receipt metadata.
type ReceiptDTO struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryVarianceDTO reports one category's actual spend against the
// estimate. Variance is nil when the estimate has no rows in the category.
type CategoryVarianceDTO struct {
	Category      enums.LineItemCategory `json:"category"`
	ActualAmount  decimal.Decimal        `json:"actual_amount"`
	EstimatedCost *decimal.Decimal       `json:"estimated_cost,omitempty"`
	Variance      *pricing.Variance      `json:"variance,omitempty"`
}

// FromModel maps the persisted expense into a DTO.
func FromModel(m *models.Expense) *ExpenseDTO {
	if m == nil {
		return nil
	}
	receipts := make([]ReceiptDTO, 0, len(m.Receipts))
	for _, r := range m.Receipts {
		receipts = append(receipts, ReceiptDTO{
			ID:          r.ID,
			FileName:    r.FileName,
			StorageKey:  r.StorageKey,
			ContentType: r.ContentType,
			SizeBytes:   r.SizeBytes,
			CreatedAt:   r.CreatedAt,
		})
	}
	return &ExpenseDTO{
		ID:              m.ID,
		ProjectID:       m.ProjectID,
		EstimateID:      m.EstimateID,
		Category:        m.Category,
		Amount:          m.Amount,
		Description:     m.Description,
		VendorName:      m.VendorName,
		ExpenseDate:     m.ExpenseDate,
		ContingencyDraw: m.ContingencyDraw,
		Receipts:        receipts,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
