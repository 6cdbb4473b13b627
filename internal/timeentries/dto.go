package timeentries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
)

// TimeEntryDTO exposes one logged work session.
type TimeEntryDTO struct {
	ID                    uuid.UUID       `json:"id"`
	ProjectID             uuid.UUID       `json:"project_id"`
	WorkerName            string          `json:"worker_name"`
	EntryDate             time.Time       `json:"entry_date"`
	Hours                 decimal.Decimal `json:"hours"`
	BillingRatePerHour    decimal.Decimal `json:"billing_rate_per_hour"`
	ActualCostRatePerHour decimal.Decimal `json:"actual_cost_rate_per_hour"`
	Notes                 *string         `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// LaborSummaryDTO aggregates a project's logged labor. Cushion is the gap
// between what the hours bill for and what they actually cost.
type LaborSummaryDTO struct {
	ProjectID       uuid.UUID       `json:"project_id"`
	EntryCount      int             `json:"entry_count"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	BilledCost      decimal.Decimal `json:"billed_cost"`
	ActualCost      decimal.Decimal `json:"actual_cost"`
	CushionEarned   decimal.Decimal `json:"cushion_earned"`
	DistinctWorkers int             `json:"distinct_workers"`
}

// FromModel maps the persisted entry into a DTO.
func FromModel(m *models.TimeEntry) *TimeEntryDTO {
	if m == nil {
		return nil
	}
	return &TimeEntryDTO{
		ID:                    m.ID,
		ProjectID:             m.ProjectID,
		WorkerName:            m.WorkerName,
		EntryDate:             m.EntryDate,
		Hours:                 m.Hours,
		BillingRatePerHour:    m.BillingRatePerHour,
		ActualCostRatePerHour: m.ActualCostRatePerHour,
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
