package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntry records hours worked on a project. BillingRatePerHour is the
// client-facing rate; ActualCostRatePerHour is the internal cost rate. The
// spread between the two is the labor cushion.
type TimeEntry struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID             uuid.UUID       `gorm:"column:project_id;type:uuid;not null"`
	WorkerName            string          `gorm:"column:worker_name;not null"`
	EntryDate             time.Time       `gorm:"column:entry_date;not null"`
	Hours                 decimal.Decimal `gorm:"column:hours;type:numeric(10,2);not null"`
	BillingRatePerHour    decimal.Decimal `gorm:"column:billing_rate_per_hour;type:numeric(12,2);not null;default:0"`
	ActualCostRatePerHour decimal.Decimal `gorm:"column:actual_cost_rate_per_hour;type:numeric(12,2);not null;default:0"`
	Notes                 *string         `gorm:"column:notes"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
