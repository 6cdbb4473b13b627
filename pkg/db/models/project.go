package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// Project is a single construction job for a client. Estimates, quotes,
// change orders, expenses, and time entries all hang off a project.
type Project struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID  uuid.UUID           `gorm:"column:client_id;type:uuid;not null"`
	Name      string              `gorm:"column:name;not null"`
	Status    enums.ProjectStatus `gorm:"column:status;type:text;not null;default:'planning'"`
	Address   *string             `gorm:"column:address"`
	StartDate *time.Time          `gorm:"column:start_date"`
	EndDate   *time.Time          `gorm:"column:end_date"`
	Tags      pq.StringArray      `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	Notes     *string             `gorm:"column:notes"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
