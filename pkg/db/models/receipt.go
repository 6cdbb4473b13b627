package models

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the stored metadata for a receipt file attached to an expense.
// The file itself lives in external storage; only the pointer is kept here.
type Receipt struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExpenseID   uuid.UUID `gorm:"column:expense_id;type:uuid;not null"`
	FileName    string    `gorm:"column:file_name;not null"`
	StorageKey  string    `gorm:"column:storage_key;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
