package timeentries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles time entry persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to time entry operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, entry *models.TimeEntry) error {
	if entry == nil {
		return fmt.Errorf("time entry is required")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.TimeEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TimeEntry{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.TimeEntry
	if err := query.
		Order("entry_date desc, created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindAllByProject loads every entry for a project, for labor rollups.
func (r *Repository) FindAllByProject(ctx context.Context, projectID uuid.UUID) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("entry_date asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
