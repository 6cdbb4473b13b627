package quickbooks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// Repository handles QuickBooks sync metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to QuickBooks metadata operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertMapping writes the mapping for a category, replacing any previous
// account assignment.
func (r *Repository) UpsertMapping(ctx context.Context, mapping *models.QuickBooksAccountMapping) error {
	if mapping == nil {
		return fmt.Errorf("mapping is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"qb_account_id", "qb_account_name", "updated_at"}),
		}).
		Create(mapping).Error
}

func (r *Repository) ListMappings(ctx context.Context) ([]models.QuickBooksAccountMapping, error) {
	var mappings []models.QuickBooksAccountMapping
	if err := r.db.WithContext(ctx).
		Order("category asc").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *Repository) CreateSyncRecord(ctx context.Context, record *models.QuickBooksTransactionSync) error {
	if record == nil {
		return fmt.Errorf("sync record is required")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) ListSyncRecordsByEntity(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) ([]models.QuickBooksTransactionSync, error) {
	var records []models.QuickBooksTransactionSync
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// LatestSyncRecord returns the most recent attempt for an entity, or
// gorm.ErrRecordNotFound when nothing has been synced.
func (r *Repository) LatestSyncRecord(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) (*models.QuickBooksTransactionSync, error) {
	var record models.QuickBooksTransactionSync
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteSyncRecordsBefore prunes history rows older than the cutoff and
// reports how many were removed.
func (r *Repository) DeleteSyncRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.QuickBooksTransactionSync{})
	return result.RowsAffected, result.Error
}
