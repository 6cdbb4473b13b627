package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles quote persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to quote operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, quote *models.Quote) error {
	if quote == nil {
		return fmt.Errorf("quote is required")
	}
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, created_at asc")
		}).
		First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Quote, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quotes []models.Quote
	if err := query.
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *Repository) Update(ctx context.Context, quote *models.Quote) error {
	if quote == nil {
		return fmt.Errorf("quote is required")
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quote).Error
}

// ExpireDue flips pending quotes whose validity window has passed and
// returns the number of rows changed.
func (r *Repository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", enums.QuoteStatusPending, now).
		Updates(map[string]any{
			"status":     enums.QuoteStatusExpired,
			"expired_at": now,
		})
	return result.RowsAffected, result.Error
}

// FindEstimate loads the estimate a comparison runs against, with items.
func (r *Repository) FindEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&estimate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &estimate, nil
}
