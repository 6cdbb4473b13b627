package estimates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles estimate persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to estimate operations. Passing a
// transaction handle scopes every method to that transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, estimate *models.Estimate) error {
	if estimate == nil {
		return fmt.Errorf("estimate is required")
	}
	return r.db.WithContext(ctx).Create(estimate).Error
}

// FindByID loads an estimate with its line items ordered for display.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, created_at asc")
		}).
		First(&estimate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Estimate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Estimate{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var estimates []models.Estimate
	if err := query.
		Order("version_number desc, created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&estimates).Error; err != nil {
		return nil, 0, err
	}
	return estimates, total, nil
}

// Update saves the estimate row itself; line items are managed through
// ReplaceLineItems, never as a side effect of a save.
func (r *Repository) Update(ctx context.Context, estimate *models.Estimate) error {
	if estimate == nil {
		return fmt.Errorf("estimate is required")
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(estimate).Error
}

// ReplaceLineItems swaps the full line item set of an estimate.
func (r *Repository) ReplaceLineItems(ctx context.Context, estimateID uuid.UUID, items []models.EstimateLineItem) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.EstimateLineItem{}, "estimate_id = ?", estimateID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].EstimateID = estimateID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// MaxVersionInChain returns the highest version number across the chain
// rooted at rootID.
func (r *Repository) MaxVersionInChain(ctx context.Context, rootID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ? OR parent_estimate_id = ?", rootID, rootID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ClearCurrentVersion unsets is_current_version on every estimate in the
// chain rooted at rootID.
func (r *Repository) ClearCurrentVersion(ctx context.Context, rootID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ? OR parent_estimate_id = ?", rootID, rootID).
		Update("is_current_version", false).Error
}

// IncrementContingencyUsed bumps the drawn-down counter by amount.
func (r *Repository) IncrementContingencyUsed(ctx context.Context, estimateID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ?", estimateID).
		Update("contingency_used", gorm.Expr("contingency_used + ?", amount)).Error
}

// CreateExpense inserts the expense row a contingency allocation produces.
func (r *Repository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return fmt.Errorf("expense is required")
	}
	return r.db.WithContext(ctx).Create(expense).Error
}
