package expenses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles expense persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to expense operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return fmt.Errorf("expense is required")
	}
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).
		Preload("Receipts").
		First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Expense{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []models.Expense
	if err := query.
		Preload("Receipts").
		Order("expense_date desc, created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// SumByCategory totals actual spend per category for a project.
func (r *Repository) SumByCategory(ctx context.Context, projectID uuid.UUID) (map[enums.LineItemCategory]decimal.Decimal, error) {
	type row struct {
		Category enums.LineItemCategory
		Total    decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("project_id = ?", projectID).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[enums.LineItemCategory]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[r.Category] = r.Total
	}
	return sums, nil
}

// FindEstimateItems loads the line items of the estimate a variance report
// runs against.
func (r *Repository) FindEstimateItems(ctx context.Context, estimateID uuid.UUID) ([]models.EstimateLineItem, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ?", estimateID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var items []models.EstimateLineItem
	if err := r.db.WithContext(ctx).
		Where("estimate_id = ?", estimateID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
