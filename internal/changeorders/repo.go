package changeorders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles change order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to change order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order *models.ChangeOrder) error {
	if order == nil {
		return fmt.Errorf("change order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ChangeOrder, error) {
	var order models.ChangeOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.ChangeOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChangeOrder{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.ChangeOrder
	if err := query.
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *Repository) Update(ctx context.Context, order *models.ChangeOrder) error {
	if order == nil {
		return fmt.Errorf("change order is required")
	}
	return r.db.WithContext(ctx).Save(order).Error
}

// FindApprovedByProject returns only approved change orders for roll-ups.
func (r *Repository) FindApprovedByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChangeOrder, error) {
	var orders []models.ChangeOrder
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, enums.ChangeOrderStatusApproved).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
