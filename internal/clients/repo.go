package clients

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

// Repository handles client persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to client operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dto CreateClientDTO) (*models.Client, error) {
	client := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// List returns clients ordered by name plus the unpaged total.
func (r *Repository) List(ctx context.Context, page pagination.Page) ([]models.Client, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *Repository) Update(ctx context.Context, client *models.Client) error {
	if client == nil {
		return fmt.Errorf("client is required")
	}
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}

// CountProjects reports how many projects reference the client.
func (r *Repository) CountProjects(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
