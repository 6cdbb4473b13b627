package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type clientRepository interface {
	Create(ctx context.Context, dto CreateClientDTO) (*models.Client, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, page pagination.Page) ([]models.Client, int64, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountProjects(ctx context.Context, clientID uuid.UUID) (int64, error)
}

// Service exposes client operations.
type Service interface {
	Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ClientDTO, error)
	List(ctx context.Context, page pagination.Page) ([]ClientDTO, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*ClientDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo clientRepository
}

// NewService builds a client service with the provided repository.
func NewService(repo clientRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

// CreateClientInput captures creation fields.
type CreateClientInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// UpdateClientInput captures the allowed client fields for mutation.
type UpdateClientInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	if input.Email != nil && *input.Email != "" && !strings.Contains(*input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}

	client, err := s.repo.Create(ctx, CreateClientDTO{
		Name:    name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return FromModel(client), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return FromModel(client), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]ClientDTO, int64, error) {
	clients, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	dtos := make([]ClientDTO, 0, len(clients))
	for i := range clients {
		dtos = append(dtos, *FromModel(&clients[i]))
	}
	return dtos, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		client.Name = name
	}
	if input.Email != nil {
		if *input.Email != "" && !strings.Contains(*input.Email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		client.Email = cloneStringPtr(input.Email)
	}
	if input.Phone != nil {
		client.Phone = cloneStringPtr(input.Phone)
	}
	if input.Address != nil {
		client.Address = cloneStringPtr(input.Address)
	}
	if input.Notes != nil {
		client.Notes = cloneStringPtr(input.Notes)
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return FromModel(client), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}

	count, err := s.repo.CountProjects(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count client projects")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "client has projects and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
