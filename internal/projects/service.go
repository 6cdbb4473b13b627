package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type projectRepository interface {
	Create(ctx context.Context, dto CreateProjectDTO) (*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filter ListFilter, page pagination.Page) ([]models.Project, int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
}

// Service exposes project operations.
type Service interface {
	Create(ctx context.Context, input CreateProjectInput) (*ProjectDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProjectDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Page) ([]ProjectDTO, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo projectRepository
}

// NewService builds a project service with the provided repository.
func NewService(repo projectRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProjectInput captures creation fields.
type CreateProjectInput struct {
	ClientID  uuid.UUID
	Name      string
	Status    *enums.ProjectStatus
	Address   *string
	StartDate *time.Time
	EndDate   *time.Time
	Tags      []string
	Notes     *string
}

// UpdateProjectInput captures the allowed project fields for mutation.
type UpdateProjectInput struct {
	Name      *string
	Status    *enums.ProjectStatus
	Address   *string
	StartDate *time.Time
	EndDate   *time.Time
	Tags      *[]string
	Notes     *string
}

func validateDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede start date")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateProjectInput) (*ProjectDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project name is required")
	}
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid project status")
	}
	if err := validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	exists, err := s.repo.ClientExists(ctx, input.ClientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client does not exist")
	}

	project, err := s.repo.Create(ctx, CreateProjectDTO{
		ClientID:  input.ClientID,
		Name:      name,
		Status:    input.Status,
		Address:   input.Address,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Tags:      input.Tags,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return FromModel(project), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return FromModel(project), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Page) ([]ProjectDTO, int64, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid project status")
	}
	projects, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	dtos := make([]ProjectDTO, 0, len(projects))
	for i := range projects {
		dtos = append(dtos, *FromModel(&projects[i]))
	}
	return dtos, total, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*ProjectDTO, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "project name cannot be empty")
		}
		project.Name = name
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid project status")
		}
		project.Status = *input.Status
	}
	if input.Address != nil {
		cpy := *input.Address
		project.Address = &cpy
	}
	if input.StartDate != nil {
		cpy := *input.StartDate
		project.StartDate = &cpy
	}
	if input.EndDate != nil {
		cpy := *input.EndDate
		project.EndDate = &cpy
	}
	if err := validateDates(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}
	if input.Tags != nil {
		project.Tags = make([]string, len(*input.Tags))
		copy(project.Tags, *input.Tags)
	}
	if input.Notes != nil {
		cpy := *input.Notes
		project.Notes = &cpy
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return FromModel(project), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return nil
}
