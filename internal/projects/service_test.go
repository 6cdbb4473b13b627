package projects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type stubProjectRepo struct {
	project      *models.Project
	clientExists bool
	err          error
}

func (r *stubProjectRepo) Create(_ context.Context, dto CreateProjectDTO) (*models.Project, error) {
	if r.err != nil {
		return nil, r.err
	}
	m := dto.ToModel()
	m.ID = uuid.New()
	return m, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Project, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.project == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.project, nil
}

func (r *stubProjectRepo) List(_ context.Context, _ ListFilter, _ pagination.Page) ([]models.Project, int64, error) {
	if r.project == nil {
		return nil, 0, nil
	}
	return []models.Project{*r.project}, 1, nil
}

func (r *stubProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.project = project
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *stubProjectRepo) ClientExists(_ context.Context, _ uuid.UUID) (bool, error) {
	return r.clientExists, nil
}

func TestCreateDefaultsToPlanning(t *testing.T) {
	repo := &stubProjectRepo{clientExists: true}
	svc, _ := NewService(repo)

	dto, err := svc.Create(context.Background(), CreateProjectInput{
		ClientID: uuid.New(),
		Name:     "Kitchen Remodel",
		Tags:     []string{"remodel"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.ProjectStatusPlanning {
		t.Fatalf("status = %s, want planning", dto.Status)
	}
	if len(dto.Tags) != 1 || dto.Tags[0] != "remodel" {
		t.Fatalf("tags = %v", dto.Tags)
	}
}

func TestCreateRejectsMissingClient(t *testing.T) {
	svc, _ := NewService(&stubProjectRepo{clientExists: false})

	_, err := svc.Create(context.Background(), CreateProjectInput{
		ClientID: uuid.New(),
		Name:     "Deck Build",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	svc, _ := NewService(&stubProjectRepo{clientExists: true})

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.Create(context.Background(), CreateProjectInput{
		ClientID:  uuid.New(),
		Name:      "Garage",
		StartDate: &start,
		EndDate:   &end,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusTransition(t *testing.T) {
	repo := &stubProjectRepo{project: &models.Project{
		ID:     uuid.New(),
		Name:   "Bathroom",
		Status: enums.ProjectStatusPlanning,
	}}
	svc, _ := NewService(repo)

	active := enums.ProjectStatusActive
	dto, err := svc.Update(context.Background(), repo.project.ID, UpdateProjectInput{Status: &active})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Status != enums.ProjectStatusActive {
		t.Fatalf("status = %s, want active", dto.Status)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	repo := &stubProjectRepo{project: &models.Project{ID: uuid.New(), Name: "Bathroom"}}
	svc, _ := NewService(repo)

	bogus := enums.ProjectStatus("demolished")
	_, err := svc.Update(context.Background(), repo.project.ID, UpdateProjectInput{Status: &bogus})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubProjectRepo{})
	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
