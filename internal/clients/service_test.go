package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type stubClientRepo struct {
	client       *models.Client
	projectCount int64
	err          error
	deleted      bool
}

func (r *stubClientRepo) Create(_ context.Context, dto CreateClientDTO) (*models.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	m := dto.ToModel()
	m.ID = uuid.New()
	return m, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Client, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.client == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.client, nil
}

func (r *stubClientRepo) List(_ context.Context, _ pagination.Page) ([]models.Client, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	if r.client == nil {
		return nil, 0, nil
	}
	return []models.Client{*r.client}, 1, nil
}

func (r *stubClientRepo) Update(_ context.Context, client *models.Client) error {
	if r.err != nil {
		return r.err
	}
	r.client = client
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, _ uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = true
	return nil
}

func (r *stubClientRepo) CountProjects(_ context.Context, _ uuid.UUID) (int64, error) {
	return r.projectCount, nil
}

func baseClient() *models.Client {
	email := "pat@example.com"
	return &models.Client{ID: uuid.New(), Name: "Pat Rivera", Email: &email}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := NewService(&stubClientRepo{})
	_, err := svc.Create(context.Background(), CreateClientInput{Name: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsBadEmail(t *testing.T) {
	svc, _ := NewService(&stubClientRepo{})
	bad := "not-an-email"
	_, err := svc.Create(context.Background(), CreateClientInput{Name: "Pat", Email: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(&stubClientRepo{})
	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := &stubClientRepo{client: baseClient()}
	svc, _ := NewService(repo)

	newName := "Rivera Construction"
	dto, err := svc.Update(context.Background(), repo.client.ID, UpdateClientInput{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != newName {
		t.Fatalf("name = %s, want %s", dto.Name, newName)
	}
	if dto.Email == nil || *dto.Email != "pat@example.com" {
		t.Fatal("untouched fields should survive a partial update")
	}
}

func TestDeleteBlockedByProjects(t *testing.T) {
	repo := &stubClientRepo{client: baseClient(), projectCount: 2}
	svc, _ := NewService(repo)

	err := svc.Delete(context.Background(), repo.client.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.deleted {
		t.Fatal("delete should not reach the repository")
	}
}

func TestDeleteSucceedsWithoutProjects(t *testing.T) {
	repo := &stubClientRepo{client: baseClient()}
	svc, _ := NewService(repo)

	if err := svc.Delete(context.Background(), repo.client.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected repository delete")
	}
}

func TestGetByIDDependencyError(t *testing.T) {
	svc, _ := NewService(&stubClientRepo{err: errors.New("boom")})
	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
