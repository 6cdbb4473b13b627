package timeentries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type timeEntryRepository interface {
	Create(ctx context.Context, entry *models.TimeEntry) error
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.TimeEntry, int64, error)
	FindAllByProject(ctx context.Context, projectID uuid.UUID) ([]models.TimeEntry, error)
}

// Service exposes time entry operations.
type Service interface {
	Create(ctx context.Context, input CreateTimeEntryInput) (*TimeEntryDTO, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]TimeEntryDTO, int64, error)
	LaborSummary(ctx context.Context, projectID uuid.UUID) (*LaborSummaryDTO, error)
}

type service struct {
	repo timeEntryRepository
}

// NewService builds a time entry service with the provided repository.
func NewService(repo timeEntryRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("time entry repository required")
	}
	return &service{repo: repo}, nil
}

// CreateTimeEntryInput captures creation fields.
type CreateTimeEntryInput struct {
	ProjectID             uuid.UUID
	WorkerName            string
	EntryDate             time.Time
	Hours                 decimal.Decimal
	BillingRatePerHour    decimal.Decimal
	ActualCostRatePerHour decimal.Decimal
	Notes                 *string
}

func (s *service) Create(ctx context.Context, input CreateTimeEntryInput) (*TimeEntryDTO, error) {
	if input.ProjectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	workerName := strings.TrimSpace(input.WorkerName)
	if workerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker name is required")
	}
	if input.EntryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry date is required")
	}
	if input.Hours.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hours must be positive")
	}
	if input.BillingRatePerHour.Sign() < 0 || input.ActualCostRatePerHour.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rates cannot be negative")
	}

	entry := &models.TimeEntry{
		ProjectID:             input.ProjectID,
		WorkerName:            workerName,
		EntryDate:             input.EntryDate,
		Hours:                 input.Hours,
		BillingRatePerHour:    input.BillingRatePerHour,
		ActualCostRatePerHour: input.ActualCostRatePerHour,
		Notes:                 input.Notes,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create time entry")
	}
	return FromModel(entry), nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]TimeEntryDTO, int64, error) {
	entries, total, err := s.repo.ListByProject(ctx, projectID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list time entries")
	}
	dtos := make([]TimeEntryDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, *FromModel(&entries[i]))
	}
	return dtos, total, nil
}

// LaborSummary totals a project's logged hours at both rates. The cushion
// is billed minus actual, so a crew billed above its cost rate earns a
// positive cushion.
func (s *service) LaborSummary(ctx context.Context, projectID uuid.UUID) (*LaborSummaryDTO, error) {
	entries, err := s.repo.FindAllByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load time entries")
	}

	summary := &LaborSummaryDTO{ProjectID: projectID, EntryCount: len(entries)}
	workers := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		summary.TotalHours = summary.TotalHours.Add(entry.Hours)
		summary.BilledCost = summary.BilledCost.Add(entry.Hours.Mul(entry.BillingRatePerHour))
		summary.ActualCost = summary.ActualCost.Add(entry.Hours.Mul(entry.ActualCostRatePerHour))
		workers[entry.WorkerName] = struct{}{}
	}
	summary.CushionEarned = summary.BilledCost.Sub(summary.ActualCost)
	summary.DistinctWorkers = len(workers)
	return summary, nil
}
