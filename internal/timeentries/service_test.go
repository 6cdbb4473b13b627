package timeentries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type fakeTimeEntryRepo struct {
	entries []*models.TimeEntry
}

func (r *fakeTimeEntryRepo) Create(_ context.Context, entry *models.TimeEntry) error {
	entry.ID = uuid.New()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTimeEntryRepo) ListByProject(_ context.Context, projectID uuid.UUID, _ pagination.Page) ([]models.TimeEntry, int64, error) {
	var out []models.TimeEntry
	for _, e := range r.entries {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeTimeEntryRepo) FindAllByProject(_ context.Context, projectID uuid.UUID) ([]models.TimeEntry, error) {
	var out []models.TimeEntry
	for _, e := range r.entries {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateRejectsNonPositiveHours(t *testing.T) {
	svc, _ := NewService(&fakeTimeEntryRepo{})

	_, err := svc.Create(context.Background(), CreateTimeEntryInput{
		ProjectID:  uuid.New(),
		WorkerName: "Dana",
		EntryDate:  time.Now(),
		Hours:      dec("0"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLaborSummary(t *testing.T) {
	repo := &fakeTimeEntryRepo{}
	svc, _ := NewService(repo)
	projectID := uuid.New()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, in := range []CreateTimeEntryInput{
		{ProjectID: projectID, WorkerName: "Dana", EntryDate: day, Hours: dec("8"), BillingRatePerHour: dec("85"), ActualCostRatePerHour: dec("55")},
		{ProjectID: projectID, WorkerName: "Dana", EntryDate: day.AddDate(0, 0, 1), Hours: dec("4"), BillingRatePerHour: dec("85"), ActualCostRatePerHour: dec("55")},
		{ProjectID: projectID, WorkerName: "Luis", EntryDate: day, Hours: dec("6"), BillingRatePerHour: dec("95"), ActualCostRatePerHour: dec("70")},
	} {
		_, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
	}

	summary, err := svc.LaborSummary(context.Background(), projectID)
	require.NoError(t, err)
	require.Equal(t, 3, summary.EntryCount)
	require.Equal(t, 2, summary.DistinctWorkers)
	require.True(t, summary.TotalHours.Equal(dec("18")))
	// 12h at 85 + 6h at 95 billed; 12h at 55 + 6h at 70 actual.
	require.True(t, summary.BilledCost.Equal(dec("1590")))
	require.True(t, summary.ActualCost.Equal(dec("1080")))
	require.True(t, summary.CushionEarned.Equal(dec("510")))
}

func TestLaborSummaryEmptyProject(t *testing.T) {
	svc, _ := NewService(&fakeTimeEntryRepo{})

	summary, err := svc.LaborSummary(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, 0, summary.EntryCount)
	require.True(t, summary.CushionEarned.IsZero())
}
