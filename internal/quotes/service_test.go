package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type fakeQuoteRepo struct {
	quotes    map[uuid.UUID]*models.Quote
	estimates map[uuid.UUID]*models.Estimate
	expired   int64
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{
		quotes:    map[uuid.UUID]*models.Quote{},
		estimates: map[uuid.UUID]*models.Estimate{},
	}
}

func (r *fakeQuoteRepo) Create(_ context.Context, quote *models.Quote) error {
	quote.ID = uuid.New()
	for i := range quote.Items {
		quote.Items[i].ID = uuid.New()
		quote.Items[i].QuoteID = quote.ID
	}
	r.quotes[quote.ID] = quote
	return nil
}

func (r *fakeQuoteRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, ok := r.quotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quote, nil
}

func (r *fakeQuoteRepo) ListByProject(_ context.Context, projectID uuid.UUID, _ pagination.Page) ([]models.Quote, int64, error) {
	var out []models.Quote
	for _, q := range r.quotes {
		if q.ProjectID == projectID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeQuoteRepo) Update(_ context.Context, quote *models.Quote) error {
	r.quotes[quote.ID] = quote
	return nil
}

func (r *fakeQuoteRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, q := range r.quotes {
		if q.Status == enums.QuoteStatusPending && q.ValidUntil != nil && q.ValidUntil.Before(now) {
			q.Status = enums.QuoteStatusExpired
			expiredAt := now
			q.ExpiredAt = &expiredAt
			count++
		}
	}
	r.expired += count
	return count, nil
}

func (r *fakeQuoteRepo) FindEstimate(_ context.Context, id uuid.UUID) (*models.Estimate, error) {
	estimate, ok := r.estimates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return estimate, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pendingQuote(t *testing.T, svc Service, repo *fakeQuoteRepo, validUntil *time.Time) *QuoteDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateQuoteInput{
		ProjectID:  uuid.New(),
		VendorName: "Acme Framing",
		ValidUntil: validUntil,
		Items: []QuoteLineItemInput{{
			Category:    enums.CategorySubcontractors,
			Description: "Framing package",
			Quantity:    dec("1"),
			CostPerUnit: dec("4500"),
		}},
	})
	require.NoError(t, err)
	return dto
}

func TestCreateDenormalizesTotal(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)

	dto := pendingQuote(t, svc, repo, nil)
	require.Equal(t, enums.QuoteStatusPending, dto.Status)
	require.True(t, dto.TotalAmount.Equal(dec("4500")), "total = %s", dto.TotalAmount)
}

func TestAcceptPendingQuote(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)
	dto := pendingQuote(t, svc, repo, nil)

	accepted, err := svc.Accept(context.Background(), dto.ID)
	require.NoError(t, err)
	require.Equal(t, enums.QuoteStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
}

func TestAcceptIsTerminal(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)
	dto := pendingQuote(t, svc, repo, nil)

	_, err := svc.Accept(context.Background(), dto.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.Reopen(context.Background(), dto.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAcceptPastValidityExpiresInstead(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)

	past := time.Now().UTC().Add(-24 * time.Hour)
	dto := pendingQuote(t, svc, repo, &past)

	_, err := svc.Accept(context.Background(), dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	require.Equal(t, enums.QuoteStatusExpired, repo.quotes[dto.ID].Status)
}

func TestRejectThenReopen(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)
	dto := pendingQuote(t, svc, repo, nil)

	rejected, err := svc.Reject(context.Background(), dto.ID)
	require.NoError(t, err)
	require.Equal(t, enums.QuoteStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)

	reopened, err := svc.Reopen(context.Background(), dto.ID)
	require.NoError(t, err)
	require.Equal(t, enums.QuoteStatusPending, reopened.Status)
	require.Nil(t, reopened.RejectedAt)
}

func TestExpireDueOnlyTouchesPending(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)

	past := time.Now().UTC().Add(-time.Hour)
	stale := pendingQuote(t, svc, repo, &past)
	fresh := pendingQuote(t, svc, repo, nil)

	rejectedQuote := pendingQuote(t, svc, repo, &past)
	repo.quotes[rejectedQuote.ID].Status = enums.QuoteStatusRejected

	count, err := svc.ExpireDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, enums.QuoteStatusExpired, repo.quotes[stale.ID].Status)
	require.Equal(t, enums.QuoteStatusPending, repo.quotes[fresh.ID].Status)
	require.Equal(t, enums.QuoteStatusRejected, repo.quotes[rejectedQuote.ID].Status)
}

func TestCompareRequiresLinkedEstimate(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)
	dto := pendingQuote(t, svc, repo, nil)

	_, err := svc.Compare(context.Background(), dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCompareRunsAgainstEstimate(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc, _ := NewService(repo)

	estimateID := uuid.New()
	repo.estimates[estimateID] = &models.Estimate{
		ID:                  estimateID,
		TargetMarginPercent: dec("20"),
		Items: []models.EstimateLineItem{{
			ID:        uuid.New(),
			Category:  enums.CategorySubcontractors,
			Total:     dec("6000"),
			TotalCost: dec("4800"),
		}},
	}

	dto, err := svc.Create(context.Background(), CreateQuoteInput{
		ProjectID:  uuid.New(),
		EstimateID: &estimateID,
		VendorName: "Acme Framing",
		Items: []QuoteLineItemInput{{
			Category:    enums.CategorySubcontractors,
			Description: "Framing package",
			Quantity:    dec("1"),
			CostPerUnit: dec("4500"),
		}},
	})
	require.NoError(t, err)

	comparison, err := svc.Compare(context.Background(), dto.ID)
	require.NoError(t, err)
	require.True(t, comparison.Matched)
	require.True(t, comparison.VendorQuote.Equal(dec("4500")))
	require.True(t, comparison.YourCost.Equal(dec("4800")))
	// Vendor under budget: variance favorable.
	require.NotNil(t, comparison.Overall)
	require.True(t, comparison.Overall.Difference.Equal(dec("-300")))
	require.False(t, comparison.Overall.Unfavorable)
}
