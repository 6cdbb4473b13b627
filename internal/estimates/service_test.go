package estimates

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type fakeEstimateRepo struct {
	estimates map[uuid.UUID]*models.Estimate
	expenses  []*models.Expense
	cleared   int
}

func newFakeEstimateRepo() *fakeEstimateRepo {
	return &fakeEstimateRepo{estimates: map[uuid.UUID]*models.Estimate{}}
}

func (r *fakeEstimateRepo) Create(_ context.Context, estimate *models.Estimate) error {
	if estimate.ID == uuid.Nil {
		estimate.ID = uuid.New()
	}
	for i := range estimate.Items {
		if estimate.Items[i].ID == uuid.Nil {
			estimate.Items[i].ID = uuid.New()
		}
		estimate.Items[i].EstimateID = estimate.ID
	}
	r.estimates[estimate.ID] = estimate
	return nil
}

func (r *fakeEstimateRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Estimate, error) {
	estimate, ok := r.estimates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return estimate, nil
}

func (r *fakeEstimateRepo) ListByProject(_ context.Context, projectID uuid.UUID, _ pagination.Page) ([]models.Estimate, int64, error) {
	var out []models.Estimate
	for _, e := range r.estimates {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEstimateRepo) Update(_ context.Context, estimate *models.Estimate) error {
	r.estimates[estimate.ID] = estimate
	return nil
}

func (r *fakeEstimateRepo) ReplaceLineItems(_ context.Context, estimateID uuid.UUID, items []models.EstimateLineItem) error {
	estimate, ok := r.estimates[estimateID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].EstimateID = estimateID
	}
	estimate.Items = items
	return nil
}

func (r *fakeEstimateRepo) MaxVersionInChain(_ context.Context, rootID uuid.UUID) (int, error) {
	max := 0
	for _, e := range r.estimates {
		inChain := e.ID == rootID || (e.ParentEstimateID != nil && *e.ParentEstimateID == rootID)
		if inChain && e.VersionNumber > max {
			max = e.VersionNumber
		}
	}
	return max, nil
}

func (r *fakeEstimateRepo) ClearCurrentVersion(_ context.Context, rootID uuid.UUID) error {
	r.cleared++
	for _, e := range r.estimates {
		if e.ID == rootID || (e.ParentEstimateID != nil && *e.ParentEstimateID == rootID) {
			e.IsCurrentVersion = false
		}
	}
	return nil
}

func (r *fakeEstimateRepo) IncrementContingencyUsed(_ context.Context, estimateID uuid.UUID, amount decimal.Decimal) error {
	estimate, ok := r.estimates[estimateID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	estimate.ContingencyUsed = estimate.ContingencyUsed.Add(amount)
	return nil
}

func (r *fakeEstimateRepo) CreateExpense(_ context.Context, expense *models.Expense) error {
	expense.ID = uuid.New()
	r.expenses = append(r.expenses, expense)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *fakeEstimateRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		DB:          passthroughTx{},
		RepoFactory: func(*gorm.DB) estimateRepository { return repo },
	})
	require.NoError(t, err)
	return svc
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func materialsItem() LineItemInput {
	return LineItemInput{
		Category:      enums.CategoryMaterials,
		Description:   "Lumber",
		Quantity:      dec("10"),
		CostPerUnit:   dec("100"),
		MarkupPercent: decPtr("20"),
	}
}

func createEstimate(t *testing.T, svc Service) *EstimateDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), CreateEstimateInput{
		ProjectID:           uuid.New(),
		Title:               "Phase 1",
		ContingencyPercent:  dec("10"),
		TargetMarginPercent: dec("20"),
		Items:               []LineItemInput{materialsItem()},
	})
	require.NoError(t, err)
	return dto
}

func TestCreateComputesDerivedFields(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)

	dto := createEstimate(t, svc)

	require.Equal(t, enums.EstimateStatusDraft, dto.Status)
	require.Equal(t, 1, dto.VersionNumber)
	require.True(t, dto.IsCurrentVersion)
	require.Len(t, dto.Items, 1)

	item := dto.Items[0]
	require.True(t, item.PricePerUnit.Equal(dec("120")), "price = %s", item.PricePerUnit)
	require.True(t, item.Total.Equal(dec("1200")))
	require.True(t, item.TotalCost.Equal(dec("1000")))
	require.True(t, item.TotalMarkup.Equal(dec("200")))

	// 10% of the 1200 total.
	require.True(t, dto.ContingencyAmount.Equal(dec("120")), "contingency = %s", dto.ContingencyAmount)
}

func TestCreateRejectsDualMarkup(t *testing.T) {
	svc := newTestService(t, newFakeEstimateRepo())

	item := materialsItem()
	item.MarkupAmount = decPtr("5")
	_, err := svc.Create(context.Background(), CreateEstimateInput{
		ProjectID: uuid.New(),
		Title:     "Phase 1",
		Items:     []LineItemInput{item},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReplaceLineItemsOnlyInDraft(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	repo.estimates[dto.ID].Status = enums.EstimateStatusSent

	_, err := svc.ReplaceLineItems(context.Background(), dto.ID, []LineItemInput{materialsItem()})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestReplaceLineItemsRecomputesContingency(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	bigger := materialsItem()
	bigger.Quantity = dec("20")
	updated, err := svc.ReplaceLineItems(context.Background(), dto.ID, []LineItemInput{bigger})
	require.NoError(t, err)

	// 10% of the new 2400 total.
	require.True(t, updated.ContingencyAmount.Equal(dec("240")), "contingency = %s", updated.ContingencyAmount)
}

func TestStatusTransitions(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	_, err := svc.UpdateStatus(context.Background(), dto.ID, enums.EstimateStatusApproved)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code(), "draft cannot jump straight to approved")

	sent, err := svc.UpdateStatus(context.Background(), dto.ID, enums.EstimateStatusSent)
	require.NoError(t, err)
	require.Equal(t, enums.EstimateStatusSent, sent.Status)

	approved, err := svc.UpdateStatus(context.Background(), dto.ID, enums.EstimateStatusApproved)
	require.NoError(t, err)
	require.Equal(t, enums.EstimateStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
}

func approveEstimate(t *testing.T, svc Service, id uuid.UUID) {
	t.Helper()
	_, err := svc.UpdateStatus(context.Background(), id, enums.EstimateStatusSent)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), id, enums.EstimateStatusApproved)
	require.NoError(t, err)
}

func TestCreateVersionRequiresApproval(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	_, err := svc.CreateVersion(context.Background(), dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCreateVersionChain(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	v1 := createEstimate(t, svc)
	approveEstimate(t, svc, v1.ID)

	v2, err := svc.CreateVersion(context.Background(), v1.ID)
	require.NoError(t, err)
	require.Equal(t, 2, v2.VersionNumber)
	require.Equal(t, enums.EstimateStatusDraft, v2.Status)
	require.NotNil(t, v2.ParentEstimateID)
	require.Equal(t, v1.ID, *v2.ParentEstimateID)
	require.True(t, v2.IsCurrentVersion)
	require.False(t, repo.estimates[v1.ID].IsCurrentVersion)
	require.Len(t, v2.Items, 1)

	// A third version from v2 still parents on the chain root.
	approveEstimate(t, svc, v2.ID)
	v3, err := svc.CreateVersion(context.Background(), v2.ID)
	require.NoError(t, err)
	require.Equal(t, 3, v3.VersionNumber)
	require.Equal(t, v1.ID, *v3.ParentEstimateID)
}

func TestAllocateContingencyRejectsOverdraw(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc) // contingency 120

	_, err := svc.AllocateContingency(context.Background(), dto.ID, AllocateContingencyInput{
		Amount:      dec("121"),
		Description: "extra concrete",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Empty(t, repo.expenses)
	require.True(t, repo.estimates[dto.ID].ContingencyUsed.IsZero())
}

func TestAllocateContingencySuccess(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	result, err := svc.AllocateContingency(context.Background(), dto.ID, AllocateContingencyInput{
		Amount:      dec("50"),
		Description: "extra concrete",
	})
	require.NoError(t, err)
	require.True(t, result.ContingencyUsed.Equal(dec("50")))
	require.True(t, result.ContingencyRemaining.Equal(dec("70")))

	require.Len(t, repo.expenses, 1)
	expense := repo.expenses[0]
	require.True(t, expense.ContingencyDraw)
	require.Equal(t, enums.CategoryOther, expense.Category)
	require.True(t, repo.estimates[dto.ID].ContingencyUsed.Equal(dec("50")))
}

func TestExportCSV(t *testing.T) {
	repo := newFakeEstimateRepo()
	svc := newTestService(t, repo)
	dto := createEstimate(t, svc)

	data, err := svc.ExportCSV(context.Background(), dto.ID)
	require.NoError(t, err)

	out := string(data)
	require.True(t, strings.HasPrefix(out, "category,description,quantity"), "header missing: %s", out)
	require.Contains(t, out, "materials,Lumber,10,100,120,1000,200,1200")
	require.Contains(t, out, "TOTAL (1 items)")
}
