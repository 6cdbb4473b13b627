package expenses

import (
	"context"
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

type fakeExpenseRepo struct {
	expenses      []*models.Expense
	estimateItems []models.EstimateLineItem
	hasEstimate   bool
}

func (r *fakeExpenseRepo) Create(_ context.Context, expense *models.Expense) error {
	expense.ID = uuid.New()
	for i := range expense.Receipts {
		expense.Receipts[i].ID = uuid.New()
		expense.Receipts[i].ExpenseID = expense.ID
	}
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeExpenseRepo) ListByProject(_ context.Context, projectID uuid.UUID, _ pagination.Page) ([]models.Expense, int64, error) {
	var out []models.Expense
	for _, e := range r.expenses {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeExpenseRepo) SumByCategory(_ context.Context, projectID uuid.UUID) (map[enums.LineItemCategory]decimal.Decimal, error) {
	sums := map[enums.LineItemCategory]decimal.Decimal{}
	for _, e := range r.expenses {
		if e.ProjectID == projectID {
			sums[e.Category] = sums[e.Category].Add(e.Amount)
		}
	}
	return sums, nil
}

func (r *fakeExpenseRepo) FindEstimateItems(_ context.Context, _ uuid.UUID) ([]models.EstimateLineItem, error) {
	if !r.hasEstimate {
		return nil, gorm.ErrRecordNotFound
	}
	return r.estimateItems, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateWithReceipts(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc, _ := NewService(repo)

	dto, err := svc.Create(context.Background(), CreateExpenseInput{
		ProjectID:   uuid.New(),
		Category:    enums.CategoryMaterials,
		Amount:      dec("350.75"),
		Description: "Drywall",
		Receipts: []ReceiptInput{{
			FileName:    "drywall.pdf",
			StorageKey:  "receipts/drywall.pdf",
			ContentType: "application/pdf",
			SizeBytes:   2048,
		}},
	})
	require.NoError(t, err)
	require.Len(t, dto.Receipts, 1)
	require.Equal(t, "drywall.pdf", dto.Receipts[0].FileName)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := NewService(&fakeExpenseRepo{})

	_, err := svc.Create(context.Background(), CreateExpenseInput{
		ProjectID:   uuid.New(),
		Category:    enums.CategoryMaterials,
		Amount:      dec("0"),
		Description: "Drywall",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCategoryVariance(t *testing.T) {
	projectID := uuid.New()
	repo := &fakeExpenseRepo{
		hasEstimate: true,
		estimateItems: []models.EstimateLineItem{
			{Category: enums.CategoryMaterials, TotalCost: dec("1000")},
			{Category: enums.CategoryMaterials, TotalCost: dec("500")},
			{Category: enums.CategoryPermits, TotalCost: dec("300")},
		},
	}
	svc, _ := NewService(repo)

	// Over in materials, nothing booked for permits, equipment unestimated.
	for _, in := range []CreateExpenseInput{
		{ProjectID: projectID, Category: enums.CategoryMaterials, Amount: dec("1700"), Description: "Lumber"},
		{ProjectID: projectID, Category: enums.CategoryEquipment, Amount: dec("250"), Description: "Lift rental"},
	} {
		_, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
	}

	report, err := svc.CategoryVariance(context.Background(), projectID, uuid.New())
	require.NoError(t, err)

	byCategory := map[enums.LineItemCategory]CategoryVarianceDTO{}
	for _, entry := range report {
		byCategory[entry.Category] = entry
	}

	materials := byCategory[enums.CategoryMaterials]
	require.NotNil(t, materials.Variance)
	require.True(t, materials.Variance.Difference.Equal(dec("200")))
	require.True(t, materials.Variance.Unfavorable)

	permits := byCategory[enums.CategoryPermits]
	require.NotNil(t, permits.Variance)
	require.True(t, permits.Variance.Difference.Equal(dec("-300")))
	require.False(t, permits.Variance.Unfavorable)

	equipment := byCategory[enums.CategoryEquipment]
	require.Nil(t, equipment.Variance, "unestimated category has no variance, not a zero one")
	require.Nil(t, equipment.EstimatedCost)
	require.True(t, equipment.ActualAmount.Equal(dec("250")))
}

func TestCategoryVarianceMissingEstimate(t *testing.T) {
	svc, _ := NewService(&fakeExpenseRepo{hasEstimate: false})

	_, err := svc.CategoryVariance(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
