package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/internal/pricing"
	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type expenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Expense, int64, error)
	SumByCategory(ctx context.Context, projectID uuid.UUID) (map[enums.LineItemCategory]decimal.Decimal, error)
	FindEstimateItems(ctx context.Context, estimateID uuid.UUID) ([]models.EstimateLineItem, error)
}

// Service exposes expense operations.
type Service interface {
	Create(ctx context.Context, input CreateExpenseInput) (*ExpenseDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]ExpenseDTO, int64, error)
	CategoryVariance(ctx context.Context, projectID, estimateID uuid.UUID) ([]CategoryVarianceDTO, error)
}

type service struct {
	repo expenseRepository
	now  func() time.Time
}

// NewService builds an expense service with the provided repository.
func NewService(repo expenseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expense repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// ReceiptInput is the metadata for one attached receipt file.
type ReceiptInput struct {
	FileName    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
}

// CreateExpenseInput captures creation fields.
type CreateExpenseInput struct {
	ProjectID   uuid.UUID
	EstimateID  *uuid.UUID
	Category    enums.LineItemCategory
	Amount      decimal.Decimal
	Description string
	VendorName  *string
	ExpenseDate *time.Time
	Receipts    []ReceiptInput
}

func (s *service) Create(ctx context.Context, input CreateExpenseInput) (*ExpenseDTO, error) {
	if input.ProjectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid expense category")
	}
	if input.Amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense amount must be positive")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expense description is required")
	}

	expenseDate := s.now().UTC()
	if input.ExpenseDate != nil {
		expenseDate = *input.ExpenseDate
	}

	receipts := make([]models.Receipt, 0, len(input.Receipts))
	for _, r := range input.Receipts {
		if strings.TrimSpace(r.FileName) == "" || strings.TrimSpace(r.StorageKey) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt file name and storage key are required")
		}
		receipts = append(receipts, models.Receipt{
			FileName:    r.FileName,
			StorageKey:  r.StorageKey,
			ContentType: r.ContentType,
			SizeBytes:   r.SizeBytes,
		})
	}

	expense := &models.Expense{
		ProjectID:   input.ProjectID,
		EstimateID:  input.EstimateID,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: description,
		VendorName:  input.VendorName,
		ExpenseDate: expenseDate,
		Receipts:    receipts,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create expense")
	}
	return FromModel(expense), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load expense")
	}
	return FromModel(expense), nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]ExpenseDTO, int64, error) {
	expenses, total, err := s.repo.ListByProject(ctx, projectID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expenses")
	}
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for i := range expenses {
		dtos = append(dtos, *FromModel(&expenses[i]))
	}
	return dtos, total, nil
}

// CategoryVariance reports actual spend per category against the
// estimate's cost per category. Categories absent from the estimate get no
// variance: unavailable, never zero.
func (s *service) CategoryVariance(ctx context.Context, projectID, estimateID uuid.UUID) ([]CategoryVarianceDTO, error) {
	items, err := s.repo.FindEstimateItems(ctx, estimateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load estimate items")
	}

	estimated := make(map[enums.LineItemCategory]decimal.Decimal, len(items))
	for _, item := range items {
		estimated[item.Category] = estimated[item.Category].Add(item.TotalCost)
	}

	actuals, err := s.repo.SumByCategory(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum expenses")
	}

	report := make([]CategoryVarianceDTO, 0, len(enums.LineItemCategories()))
	for _, category := range enums.LineItemCategories() {
		actual, hasActual := actuals[category]
		estimate, hasEstimate := estimated[category]
		if !hasActual && !hasEstimate {
			continue
		}

		entry := CategoryVarianceDTO{
			Category:     category,
			ActualAmount: actual,
		}
		if hasEstimate {
			estCopy := estimate
			variance := pricing.NewVariance(estimate, actual)
			entry.EstimatedCost = &estCopy
			entry.Variance = &variance
		}
		report = append(report, entry)
	}
	return report, nil
}
