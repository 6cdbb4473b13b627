package estimates

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

type estimateRepository interface {
	Create(ctx context.Context, estimate *models.Estimate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Estimate, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Estimate, int64, error)
	Update(ctx context.Context, estimate *models.Estimate) error
	ReplaceLineItems(ctx context.Context, estimateID uuid.UUID, items []models.EstimateLineItem) error
	MaxVersionInChain(ctx context.Context, rootID uuid.UUID) (int, error)
	ClearCurrentVersion(ctx context.Context, rootID uuid.UUID) error
	IncrementContingencyUsed(ctx context.Context, estimateID uuid.UUID, amount decimal.Decimal) error
	CreateExpense(ctx context.Context, expense *models.Expense) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txRepoFactory func(tx *gorm.DB) estimateRepository

func defaultTxRepo(tx *gorm.DB) estimateRepository {
	return NewRepository(tx)
}

// Service exposes estimate operations.
type Service interface {
	Create(ctx context.Context, input CreateEstimateInput) (*EstimateDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*EstimateDTO, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]EstimateDTO, int64, error)
	ReplaceLineItems(ctx context.Context, id uuid.UUID, items []LineItemInput) (*EstimateDTO, error)
	Totals(ctx context.Context, id uuid.UUID) (*TotalsDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.EstimateStatus) (*EstimateDTO, error)
	CreateVersion(ctx context.Context, id uuid.UUID) (*EstimateDTO, error)
	AllocateContingency(ctx context.Context, id uuid.UUID, input AllocateContingencyInput) (*AllocationDTO, error)
	ExportCSV(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// ServiceParams configure the estimate service.
type ServiceParams struct {
	Repo        estimateRepository
	DB          txRunner
	RepoFactory txRepoFactory
}

type service struct {
	repo        estimateRepository
	db          txRunner
	repoFactory txRepoFactory
	now         func() time.Time
}

// NewService builds an estimate service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("estimate repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = defaultTxRepo
	}
	return &service{
		repo:        params.Repo,
		db:          params.DB,
		repoFactory: factory,
		now:         time.Now,
	}, nil
}

// LineItemInput is the write shape for one estimate line item. Derived
// figures are recomputed server-side and never trusted from the caller.
type LineItemInput struct {
	Category              enums.LineItemCategory
	Description           string
	Quantity              decimal.Decimal
	CostPerUnit           decimal.Decimal
	MarkupPercent         *decimal.Decimal
	MarkupAmount          *decimal.Decimal
	LaborHours            *decimal.Decimal
	BillingRatePerHour    *decimal.Decimal
	ActualCostRatePerHour *decimal.Decimal
	SortOrder             int
}

// CreateEstimateInput captures creation fields.
type CreateEstimateInput struct {
	ProjectID           uuid.UUID
	Title               string
	ContingencyPercent  decimal.Decimal
	TargetMarginPercent decimal.Decimal
	Notes               *string
	Items               []LineItemInput
}

// AllocateContingencyInput describes one draw against the reserve.
type AllocateContingencyInput struct {
	Amount      decimal.Decimal
	Description string
	Category    *enums.LineItemCategory
	VendorName  *string
	ExpenseDate *time.Time
}

// AllocationDTO reports the outcome of a contingency draw.
type AllocationDTO struct {
	ExpenseID            uuid.UUID       `json:"expense_id"`
	Amount               decimal.Decimal `json:"amount"`
	ContingencyUsed      decimal.Decimal `json:"contingency_used"`
	ContingencyRemaining decimal.Decimal `json:"contingency_remaining"`
}

var statusTransitions = map[enums.EstimateStatus][]enums.EstimateStatus{
	enums.EstimateStatusDraft: {enums.EstimateStatusSent},
	enums.EstimateStatusSent:  {enums.EstimateStatusApproved, enums.EstimateStatusRejected},
}

func transitionAllowed(from, to enums.EstimateStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// buildLineItem prices one input row and materializes the stored model.
func buildLineItem(input LineItemInput) (models.EstimateLineItem, error) {
	if !input.Category.IsValid() {
		return models.EstimateLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item category")
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.EstimateLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
	}
	if input.MarkupPercent != nil && input.MarkupAmount != nil {
		return models.EstimateLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "markup percent and markup amount are mutually exclusive")
	}

	markup := pricing.MarkupFromColumns(input.MarkupPercent, input.MarkupAmount)
	priced, err := pricing.ComputeLineItem(pricing.LineItemInput{
		Category:              input.Category,
		Quantity:              input.Quantity,
		CostPerUnit:           input.CostPerUnit,
		Markup:                markup,
		LaborHours:            input.LaborHours,
		BillingRatePerHour:    input.BillingRatePerHour,
		ActualCostRatePerHour: input.ActualCostRatePerHour,
	})
	if err != nil {
		return models.EstimateLineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price line item")
	}

	return models.EstimateLineItem{
		Category:              input.Category,
		Description:           strings.TrimSpace(input.Description),
		Quantity:              input.Quantity,
		CostPerUnit:           priced.CostPerUnit,
		PricePerUnit:          priced.PricePerUnit,
		MarkupPercent:         markup.PercentColumn(),
		MarkupAmount:          markup.AmountColumn(),
		Total:                 priced.Total,
		TotalCost:             priced.TotalCost,
		TotalMarkup:           priced.TotalMarkup,
		LaborHours:            input.LaborHours,
		BillingRatePerHour:    input.BillingRatePerHour,
		ActualCostRatePerHour: input.ActualCostRatePerHour,
		LaborCushionAmount:    priced.LaborCushionAmount,
		SortOrder:             input.SortOrder,
	}, nil
}

func buildLineItems(inputs []LineItemInput) ([]models.EstimateLineItem, pricing.DocumentTotals, error) {
	items := make([]models.EstimateLineItem, 0, len(inputs))
	for _, input := range inputs {
		item, err := buildLineItem(input)
		if err != nil {
			return nil, pricing.DocumentTotals{}, err
		}
		items = append(items, item)
	}
	return items, pricing.Aggregate(pricedLines(items)), nil
}

func (s *service) Create(ctx context.Context, input CreateEstimateInput) (*EstimateDTO, error) {
	if input.ProjectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimate title is required")
	}
	if input.ContingencyPercent.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contingency percent must not be negative")
	}

	items, totals, err := buildLineItems(input.Items)
	if err != nil {
		return nil, err
	}

	estimate := &models.Estimate{
		ProjectID:           input.ProjectID,
		Title:               title,
		Status:              enums.EstimateStatusDraft,
		ContingencyPercent:  input.ContingencyPercent,
		ContingencyAmount:   pricing.ContingencyAmount(totals.TotalAmount, input.ContingencyPercent),
		ContingencyUsed:     decimal.Zero,
		TargetMarginPercent: input.TargetMarginPercent,
		VersionNumber:       1,
		IsCurrentVersion:    true,
		Notes:               input.Notes,
		Items:               items,
	}
	if err := s.repo.Create(ctx, estimate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create estimate")
	}
	return FromModel(estimate), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*EstimateDTO, error) {
	estimate, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(estimate), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Estimate, error) {
	estimate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load estimate")
	}
	return estimate, nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]EstimateDTO, int64, error) {
	estimates, total, err := s.repo.ListByProject(ctx, projectID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list estimates")
	}
	dtos := make([]EstimateDTO, 0, len(estimates))
	for i := range estimates {
		dtos = append(dtos, *FromModel(&estimates[i]))
	}
	return dtos, total, nil
}

func (s *service) ReplaceLineItems(ctx context.Context, id uuid.UUID, inputs []LineItemInput) (*EstimateDTO, error) {
	estimate, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if estimate.Status != enums.EstimateStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "line items are editable only while the estimate is a draft")
	}

	items, totals, err := buildLineItems(inputs)
	if err != nil {
		return nil, err
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repoFactory(tx)
		if err := txRepo.ReplaceLineItems(ctx, estimate.ID, items); err != nil {
			return err
		}
		estimate.ContingencyAmount = pricing.ContingencyAmount(totals.TotalAmount, estimate.ContingencyPercent)
		return txRepo.Update(ctx, estimate)
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "replace line items")
	}

	return s.GetByID(ctx, id)
}

func (s *service) Totals(ctx context.Context, id uuid.UUID) (*TotalsDTO, error) {
	estimate, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	totals := pricing.Aggregate(pricedLines(estimate.Items))
	cushion := decimal.Zero
	for _, item := range estimate.Items {
		cushion = cushion.Add(item.LaborCushionAmount)
	}

	return &TotalsDTO{
		DocumentTotals:       totals,
		ContingencyPercent:   estimate.ContingencyPercent,
		ContingencyAmount:    estimate.ContingencyAmount,
		ContingencyUsed:      estimate.ContingencyUsed,
		ContingencyRemaining: pricing.ContingencyRemaining(estimate.ContingencyAmount, estimate.ContingencyUsed),
		TargetMarginPercent:  estimate.TargetMarginPercent,
		LaborCushionTotal:    cushion,
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.EstimateStatus) (*EstimateDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status")
	}
	estimate, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(estimate.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move estimate from %s to %s", estimate.Status, target))
	}

	estimate.Status = target
	if target == enums.EstimateStatusApproved {
		now := s.now().UTC()
		estimate.ApprovedAt = &now
	}
	if err := s.repo.Update(ctx, estimate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update estimate status")
	}
	return s.GetByID(ctx, id)
}

// CreateVersion cuts a new draft version from an approved estimate. The
// whole chain update happens in one transaction so exactly one version
// stays current.
func (s *service) CreateVersion(ctx context.Context, id uuid.UUID) (*EstimateDTO, error) {
	source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if source.Status != enums.EstimateStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "new versions can only be cut from an approved estimate")
	}

	rootID := source.ChainRootID()
	var created *models.Estimate

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repoFactory(tx)

		maxVersion, err := txRepo.MaxVersionInChain(ctx, rootID)
		if err != nil {
			return err
		}
		if err := txRepo.ClearCurrentVersion(ctx, rootID); err != nil {
			return err
		}

		items := make([]models.EstimateLineItem, 0, len(source.Items))
		for _, item := range source.Items {
			copied := item
			copied.ID = uuid.Nil
			copied.EstimateID = uuid.Nil
			copied.CreatedAt = time.Time{}
			copied.UpdatedAt = time.Time{}
			items = append(items, copied)
		}

		next := &models.Estimate{
			ProjectID:           source.ProjectID,
			Title:               source.Title,
			Status:              enums.EstimateStatusDraft,
			ContingencyPercent:  source.ContingencyPercent,
			ContingencyAmount:   source.ContingencyAmount,
			ContingencyUsed:     decimal.Zero,
			TargetMarginPercent: source.TargetMarginPercent,
			VersionNumber:       maxVersion + 1,
			ParentEstimateID:    &rootID,
			IsCurrentVersion:    true,
			Notes:               source.Notes,
			Items:               items,
		}
		if err := txRepo.Create(ctx, next); err != nil {
			return err
		}
		created = next
		return nil
	})
	if txErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "create estimate version")
	}

	return s.GetByID(ctx, created.ID)
}

// AllocateContingency draws from the reserve: the expense insert and the
// counter increment commit or roll back together.
func (s *service) AllocateContingency(ctx context.Context, id uuid.UUID, input AllocateContingencyInput) (*AllocationDTO, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation description is required")
	}
	category := enums.CategoryOther
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid expense category")
		}
		category = *input.Category
	}

	var result *AllocationDTO

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repoFactory(tx)

		estimate, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := pricing.ValidateAllocation(input.Amount, estimate.ContingencyAmount, estimate.ContingencyUsed); err != nil {
			return err
		}

		expenseDate := s.now().UTC()
		if input.ExpenseDate != nil {
			expenseDate = *input.ExpenseDate
		}
		expense := &models.Expense{
			ProjectID:       estimate.ProjectID,
			EstimateID:      &estimate.ID,
			Category:        category,
			Amount:          input.Amount,
			Description:     strings.TrimSpace(input.Description),
			VendorName:      input.VendorName,
			ExpenseDate:     expenseDate,
			ContingencyDraw: true,
		}
		if err := txRepo.CreateExpense(ctx, expense); err != nil {
			return err
		}
		if err := txRepo.IncrementContingencyUsed(ctx, estimate.ID, input.Amount); err != nil {
			return err
		}

		used := estimate.ContingencyUsed.Add(input.Amount)
		result = &AllocationDTO{
			ExpenseID:            expense.ID,
			Amount:               input.Amount,
			ContingencyUsed:      used,
			ContingencyRemaining: pricing.ContingencyRemaining(estimate.ContingencyAmount, used),
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, pricing.ErrAllocationNotPositive) || errors.Is(txErr, pricing.ErrAllocationExceedsRemaining) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, txErr, "contingency allocation rejected")
		}
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "allocate contingency")
	}

	return result, nil
}
