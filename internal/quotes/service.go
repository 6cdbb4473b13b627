package quotes

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

type quoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.Quote, int64, error)
	Update(ctx context.Context, quote *models.Quote) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	FindEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error)
}

// Service exposes quote operations.
type Service interface {
	Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]QuoteDTO, int64, error)
	Accept(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	Reopen(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	Compare(ctx context.Context, id uuid.UUID) (*pricing.QuoteComparison, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo quoteRepository
	now  func() time.Time
}

// NewService builds a quote service with the provided repository.
func NewService(repo quoteRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// QuoteLineItemInput is the write shape for one quote line item.
type QuoteLineItemInput struct {
	EstimateLineItemID *uuid.UUID
	Category           enums.LineItemCategory
	Description        string
	Quantity           decimal.Decimal
	CostPerUnit        decimal.Decimal
	MarkupPercent      *decimal.Decimal
	MarkupAmount       *decimal.Decimal
	SortOrder          int
}

// CreateQuoteInput captures creation fields.
type CreateQuoteInput struct {
	ProjectID  uuid.UUID
	EstimateID *uuid.UUID
	VendorName string
	ValidUntil *time.Time
	Notes      *string
	Items      []QuoteLineItemInput
}

func buildQuoteLineItem(input QuoteLineItemInput) (models.QuoteLineItem, error) {
	if !input.Category.IsValid() {
		return models.QuoteLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item category")
	}
	if strings.TrimSpace(input.Description) == "" {
		return models.QuoteLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "line item description is required")
	}
	if input.MarkupPercent != nil && input.MarkupAmount != nil {
		return models.QuoteLineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "markup percent and markup amount are mutually exclusive")
	}

	markup := pricing.MarkupFromColumns(input.MarkupPercent, input.MarkupAmount)
	priced, err := pricing.ComputeLineItem(pricing.LineItemInput{
		Category:    input.Category,
		Quantity:    input.Quantity,
		CostPerUnit: input.CostPerUnit,
		Markup:      markup,
	})
	if err != nil {
		return models.QuoteLineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price line item")
	}

	return models.QuoteLineItem{
		EstimateLineItemID: input.EstimateLineItemID,
		Category:           input.Category,
		Description:        strings.TrimSpace(input.Description),
		Quantity:           input.Quantity,
		CostPerUnit:        priced.CostPerUnit,
		PricePerUnit:       priced.PricePerUnit,
		MarkupPercent:      markup.PercentColumn(),
		MarkupAmount:       markup.AmountColumn(),
		Total:              priced.Total,
		TotalCost:          priced.TotalCost,
		TotalMarkup:        priced.TotalMarkup,
		SortOrder:          input.SortOrder,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error) {
	if input.ProjectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	vendor := strings.TrimSpace(input.VendorName)
	if vendor == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name is required")
	}

	items := make([]models.QuoteLineItem, 0, len(input.Items))
	total := decimal.Zero
	for _, itemInput := range input.Items {
		item, err := buildQuoteLineItem(itemInput)
		if err != nil {
			return nil, err
		}
		total = total.Add(item.Total)
		items = append(items, item)
	}

	quote := &models.Quote{
		ProjectID:   input.ProjectID,
		EstimateID:  input.EstimateID,
		VendorName:  vendor,
		Status:      enums.QuoteStatusPending,
		ValidUntil:  input.ValidUntil,
		TotalAmount: total,
		Notes:       input.Notes,
		Items:       items,
	}
	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}
	return FromModel(quote), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(quote), nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]QuoteDTO, int64, error) {
	quotes, total, err := s.repo.ListByProject(ctx, projectID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	dtos := make([]QuoteDTO, 0, len(quotes))
	for i := range quotes {
		dtos = append(dtos, *FromModel(&quotes[i]))
	}
	return dtos, total, nil
}

// Accept marks a pending quote accepted. Quotes past their validity window
// are refused even if the expiration sweep has not reached them yet.
func (s *service) Accept(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only pending quotes can be accepted; quote is %s", quote.Status))
	}
	now := s.now().UTC()
	if quote.ValidUntil != nil && quote.ValidUntil.Before(now) {
		quote.Status = enums.QuoteStatusExpired
		quote.ExpiredAt = &now
		if err := s.repo.Update(ctx, quote); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire quote")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote validity window has passed")
	}

	quote.Status = enums.QuoteStatusAccepted
	quote.AcceptedAt = &now
	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept quote")
	}
	return FromModel(quote), nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only pending quotes can be rejected; quote is %s", quote.Status))
	}
	now := s.now().UTC()
	quote.Status = enums.QuoteStatusRejected
	quote.RejectedAt = &now
	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject quote")
	}
	return FromModel(quote), nil
}

// Reopen returns a rejected quote to pending for renegotiation.
func (s *service) Reopen(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only rejected quotes can be reopened; quote is %s", quote.Status))
	}
	quote.Status = enums.QuoteStatusPending
	quote.RejectedAt = nil
	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen quote")
	}
	return FromModel(quote), nil
}

// Compare runs the quote against its linked estimate.
func (s *service) Compare(ctx context.Context, id uuid.UUID) (*pricing.QuoteComparison, error) {
	quote, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.EstimateID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote is not linked to an estimate")
	}

	estimate, err := s.repo.FindEstimate(ctx, *quote.EstimateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "linked estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load estimate")
	}

	estimateLines := make([]pricing.EstimateLine, 0, len(estimate.Items))
	for _, item := range estimate.Items {
		estimateLines = append(estimateLines, pricing.EstimateLine{
			ID:        item.ID,
			Category:  item.Category,
			Total:     item.Total,
			TotalCost: item.TotalCost,
		})
	}
	quoteLines := make([]pricing.QuoteLine, 0, len(quote.Items))
	for _, item := range quote.Items {
		quoteLines = append(quoteLines, pricing.QuoteLine{
			Category:           item.Category,
			Total:              item.Total,
			EstimateLineItemID: item.EstimateLineItemID,
		})
	}

	comparison := pricing.CompareQuote(pricing.ComparisonInput{
		EstimateLines:       estimateLines,
		QuoteLines:          quoteLines,
		TargetMarginPercent: estimate.TargetMarginPercent,
	})
	return &comparison, nil
}

// ExpireDue flips past-validity pending quotes; the cron worker calls this
// on every cycle.
func (s *service) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.ExpireDue(ctx, now.UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire due quotes")
	}
	return count, nil
}
