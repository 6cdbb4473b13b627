package changeorders

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

type changeOrderRepository interface {
	Create(ctx context.Context, order *models.ChangeOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ChangeOrder, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]models.ChangeOrder, int64, error)
	Update(ctx context.Context, order *models.ChangeOrder) error
	FindApprovedByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChangeOrder, error)
}

// Service exposes change order operations.
type Service interface {
	Create(ctx context.Context, input CreateChangeOrderInput) (*ChangeOrderDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]ChangeOrderDTO, int64, error)
	Approve(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error)
	Reject(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error)
	Rollup(ctx context.Context, projectID uuid.UUID) (*pricing.ChangeOrderRollup, error)
}

type service struct {
	repo changeOrderRepository
	now  func() time.Time
}

// NewService builds a change order service with the provided repository.
func NewService(repo changeOrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("change order repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// CreateChangeOrderInput captures creation fields. MarginImpact is derived,
// never accepted from the caller.
type CreateChangeOrderInput struct {
	ProjectID           uuid.UUID
	Title               string
	Description         *string
	ClientAmount        decimal.Decimal
	CostImpact          decimal.Decimal
	IncludesContingency bool
}

func (s *service) Create(ctx context.Context, input CreateChangeOrderInput) (*ChangeOrderDTO, error) {
	if input.ProjectID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change order title is required")
	}

	order := &models.ChangeOrder{
		ProjectID:           input.ProjectID,
		Title:               title,
		Description:         input.Description,
		Status:              enums.ChangeOrderStatusPending,
		ClientAmount:        input.ClientAmount,
		CostImpact:          input.CostImpact,
		MarginImpact:        input.ClientAmount.Sub(input.CostImpact),
		IncludesContingency: input.IncludesContingency,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create change order")
	}
	return FromModel(order), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.ChangeOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "change order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load change order")
	}
	return order, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) ListByProject(ctx context.Context, projectID uuid.UUID, page pagination.Page) ([]ChangeOrderDTO, int64, error) {
	orders, total, err := s.repo.ListByProject(ctx, projectID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list change orders")
	}
	dtos := make([]ChangeOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *FromModel(&orders[i]))
	}
	return dtos, total, nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.ChangeOrderStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "change order is already approved")
	}

	now := s.now().UTC()
	order.Status = enums.ChangeOrderStatusApproved
	order.ApprovedAt = &now
	order.RejectedAt = nil
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve change order")
	}
	return FromModel(order), nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) (*ChangeOrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.ChangeOrderStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "change order is already rejected")
	}

	now := s.now().UTC()
	order.Status = enums.ChangeOrderStatusRejected
	order.RejectedAt = &now
	order.ApprovedAt = nil
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject change order")
	}
	return FromModel(order), nil
}

// Rollup folds the project's approved change orders into totals.
func (s *service) Rollup(ctx context.Context, projectID uuid.UUID) (*pricing.ChangeOrderRollup, error) {
	orders, err := s.repo.FindApprovedByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved change orders")
	}

	rows := make([]pricing.ChangeOrderFigures, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, pricing.ChangeOrderFigures{
			Status:       order.Status,
			ClientAmount: order.ClientAmount,
			CostImpact:   order.CostImpact,
			MarginImpact: order.MarginImpact,
		})
	}
	rollup := pricing.RollupChangeOrders(rows)
	return &rollup, nil
}
