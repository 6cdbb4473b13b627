package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/quotes"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type quoteLineItemRequest struct {
	EstimateLineItemID *string          `json:"estimate_line_item_id,omitempty" validate:"omitempty,uuid"`
	Category           string           `json:"category" validate:"required"`
	Description        string           `json:"description" validate:"required,max=500"`
	Quantity           decimal.Decimal  `json:"quantity"`
	CostPerUnit        decimal.Decimal  `json:"cost_per_unit"`
	MarkupPercent      *decimal.Decimal `json:"markup_percent,omitempty"`
	MarkupAmount       *decimal.Decimal `json:"markup_amount,omitempty"`
	SortOrder          int              `json:"sort_order"`
}

type quoteCreateRequest struct {
	ProjectID  string                 `json:"project_id" validate:"required,uuid"`
	EstimateID *string                `json:"estimate_id,omitempty" validate:"omitempty,uuid"`
	VendorName string                 `json:"vendor_name" validate:"required,max=200"`
	ValidUntil *time.Time             `json:"valid_until,omitempty"`
	Notes      *string                `json:"notes,omitempty"`
	Items      []quoteLineItemRequest `json:"items,omitempty"`
}

func quoteLineItemInputs(reqs []quoteLineItemRequest) ([]quotes.QuoteLineItemInput, error) {
	items := make([]quotes.QuoteLineItemInput, 0, len(reqs))
	for _, req := range reqs {
		category, err := enums.ParseLineItemCategory(req.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item category").WithDetails(map[string]any{"category": req.Category})
		}

		var estimateLineItemID *uuid.UUID
		if req.EstimateLineItemID != nil {
			parsed, err := parseUUIDField(*req.EstimateLineItemID, "estimate_line_item_id")
			if err != nil {
				return nil, err
			}
			estimateLineItemID = &parsed
		}

		items = append(items, quotes.QuoteLineItemInput{
			EstimateLineItemID: estimateLineItemID,
			Category:           category,
			Description:        req.Description,
			Quantity:           req.Quantity,
			CostPerUnit:        req.CostPerUnit,
			MarkupPercent:      req.MarkupPercent,
			MarkupAmount:       req.MarkupAmount,
			SortOrder:          req.SortOrder,
		})
	}
	return items, nil
}

func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req quoteCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		projectID, err := parseUUIDField(req.ProjectID, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var estimateID *uuid.UUID
		if req.EstimateID != nil {
			parsed, err := parseUUIDField(*req.EstimateID, "estimate_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			estimateID = &parsed
		}

		items, err := quoteLineItemInputs(req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), quotes.CreateQuoteInput{
			ProjectID:  projectID,
			EstimateID: estimateID,
			VendorName: req.VendorName,
			ValidUntil: req.ValidUntil,
			Notes:      req.Notes,
			Items:      items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func QuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok, err := validators.ParseUUIDQuery(r, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "project_id query parameter is required"))
			return
		}

		page := pagination.FromRequest(r)
		dtos, total, err := svc.ListByProject(r.Context(), projectID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, dtos, pagination.NewMeta(page, total))
	}
}

func quoteDecision(decide func(r *http.Request, id uuid.UUID) (*quotes.QuoteDTO, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := decide(r, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func QuoteAccept(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteDecision(func(r *http.Request, id uuid.UUID) (*quotes.QuoteDTO, error) {
		return svc.Accept(r.Context(), id)
	}, logg)
}

func QuoteReject(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteDecision(func(r *http.Request, id uuid.UUID) (*quotes.QuoteDTO, error) {
		return svc.Reject(r.Context(), id)
	}, logg)
}

func QuoteReopen(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteDecision(func(r *http.Request, id uuid.UUID) (*quotes.QuoteDTO, error) {
		return svc.Reopen(r.Context(), id)
	}, logg)
}

func QuoteComparison(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		comparison, err := svc.Compare(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, comparison)
	}
}
