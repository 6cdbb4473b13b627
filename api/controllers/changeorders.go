package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/changeorders"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type changeOrderCreateRequest struct {
	ProjectID           string          `json:"project_id" validate:"required,uuid"`
	Title               string          `json:"title" validate:"required,max=200"`
	Description         *string         `json:"description,omitempty"`
	ClientAmount        decimal.Decimal `json:"client_amount"`
	CostImpact          decimal.Decimal `json:"cost_impact"`
	IncludesContingency bool            `json:"includes_contingency"`
}

func ChangeOrderCreate(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeOrderCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		projectID, err := parseUUIDField(req.ProjectID, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), changeorders.CreateChangeOrderInput{
			ProjectID:           projectID,
			Title:               req.Title,
			Description:         req.Description,
			ClientAmount:        req.ClientAmount,
			CostImpact:          req.CostImpact,
			IncludesContingency: req.IncludesContingency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ChangeOrderGet(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "changeOrderId")
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

func ChangeOrderList(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
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

func changeOrderDecision(decide func(r *http.Request, id uuid.UUID) (*changeorders.ChangeOrderDTO, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "changeOrderId")
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

func ChangeOrderApprove(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
	return changeOrderDecision(func(r *http.Request, id uuid.UUID) (*changeorders.ChangeOrderDTO, error) {
		return svc.Approve(r.Context(), id)
	}, logg)
}

func ChangeOrderReject(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
	return changeOrderDecision(func(r *http.Request, id uuid.UUID) (*changeorders.ChangeOrderDTO, error) {
		return svc.Reject(r.Context(), id)
	}, logg)
}

// ChangeOrderRollup reports the approved-only project totals.
func ChangeOrderRollup(svc changeorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		rollup, err := svc.Rollup(r.Context(), projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rollup)
	}
}
