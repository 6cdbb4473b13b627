package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/timeentries"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type timeEntryCreateRequest struct {
	ProjectID             string          `json:"project_id" validate:"required,uuid"`
	WorkerName            string          `json:"worker_name" validate:"required,max=200"`
	EntryDate             time.Time       `json:"entry_date" validate:"required"`
	Hours                 decimal.Decimal `json:"hours"`
	BillingRatePerHour    decimal.Decimal `json:"billing_rate_per_hour"`
	ActualCostRatePerHour decimal.Decimal `json:"actual_cost_rate_per_hour"`
	Notes                 *string         `json:"notes,omitempty"`
}

func TimeEntryCreate(svc timeentries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req timeEntryCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		projectID, err := parseUUIDField(req.ProjectID, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), timeentries.CreateTimeEntryInput{
			ProjectID:             projectID,
			WorkerName:            req.WorkerName,
			EntryDate:             req.EntryDate,
			Hours:                 req.Hours,
			BillingRatePerHour:    req.BillingRatePerHour,
			ActualCostRatePerHour: req.ActualCostRatePerHour,
			Notes:                 req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func TimeEntryList(svc timeentries.Service, logg *logger.Logger) http.HandlerFunc {
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

// TimeEntryLaborSummary totals a project's logged labor.
func TimeEntryLaborSummary(svc timeentries.Service, logg *logger.Logger) http.HandlerFunc {
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

		summary, err := svc.LaborSummary(r.Context(), projectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
