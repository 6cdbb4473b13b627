package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/estimates"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type estimateLineItemRequest struct {
	Category              string           `json:"category" validate:"required"`
	Description           string           `json:"description" validate:"required,max=500"`
	Quantity              decimal.Decimal  `json:"quantity"`
	CostPerUnit           decimal.Decimal  `json:"cost_per_unit"`
	MarkupPercent         *decimal.Decimal `json:"markup_percent,omitempty"`
	MarkupAmount          *decimal.Decimal `json:"markup_amount,omitempty"`
	LaborHours            *decimal.Decimal `json:"labor_hours,omitempty"`
	BillingRatePerHour    *decimal.Decimal `json:"billing_rate_per_hour,omitempty"`
	ActualCostRatePerHour *decimal.Decimal `json:"actual_cost_rate_per_hour,omitempty"`
	SortOrder             int              `json:"sort_order"`
}

type estimateCreateRequest struct {
	ProjectID           string                    `json:"project_id" validate:"required,uuid"`
	Title               string                    `json:"title" validate:"required,max=200"`
	ContingencyPercent  decimal.Decimal           `json:"contingency_percent"`
	TargetMarginPercent decimal.Decimal           `json:"target_margin_percent"`
	Notes               *string                   `json:"notes,omitempty"`
	Items               []estimateLineItemRequest `json:"items,omitempty"`
}

type estimateLineItemsRequest struct {
	Items []estimateLineItemRequest `json:"items" validate:"required,min=1"`
}

type estimateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type contingencyAllocationRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required,max=500"`
	Category    *string         `json:"category,omitempty"`
	VendorName  *string         `json:"vendor_name,omitempty"`
	ExpenseDate *time.Time      `json:"expense_date,omitempty"`
}

func lineItemInputs(reqs []estimateLineItemRequest) ([]estimates.LineItemInput, error) {
	items := make([]estimates.LineItemInput, 0, len(reqs))
	for _, req := range reqs {
		category, err := enums.ParseLineItemCategory(req.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid line item category").WithDetails(map[string]any{"category": req.Category})
		}
		items = append(items, estimates.LineItemInput{
			Category:              category,
			Description:           req.Description,
			Quantity:              req.Quantity,
			CostPerUnit:           req.CostPerUnit,
			MarkupPercent:         req.MarkupPercent,
			MarkupAmount:          req.MarkupAmount,
			LaborHours:            req.LaborHours,
			BillingRatePerHour:    req.BillingRatePerHour,
			ActualCostRatePerHour: req.ActualCostRatePerHour,
			SortOrder:             req.SortOrder,
		})
	}
	return items, nil
}

func EstimateCreate(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req estimateCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		projectID, err := parseUUIDField(req.ProjectID, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := lineItemInputs(req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), estimates.CreateEstimateInput{
			ProjectID:           projectID,
			Title:               req.Title,
			ContingencyPercent:  req.ContingencyPercent,
			TargetMarginPercent: req.TargetMarginPercent,
			Notes:               req.Notes,
			Items:               items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func EstimateGet(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
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

func EstimateList(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
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

func EstimateTotals(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		totals, err := svc.Totals(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// EstimateExportCSV streams the line items as a spreadsheet download.
func EstimateExportCSV(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := svc.ExportCSV(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="estimate-`+id.String()+`.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

func EstimateReplaceLineItems(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req estimateLineItemsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := lineItemInputs(req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ReplaceLineItems(r.Context(), id, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EstimateUpdateStatus(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req estimateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseEstimateStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid estimate status"))
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EstimateCreateVersion(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateVersion(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func EstimateAllocateContingency(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "estimateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req contingencyAllocationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var category *enums.LineItemCategory
		if req.Category != nil {
			parsed, err := enums.ParseLineItemCategory(*req.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid expense category"))
				return
			}
			category = &parsed
		}

		dto, err := svc.AllocateContingency(r.Context(), id, estimates.AllocateContingencyInput{
			Amount:      req.Amount,
			Description: req.Description,
			Category:    category,
			VendorName:  req.VendorName,
			ExpenseDate: req.ExpenseDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
