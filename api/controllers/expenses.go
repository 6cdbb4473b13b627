package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/expenses"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/pagination"
)

type receiptRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	StorageKey  string `json:"storage_key" validate:"required,max=500"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

type expenseCreateRequest struct {
	ProjectID   string           `json:"project_id" validate:"required,uuid"`
	EstimateID  *string          `json:"estimate_id,omitempty" validate:"omitempty,uuid"`
	Category    string           `json:"category" validate:"required"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description" validate:"required,max=500"`
	VendorName  *string          `json:"vendor_name,omitempty"`
	ExpenseDate *time.Time       `json:"expense_date,omitempty"`
	Receipts    []receiptRequest `json:"receipts,omitempty"`
}

func ExpenseCreate(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req expenseCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		projectID, err := parseUUIDField(req.ProjectID, "project_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseLineItemCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid expense category"))
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

		receipts := make([]expenses.ReceiptInput, 0, len(req.Receipts))
		for _, receipt := range req.Receipts {
			receipts = append(receipts, expenses.ReceiptInput{
				FileName:    receipt.FileName,
				StorageKey:  receipt.StorageKey,
				ContentType: receipt.ContentType,
				SizeBytes:   receipt.SizeBytes,
			})
		}

		dto, err := svc.Create(r.Context(), expenses.CreateExpenseInput{
			ProjectID:   projectID,
			EstimateID:  estimateID,
			Category:    category,
			Amount:      req.Amount,
			Description: req.Description,
			VendorName:  req.VendorName,
			ExpenseDate: req.ExpenseDate,
			Receipts:    receipts,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ExpenseGet(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "expenseId")
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

func ExpenseList(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
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

// ExpenseVariance reports actual spend per category against an estimate.
func ExpenseVariance(svc expenses.Service, logg *logger.Logger) http.HandlerFunc {
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
		estimateID, ok, err := validators.ParseUUIDQuery(r, "estimate_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "estimate_id query parameter is required"))
			return
		}

		report, err := svc.CategoryVariance(r.Context(), projectID, estimateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
