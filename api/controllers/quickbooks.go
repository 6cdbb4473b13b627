package controllers

import (
	"net/http"
	"strings"

	"github.com/marcosalvarado/buildledger-backend/api/responses"
	"github.com/marcosalvarado/buildledger-backend/api/validators"
	"github.com/marcosalvarado/buildledger-backend/internal/quickbooks"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
)

type accountMappingRequest struct {
	Category      string `json:"category" validate:"required"`
	QBAccountID   string `json:"qb_account_id" validate:"required,max=100"`
	QBAccountName string `json:"qb_account_name" validate:"required,max=200"`
}

type syncRecordRequest struct {
	EntityType      string  `json:"entity_type" validate:"required"`
	EntityID        string  `json:"entity_id" validate:"required,uuid"`
	QBTransactionID *string `json:"qb_transaction_id,omitempty"`
	Status          string  `json:"status,omitempty"`
	ErrorMessage    *string `json:"error_message,omitempty"`
}

func QuickBooksMappingUpsert(svc quickbooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountMappingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseLineItemCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid category"))
			return
		}

		dto, err := svc.UpsertMapping(r.Context(), quickbooks.UpsertMappingInput{
			Category:      category,
			QBAccountID:   req.QBAccountID,
			QBAccountName: req.QBAccountName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func QuickBooksMappingList(svc quickbooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.ListMappings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func QuickBooksSyncRecord(svc quickbooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncRecordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entityType, err := enums.ParseSyncEntityType(req.EntityType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type"))
			return
		}
		entityID, err := parseUUIDField(req.EntityID, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status enums.SyncStatus
		if raw := strings.TrimSpace(req.Status); raw != "" {
			parsed, err := enums.ParseSyncStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid sync status"))
				return
			}
			status = parsed
		}

		dto, err := svc.RecordSync(r.Context(), quickbooks.RecordSyncInput{
			EntityType:      entityType,
			EntityID:        entityID,
			QBTransactionID: req.QBTransactionID,
			Status:          status,
			ErrorMessage:    req.ErrorMessage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func parseSyncEntityQuery(r *http.Request) (enums.SyncEntityType, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("entity_type"))
	if raw == "" {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "entity_type query parameter is required")
	}
	entityType, err := enums.ParseSyncEntityType(raw)
	if err != nil {
		return "", false, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	return entityType, true, nil
}

func QuickBooksSyncHistory(svc quickbooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType, _, err := parseSyncEntityQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entityID, ok, err := validators.ParseUUIDQuery(r, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "entity_id query parameter is required"))
			return
		}

		dtos, err := svc.SyncHistory(r.Context(), entityType, entityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func QuickBooksSyncLatest(svc quickbooks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityType, _, err := parseSyncEntityQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entityID, ok, err := validators.ParseUUIDQuery(r, "entity_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "entity_id query parameter is required"))
			return
		}

		dto, err := svc.LatestSyncStatus(r.Context(), entityType, entityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
