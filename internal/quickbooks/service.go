package quickbooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/db/models"
	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
	pkgerrors "github.com/marcosalvarado/buildledger-backend/pkg/errors"
)

type syncRepository interface {
	UpsertMapping(ctx context.Context, mapping *models.QuickBooksAccountMapping) error
	ListMappings(ctx context.Context) ([]models.QuickBooksAccountMapping, error)
	CreateSyncRecord(ctx context.Context, record *models.QuickBooksTransactionSync) error
	ListSyncRecordsByEntity(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) ([]models.QuickBooksTransactionSync, error)
	LatestSyncRecord(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) (*models.QuickBooksTransactionSync, error)
	DeleteSyncRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service exposes QuickBooks metadata operations. It never talks to the
// QuickBooks API; it stores mappings and sync outcomes reported by the
// accountant's tooling.
type Service interface {
	UpsertMapping(ctx context.Context, input UpsertMappingInput) (*AccountMappingDTO, error)
	ListMappings(ctx context.Context) ([]AccountMappingDTO, error)
	RecordSync(ctx context.Context, input RecordSyncInput) (*SyncRecordDTO, error)
	SyncHistory(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) ([]SyncRecordDTO, error)
	LatestSyncStatus(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) (*SyncRecordDTO, error)
	PruneSyncHistory(ctx context.Context, olderThan time.Duration) (int64, error)
}

type service struct {
	repo syncRepository
	now  func() time.Time
}

// NewService builds a QuickBooks metadata service.
func NewService(repo syncRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quickbooks repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// UpsertMappingInput assigns a QuickBooks account to a category.
type UpsertMappingInput struct {
	Category      enums.LineItemCategory
	QBAccountID   string
	QBAccountName string
}

func (s *service) UpsertMapping(ctx context.Context, input UpsertMappingInput) (*AccountMappingDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if strings.TrimSpace(input.QBAccountID) == "" || strings.TrimSpace(input.QBAccountName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id and name are required")
	}

	mapping := &models.QuickBooksAccountMapping{
		Category:      input.Category,
		QBAccountID:   input.QBAccountID,
		QBAccountName: input.QBAccountName,
	}
	if err := s.repo.UpsertMapping(ctx, mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert account mapping")
	}
	return mappingFromModel(mapping), nil
}

func (s *service) ListMappings(ctx context.Context) ([]AccountMappingDTO, error) {
	mappings, err := s.repo.ListMappings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list account mappings")
	}
	dtos := make([]AccountMappingDTO, 0, len(mappings))
	for i := range mappings {
		dtos = append(dtos, *mappingFromModel(&mappings[i]))
	}
	return dtos, nil
}

// RecordSyncInput captures one reported sync attempt.
type RecordSyncInput struct {
	EntityType      enums.SyncEntityType
	EntityID        uuid.UUID
	QBTransactionID *string
	Status          enums.SyncStatus
	ErrorMessage    *string
}

func (s *service) RecordSync(ctx context.Context, input RecordSyncInput) (*SyncRecordDTO, error) {
	if !input.EntityType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if input.EntityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	status := input.Status
	if status == "" {
		status = enums.SyncStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sync status")
	}
	if status == enums.SyncStatusFailed && input.ErrorMessage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "failed syncs must carry an error message")
	}

	record := &models.QuickBooksTransactionSync{
		EntityType:      input.EntityType,
		EntityID:        input.EntityID,
		QBTransactionID: input.QBTransactionID,
		Status:          status,
		ErrorMessage:    input.ErrorMessage,
	}
	if status == enums.SyncStatusSuccess {
		syncedAt := s.now().UTC()
		record.SyncedAt = &syncedAt
	}
	if err := s.repo.CreateSyncRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sync attempt")
	}
	return syncRecordFromModel(record), nil
}

func (s *service) SyncHistory(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) ([]SyncRecordDTO, error) {
	if !entityType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	records, err := s.repo.ListSyncRecordsByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sync history")
	}
	dtos := make([]SyncRecordDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *syncRecordFromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) LatestSyncStatus(ctx context.Context, entityType enums.SyncEntityType, entityID uuid.UUID) (*SyncRecordDTO, error) {
	if !entityType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	record, err := s.repo.LatestSyncRecord(ctx, entityType, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no sync history for entity")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest sync record")
	}
	return syncRecordFromModel(record), nil
}

// PruneSyncHistory drops records older than the retention window and
// returns the removed row count.
func (s *service) PruneSyncHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention window must be positive")
	}
	cutoff := s.now().UTC().Add(-olderThan)
	removed, err := s.repo.DeleteSyncRecordsBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "prune sync history")
	}
	return removed, nil
}
