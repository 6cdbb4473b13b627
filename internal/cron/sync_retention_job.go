package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/metrics"
)

const syncRetentionJobName = "sync_history_retention"

type syncPruner interface {
	PruneSyncHistory(ctx context.Context, olderThan time.Duration) (int64, error)
}

// SyncRetentionJob prunes QuickBooks sync history past the retention
// window. The history is append-only, so without this it grows forever.
type SyncRetentionJob struct {
	quickbooks syncPruner
	logg       *logger.Logger
	metrics    *metrics.CronMetrics
	retention  time.Duration
}

// NewSyncRetentionJob builds the job.
func NewSyncRetentionJob(quickbooks syncPruner, logg *logger.Logger, m *metrics.CronMetrics, retention time.Duration) (*SyncRetentionJob, error) {
	if quickbooks == nil {
		return nil, fmt.Errorf("quickbooks service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("retention window must be positive")
	}
	return &SyncRetentionJob{quickbooks: quickbooks, logg: logg, metrics: m, retention: retention}, nil
}

func (j *SyncRetentionJob) Name() string {
	return syncRetentionJobName
}

func (j *SyncRetentionJob) Run(ctx context.Context) error {
	removed, err := j.quickbooks.PruneSyncHistory(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("prune sync history: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddAffectedRows(j.Name(), removed)
	}
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "removed_count", removed), "pruned sync history")
	}
	return nil
}
