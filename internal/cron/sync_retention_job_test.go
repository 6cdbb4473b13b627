package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSyncPruner struct {
	removed       int64
	err           error
	seenRetention time.Duration
}

func (f *fakeSyncPruner) PruneSyncHistory(_ context.Context, olderThan time.Duration) (int64, error) {
	f.seenRetention = olderThan
	return f.removed, f.err
}

func TestSyncRetentionJobRun(t *testing.T) {
	pruner := &fakeSyncPruner{removed: 12}
	job, err := NewSyncRetentionJob(pruner, testLogger(), nil, 90*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, "sync_history_retention", job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, 90*24*time.Hour, pruner.seenRetention)
}

func TestSyncRetentionJobPropagatesError(t *testing.T) {
	pruner := &fakeSyncPruner{err: fmt.Errorf("db down")}
	job, err := NewSyncRetentionJob(pruner, testLogger(), nil, time.Hour)
	require.NoError(t, err)

	require.Error(t, job.Run(context.Background()))
}

func TestNewSyncRetentionJobRejectsZeroRetention(t *testing.T) {
	_, err := NewSyncRetentionJob(&fakeSyncPruner{}, testLogger(), nil, 0)
	require.Error(t, err)
}
