package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeQuoteExpirer struct {
	expired int64
	err     error
	seenNow time.Time
}

func (f *fakeQuoteExpirer) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	f.seenNow = now
	return f.expired, f.err
}

func TestQuoteExpirationJobRun(t *testing.T) {
	expirer := &fakeQuoteExpirer{expired: 3}
	job, err := NewQuoteExpirationJob(expirer, testLogger(), nil)
	require.NoError(t, err)
	require.Equal(t, "quote_expiration", job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.False(t, expirer.seenNow.IsZero())
	require.Equal(t, time.UTC, expirer.seenNow.Location())
}

func TestQuoteExpirationJobPropagatesError(t *testing.T) {
	expirer := &fakeQuoteExpirer{err: fmt.Errorf("db down")}
	job, err := NewQuoteExpirationJob(expirer, testLogger(), nil)
	require.NoError(t, err)

	require.Error(t, job.Run(context.Background()))
}

func TestNewQuoteExpirationJobRequiresService(t *testing.T) {
	_, err := NewQuoteExpirationJob(nil, testLogger(), nil)
	require.Error(t, err)
}
