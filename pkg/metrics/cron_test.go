package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRunCountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronMetrics(reg)

	m.ObserveRun("quote-expiration", 50*time.Millisecond, nil)
	m.ObserveRun("quote-expiration", 75*time.Millisecond, errors.New("db down"))

	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("quote-expiration")); got != 2 {
		t.Fatalf("runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("quote-expiration")); got != 1 {
		t.Fatalf("failures = %v, want 1", got)
	}
}

func TestAffectedRowsIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronMetrics(reg)

	m.AddAffectedRows("sync-retention", 0)
	m.AddAffectedRows("sync-retention", -3)
	m.AddAffectedRows("sync-retention", 12)

	if got := testutil.ToFloat64(m.affectedRows.WithLabelValues("sync-retention")); got != 12 {
		t.Fatalf("affected rows = %v, want 12", got)
	}
}
