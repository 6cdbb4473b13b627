package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronMetrics tracks job runs for the cron worker.
type CronMetrics struct {
	runsTotal    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lockSkips    prometheus.Counter
	affectedRows *prometheus.CounterVec
}

func NewCronMetrics(reg prometheus.Registerer) *CronMetrics {
	m := &CronMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildledger",
			Subsystem: "cron",
			Name:      "job_runs_total",
			Help:      "Completed cron job runs by job name.",
		}, []string{"job"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildledger",
			Subsystem: "cron",
			Name:      "job_failures_total",
			Help:      "Failed cron job runs by job name.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "buildledger",
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Cron job run duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		lockSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buildledger",
			Subsystem: "cron",
			Name:      "cycle_lock_skips_total",
			Help:      "Cron cycles skipped because another worker held the lock.",
		}),
		affectedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildledger",
			Subsystem: "cron",
			Name:      "job_affected_rows_total",
			Help:      "Rows touched by cron jobs, such as expired quotes or pruned sync records.",
		}, []string{"job"}),
	}

	reg.MustRegister(m.runsTotal, m.failures, m.duration, m.lockSkips, m.affectedRows)
	return m
}

func (m *CronMetrics) ObserveRun(job string, elapsed time.Duration, err error) {
	m.runsTotal.WithLabelValues(job).Inc()
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(job).Inc()
	}
}

func (m *CronMetrics) LockSkipped() {
	m.lockSkips.Inc()
}

func (m *CronMetrics) AddAffectedRows(job string, n int64) {
	if n <= 0 {
		return
	}
	m.affectedRows.WithLabelValues(job).Add(float64(n))
}
