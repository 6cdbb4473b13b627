package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/marcosalvarado/buildledger-backend/pkg/logger"
	"github.com/marcosalvarado/buildledger-backend/pkg/metrics"
)

const quoteExpirationJobName = "quote_expiration"

type quoteExpirer interface {
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// QuoteExpirationJob flips pending vendor quotes whose validity window has
// passed. Keeps comparisons honest without waiting for someone to open the
// quote.
type QuoteExpirationJob struct {
	quotes  quoteExpirer
	logg    *logger.Logger
	metrics *metrics.CronMetrics
	now     func() time.Time
}

// NewQuoteExpirationJob builds the job.
func NewQuoteExpirationJob(quotes quoteExpirer, logg *logger.Logger, m *metrics.CronMetrics) (*QuoteExpirationJob, error) {
	if quotes == nil {
		return nil, fmt.Errorf("quote service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &QuoteExpirationJob{quotes: quotes, logg: logg, metrics: m, now: time.Now}, nil
}

func (j *QuoteExpirationJob) Name() string {
	return quoteExpirationJobName
}

func (j *QuoteExpirationJob) Run(ctx context.Context) error {
	expired, err := j.quotes.ExpireDue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire due quotes: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AddAffectedRows(j.Name(), expired)
	}
	if expired > 0 {
		j.logg.Info(j.logg.WithField(ctx, "expired_count", expired), "expired stale quotes")
	}
	return nil
}
