package pricing

import "github.com/shopspring/decimal"

// Variance is the signed gap between an actual figure and its estimated
// counterpart. Positive difference means over the estimate (unfavorable),
// negative means under (favorable); consumers rely on that sign convention
// for color-coding.
type Variance struct {
	Difference  decimal.Decimal `json:"difference"`
	Percent     decimal.Decimal `json:"percent"`
	Unfavorable bool            `json:"unfavorable"`
}

// NewVariance computes actual minus estimate. Percent is zero whenever the
// estimate amount is zero or negative; callers distinguish "no data" by
// passing no variance at all, never by a zero one.
func NewVariance(estimate, actual decimal.Decimal) Variance {
	diff := actual.Sub(estimate)
	return Variance{
		Difference:  diff,
		Percent:     ratioPercent(diff, estimate),
		Unfavorable: diff.Sign() > 0,
	}
}
