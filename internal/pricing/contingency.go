package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAllocationNotPositive rejects zero or negative contingency draws.
	ErrAllocationNotPositive = errors.New("allocation amount must be positive")
	// ErrAllocationExceedsRemaining rejects draws larger than the unspent
	// contingency reserve.
	ErrAllocationExceedsRemaining = errors.New("allocation exceeds remaining contingency")
)

// ContingencyAmount computes the fixed reserve held back from an estimate:
// estimate total times the contingency percentage.
func ContingencyAmount(estimateTotal, contingencyPercent decimal.Decimal) decimal.Decimal {
	return estimateTotal.Mul(contingencyPercent).Div(hundred)
}

// ContingencyRemaining is the unspent portion of the reserve.
func ContingencyRemaining(contingencyAmount, contingencyUsed decimal.Decimal) decimal.Decimal {
	return contingencyAmount.Sub(contingencyUsed)
}

// ValidateAllocation checks a draw request against the reserve. A rejected
// request must leave all state untouched; callers only mutate after a nil
// return.
func ValidateAllocation(amount, contingencyAmount, contingencyUsed decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrAllocationNotPositive
	}
	if amount.GreaterThan(ContingencyRemaining(contingencyAmount, contingencyUsed)) {
		return ErrAllocationExceedsRemaining
	}
	return nil
}
