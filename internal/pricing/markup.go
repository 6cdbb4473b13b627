package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MarkupMode distinguishes how a markup value is interpreted.
type MarkupMode string

const (
	MarkupModeNone    MarkupMode = ""
	MarkupModePercent MarkupMode = "percent"
	MarkupModeAmount  MarkupMode = "amount"
)

// ErrMarkupBelowFloor is returned when a percent markup would discount the
// price below zero.
var ErrMarkupBelowFloor = errors.New("markup percent below -100 floor")

var (
	hundred            = decimal.NewFromInt(100)
	one                = decimal.NewFromInt(1)
	markupPercentFloor = decimal.NewFromInt(-100)
)

// Markup is a tagged variant: a line item carries either a percent markup or
// a flat amount markup, never both. Negative percents are discounts, floored
// at -100.
type Markup struct {
	mode  MarkupMode
	value decimal.Decimal
}

// NoMarkup returns the zero markup; Apply passes the cost basis through.
func NoMarkup() Markup {
	return Markup{}
}

// PercentMarkup builds a percent-mode markup.
func PercentMarkup(value decimal.Decimal) Markup {
	return Markup{mode: MarkupModePercent, value: value}
}

// AmountMarkup builds an amount-mode markup.
func AmountMarkup(value decimal.Decimal) Markup {
	return Markup{mode: MarkupModeAmount, value: value}
}

// MarkupFromColumns rebuilds the variant from the nullable storage columns.
// Percent wins if both are somehow set; writes always null the inactive one.
func MarkupFromColumns(percent, amount *decimal.Decimal) Markup {
	if percent != nil {
		return PercentMarkup(*percent)
	}
	if amount != nil {
		return AmountMarkup(*amount)
	}
	return NoMarkup()
}

// Mode returns the active markup mode.
func (m Markup) Mode() MarkupMode {
	return m.mode
}

// Value returns the raw markup value; meaningless when mode is none.
func (m Markup) Value() decimal.Decimal {
	return m.value
}

// PercentColumn returns the value destined for the markup_percent column,
// nil unless percent mode is active.
func (m Markup) PercentColumn() *decimal.Decimal {
	if m.mode != MarkupModePercent {
		return nil
	}
	v := m.value
	return &v
}

// AmountColumn returns the value destined for the markup_amount column, nil
// unless amount mode is active.
func (m Markup) AmountColumn() *decimal.Decimal {
	if m.mode != MarkupModeAmount {
		return nil
	}
	v := m.value
	return &v
}

// Validate enforces the percent floor. Values are otherwise unclamped.
func (m Markup) Validate() error {
	if m.mode == MarkupModePercent && m.value.LessThan(markupPercentFloor) {
		return ErrMarkupBelowFloor
	}
	return nil
}

// Apply computes the client-facing price for the given cost basis.
func (m Markup) Apply(costBasis decimal.Decimal) decimal.Decimal {
	switch m.mode {
	case MarkupModePercent:
		return costBasis.Mul(one.Add(m.value.Div(hundred)))
	case MarkupModeAmount:
		return costBasis.Add(m.value)
	default:
		return costBasis
	}
}
