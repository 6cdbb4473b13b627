package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

// MarginStatus classifies the margin a quote would leave if accepted.
type MarginStatus string

const (
	MarginStatusLoss       MarginStatus = "loss"
	MarginStatusMarginal   MarginStatus = "marginal"
	MarginStatusAcceptable MarginStatus = "acceptable"
	MarginStatusExcellent  MarginStatus = "excellent"
)

// Recommendation is the accept/negotiate verdict for a vendor quote.
type Recommendation string

const (
	RecommendationAccept    Recommendation = "ACCEPT"
	RecommendationNegotiate Recommendation = "NEGOTIATE"
)

// Margins below this percentage are flagged marginal even when positive.
var marginalMarginPercent = decimal.NewFromInt(10)

// EstimateLine is the comparator's view of one estimate line item.
type EstimateLine struct {
	ID        uuid.UUID
	Category  enums.LineItemCategory
	Total     decimal.Decimal
	TotalCost decimal.Decimal
}

// QuoteLine is the comparator's view of one quote line item. A non-nil
// EstimateLineItemID pins the line to one estimate row; otherwise matching
// falls back to the shared category.
type QuoteLine struct {
	Category           enums.LineItemCategory
	Total              decimal.Decimal
	EstimateLineItemID *uuid.UUID
}

// ComparisonInput bundles both documents plus the estimate's target margin.
type ComparisonInput struct {
	EstimateLines       []EstimateLine
	QuoteLines          []QuoteLine
	TargetMarginPercent decimal.Decimal
}

// CategoryComparison reports one category of the quote against the
// estimate. Variance is nil when the estimate has no matching data for the
// category: "unavailable" is distinct from a zero variance.
type CategoryComparison struct {
	Category      enums.LineItemCategory `json:"category"`
	QuoteAmount   decimal.Decimal        `json:"quote_amount"`
	EstimateCost  *decimal.Decimal       `json:"estimate_cost,omitempty"`
	EstimatePrice *decimal.Decimal       `json:"estimate_price,omitempty"`
	Variance      *Variance              `json:"variance,omitempty"`
}

// QuoteComparison is the full verdict for a quote against an estimate.
// When no quote line matches any estimate line, Matched is false and the
// margin figures, status, and recommendation are left empty.
type QuoteComparison struct {
	Matched                bool                 `json:"matched"`
	YourCost               decimal.Decimal      `json:"your_cost"`
	YourPrice              decimal.Decimal      `json:"your_price"`
	VendorQuote            decimal.Decimal      `json:"vendor_quote"`
	MarginIfAccepted       decimal.Decimal      `json:"margin_if_accepted"`
	MinimumAcceptableQuote decimal.Decimal      `json:"minimum_acceptable_quote"`
	Status                 MarginStatus         `json:"status,omitempty"`
	Recommendation         Recommendation       `json:"recommendation,omitempty"`
	Overall                *Variance            `json:"overall_variance,omitempty"`
	Categories             []CategoryComparison `json:"categories"`
}

type categoryMatch struct {
	quoteTotal  decimal.Decimal
	directCost  decimal.Decimal
	directPrice decimal.Decimal
	hasDirect   bool
	hasFallback bool
}

// CompareQuote matches quote lines to estimate lines and computes variance
// and profitability. Matching applies per quote line, first match wins: an
// explicit estimate line reference, else the shared category. Fallback
// matches compare against the estimate's whole category totals; purely
// direct matches compare against just the referenced lines.
func CompareQuote(input ComparisonInput) QuoteComparison {
	byID := make(map[uuid.UUID]EstimateLine, len(input.EstimateLines))
	estLines := make([]PricedLine, 0, len(input.EstimateLines))
	for _, line := range input.EstimateLines {
		byID[line.ID] = line
		estLines = append(estLines, PricedLine{Category: line.Category, Total: line.Total, TotalCost: line.TotalCost})
	}
	estTotals := Aggregate(estLines)

	matches := make(map[enums.LineItemCategory]*categoryMatch)
	bucket := func(category enums.LineItemCategory) *categoryMatch {
		m, ok := matches[category]
		if !ok {
			m = &categoryMatch{}
			matches[category] = m
		}
		return m
	}

	for _, line := range input.QuoteLines {
		m := bucket(line.Category)
		m.quoteTotal = m.quoteTotal.Add(line.Total)
		if line.EstimateLineItemID != nil {
			if est, ok := byID[*line.EstimateLineItemID]; ok {
				m.directCost = m.directCost.Add(est.TotalCost)
				m.directPrice = m.directPrice.Add(est.Total)
				m.hasDirect = true
				continue
			}
		}
		m.hasFallback = true
	}

	result := QuoteComparison{}
	for _, category := range enums.LineItemCategories() {
		m, ok := matches[category]
		if !ok {
			continue
		}
		comparison := CategoryComparison{
			Category:    category,
			QuoteAmount: m.quoteTotal,
		}

		estCategory, estHasCategory := estTotals.ByCategory[category]
		var estCost, estPrice decimal.Decimal
		available := false
		switch {
		case m.hasFallback && estHasCategory:
			estCost, estPrice = estCategory.Cost, estCategory.Amount
			available = true
		case m.hasDirect:
			estCost, estPrice = m.directCost, m.directPrice
			available = true
		}

		if available {
			variance := NewVariance(estCost, m.quoteTotal)
			comparison.EstimateCost = &estCost
			comparison.EstimatePrice = &estPrice
			comparison.Variance = &variance

			result.Matched = true
			result.YourCost = result.YourCost.Add(estCost)
			result.YourPrice = result.YourPrice.Add(estPrice)
			result.VendorQuote = result.VendorQuote.Add(m.quoteTotal)
		}
		result.Categories = append(result.Categories, comparison)
	}

	if !result.Matched {
		return result
	}

	result.MarginIfAccepted = ratioPercent(result.YourPrice.Sub(result.VendorQuote), result.YourPrice)
	result.MinimumAcceptableQuote = result.YourCost.Mul(one.Add(input.TargetMarginPercent.Div(hundred)))
	result.Status = classifyMargin(result.MarginIfAccepted, input.TargetMarginPercent)
	if result.VendorQuote.LessThanOrEqual(result.MinimumAcceptableQuote) {
		result.Recommendation = RecommendationAccept
	} else {
		result.Recommendation = RecommendationNegotiate
	}
	overall := NewVariance(result.YourCost, result.VendorQuote)
	result.Overall = &overall
	return result
}

// classifyMargin applies the ordered thresholds; the first match wins.
func classifyMargin(margin, target decimal.Decimal) MarginStatus {
	switch {
	case margin.IsNegative():
		return MarginStatusLoss
	case margin.LessThan(marginalMarginPercent):
		return MarginStatusMarginal
	case margin.LessThan(target):
		return MarginStatusAcceptable
	default:
		return MarginStatusExcellent
	}
}
