package pricing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/marcosalvarado/buildledger-backend/pkg/enums"
)

func TestCompareQuote_NoMatchIsUnavailable(t *testing.T) {
	got := CompareQuote(ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: uuid.New(), Category: enums.CategoryMaterials, Total: dec(t, "100"), TotalCost: dec(t, "80")},
		},
		QuoteLines: []QuoteLine{
			{Category: enums.CategoryPermits, Total: dec(t, "50")},
		},
		TargetMarginPercent: dec(t, "20"),
	})

	if got.Matched {
		t.Fatal("quote with no shared line or category must not match")
	}
	if got.Overall != nil {
		t.Fatal("overall variance must be unavailable, not zero")
	}
	if got.Status != "" || got.Recommendation != "" {
		t.Fatalf("unmatched quote must not carry a verdict: %q %q", got.Status, got.Recommendation)
	}
	if len(got.Categories) != 1 {
		t.Fatalf("expected one category row, got %d", len(got.Categories))
	}
	if got.Categories[0].Variance != nil {
		t.Fatal("category variance must be nil when the estimate has no data")
	}
}

func TestCompareQuote_SignConvention(t *testing.T) {
	estimateID := uuid.New()
	base := ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: estimateID, Category: enums.CategorySubcontractors, Total: dec(t, "130"), TotalCost: dec(t, "100")},
		},
		TargetMarginPercent: dec(t, "20"),
	}

	over := base
	over.QuoteLines = []QuoteLine{{Category: enums.CategorySubcontractors, Total: dec(t, "120"), EstimateLineItemID: &estimateID}}
	got := CompareQuote(over)
	if got.Overall == nil {
		t.Fatal("expected overall variance")
	}
	requireDec(t, "20", got.Overall.Difference)
	requireDec(t, "20", got.Overall.Percent)
	if !got.Overall.Unfavorable {
		t.Fatal("quote above estimate cost is over budget and unfavorable")
	}

	under := base
	under.QuoteLines = []QuoteLine{{Category: enums.CategorySubcontractors, Total: dec(t, "80"), EstimateLineItemID: &estimateID}}
	got = CompareQuote(under)
	requireDec(t, "-20", got.Overall.Difference)
	if got.Overall.Unfavorable {
		t.Fatal("quote below estimate cost is under budget and favorable")
	}
}

func TestCompareQuote_RecommendationScenario(t *testing.T) {
	// Quote 4500 vs estimate cost 4000 at 20% target margin: the minimum
	// acceptable quote is 4800, so 4500 should be accepted.
	got := CompareQuote(ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: uuid.New(), Category: enums.CategorySubcontractors, Total: dec(t, "5200"), TotalCost: dec(t, "4000")},
		},
		QuoteLines: []QuoteLine{
			{Category: enums.CategorySubcontractors, Total: dec(t, "4500")},
		},
		TargetMarginPercent: dec(t, "20"),
	})

	if !got.Matched {
		t.Fatal("category fallback should match")
	}
	requireDec(t, "4000", got.YourCost)
	requireDec(t, "4800", got.MinimumAcceptableQuote)
	if got.Recommendation != RecommendationAccept {
		t.Fatalf("expected ACCEPT, got %q", got.Recommendation)
	}

	negotiate := CompareQuote(ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: uuid.New(), Category: enums.CategorySubcontractors, Total: dec(t, "5200"), TotalCost: dec(t, "4000")},
		},
		QuoteLines: []QuoteLine{
			{Category: enums.CategorySubcontractors, Total: dec(t, "4900")},
		},
		TargetMarginPercent: dec(t, "20"),
	})
	if negotiate.Recommendation != RecommendationNegotiate {
		t.Fatalf("expected NEGOTIATE above the minimum, got %q", negotiate.Recommendation)
	}
}

func TestCompareQuote_DirectLineMatchWins(t *testing.T) {
	lineA := uuid.New()
	got := CompareQuote(ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: lineA, Category: enums.CategoryMaterials, Total: dec(t, "300"), TotalCost: dec(t, "250")},
			{ID: uuid.New(), Category: enums.CategoryMaterials, Total: dec(t, "700"), TotalCost: dec(t, "600")},
		},
		QuoteLines: []QuoteLine{
			{Category: enums.CategoryMaterials, Total: dec(t, "260"), EstimateLineItemID: &lineA},
		},
		TargetMarginPercent: dec(t, "15"),
	})

	// Only the referenced estimate line participates, not the whole category.
	requireDec(t, "250", got.YourCost)
	requireDec(t, "300", got.YourPrice)
	requireDec(t, "260", got.VendorQuote)
}

func TestCompareQuote_FallbackUsesCategoryTotals(t *testing.T) {
	got := CompareQuote(ComparisonInput{
		EstimateLines: []EstimateLine{
			{ID: uuid.New(), Category: enums.CategoryMaterials, Total: dec(t, "300"), TotalCost: dec(t, "250")},
			{ID: uuid.New(), Category: enums.CategoryMaterials, Total: dec(t, "700"), TotalCost: dec(t, "600")},
		},
		QuoteLines: []QuoteLine{
			{Category: enums.CategoryMaterials, Total: dec(t, "420")},
			{Category: enums.CategoryMaterials, Total: dec(t, "400")},
		},
		TargetMarginPercent: dec(t, "15"),
	})

	requireDec(t, "850", got.YourCost)
	requireDec(t, "820", got.VendorQuote)
	if got.Overall == nil || got.Overall.Unfavorable {
		t.Fatalf("820 against 850 estimated cost should be favorable: %+v", got.Overall)
	}
}

func TestClassifyMargin(t *testing.T) {
	target := dec(t, "20")
	cases := []struct {
		margin string
		want   MarginStatus
	}{
		{"-5", MarginStatusLoss},
		{"0", MarginStatusMarginal},
		{"9.99", MarginStatusMarginal},
		{"10", MarginStatusAcceptable},
		{"19.99", MarginStatusAcceptable},
		{"20", MarginStatusExcellent},
		{"35", MarginStatusExcellent},
	}
	for _, tc := range cases {
		if got := classifyMargin(dec(t, tc.margin), target); got != tc.want {
			t.Fatalf("margin %s: expected %q, got %q", tc.margin, tc.want, got)
		}
	}
}
