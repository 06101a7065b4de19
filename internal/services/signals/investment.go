// -----------------------------------------------------------------------
// Investment Signal Extractor - Deterministic keyword-driven extraction of
// investment insights from financial document text
// -----------------------------------------------------------------------

package signals

import (
	"errors"
	"strings"

	"github.com/ternarybob/argentum/internal/models"
)

// ErrNoDocumentData is returned when an extractor is invoked with empty or
// whitespace-only document text.
var ErrNoDocumentData = errors.New("no financial document data provided")

// ExtractInvestmentInsights maps raw document text to a fixed-shape record of
// categorical findings via case-insensitive keyword matching. Pure function:
// identical input always yields identical output.
//
// Rule precedence is deliberate and load-bearing. Within each category the
// positive phrase set is checked before the negative one, and the first match
// wins. OverallOutlook derivation: growing revenue AND profitable is
// "fundamentally strong"; otherwise a loss-making profitability decides
// "high risk" regardless of revenue trend; everything else is "mixed".
func ExtractInvestmentInsights(text string) (*models.InvestmentInsights, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoDocumentData
	}

	lower := strings.ToLower(text)

	insights := &models.InvestmentInsights{
		RevenueTrend:      models.TrendUnknown,
		Profitability:     models.ProfitabilityUnknown,
		CashFlow:          models.CashFlowUnknown,
		DebtLevel:         models.DebtUnknown,
		InvestmentSignals: []string{},
	}

	// Revenue trend
	if containsAny(lower, "revenue increased", "revenue growth") {
		insights.RevenueTrend = models.TrendGrowing
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Positive revenue growth detected")
	} else if containsAny(lower, "revenue declined", "revenue decrease") {
		insights.RevenueTrend = models.TrendDeclining
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Revenue decline detected")
	}

	// Profitability
	if containsAny(lower, "operating margin", "net income") {
		insights.Profitability = models.ProfitabilityProfitable
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Company reports profitability metrics")
	} else if containsAny(lower, "net loss") {
		insights.Profitability = models.ProfitabilityLossMaking
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Company reports net losses")
	}

	// Cash flow
	if containsAny(lower, "positive cash flow", "operating cash flow") {
		insights.CashFlow = models.CashFlowPositive
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Positive operating cash flow")
	} else if containsAny(lower, "negative cash flow") {
		insights.CashFlow = models.CashFlowNegative
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Negative cash flow")
	}

	// Debt (no negative case)
	if containsAny(lower, "long-term debt", "total debt") {
		insights.DebtLevel = models.DebtPresent
		insights.InvestmentSignals = append(insights.InvestmentSignals, "Debt obligations identified")
	}

	insights.OverallOutlook = deriveOutlook(insights)

	return insights, nil
}

// deriveOutlook computes OverallOutlook from the categorical fields.
// The strong branch requires BOTH growing and profitable, so a loss-making
// profitability always falls through to the high-risk branch.
func deriveOutlook(insights *models.InvestmentInsights) string {
	switch {
	case insights.RevenueTrend == models.TrendGrowing && insights.Profitability == models.ProfitabilityProfitable:
		return models.OutlookStrong
	case insights.Profitability == models.ProfitabilityLossMaking:
		return models.OutlookHighRisk
	default:
		return models.OutlookMixed
	}
}

// containsAny reports whether text contains at least one of the phrases
func containsAny(text string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
