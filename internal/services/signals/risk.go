package signals

import (
	"strings"

	"github.com/ternarybob/argentum/internal/models"
)

// AssessRisk maps raw document text to a fixed-shape risk record. Unlike the
// investment extractor, all four rules evaluate unconditionally; no rule
// shadows another. Whitespace runs (including newlines) collapse to single
// spaces before matching so phrases split across lines still match.
func AssessRisk(text string) (*models.RiskAssessment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoDocumentData
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))

	risks := &models.RiskAssessment{
		LiquidityRisk:     models.RiskUnknown,
		LeverageRisk:      models.RiskUnknown,
		ProfitabilityRisk: models.RiskUnknown,
		MarketRisk:        models.RiskUnknown,
	}

	// "cash flow" and "negative" match as independent substrings; they need
	// not be adjacent.
	if strings.Contains(normalized, "cash flow") && strings.Contains(normalized, "negative") {
		risks.LiquidityRisk = models.LiquidityHigh
	}
	if strings.Contains(normalized, "debt") {
		risks.LeverageRisk = models.LeveragePresent
	}
	if strings.Contains(normalized, "profit") || strings.Contains(normalized, "loss") {
		risks.ProfitabilityRisk = models.ProfitEvaluated
	}
	if strings.Contains(normalized, "market") {
		risks.MarketRisk = models.MarketConsidered
	}

	risks.OverallRisk = deriveOverallRisk(risks)

	return risks, nil
}

// deriveOverallRisk computes OverallRisk from liquidity and leverage only;
// profitability and market findings do not affect it.
func deriveOverallRisk(risks *models.RiskAssessment) string {
	if risks.LiquidityRisk == models.LiquidityHigh || risks.LeverageRisk == models.LeveragePresent {
		return models.OverallRiskHigh
	}
	return models.OverallRiskLow
}
