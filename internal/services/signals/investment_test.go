package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/argentum/internal/models"
)

func TestExtractInvestmentInsights_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		insights, err := ExtractInvestmentInsights(text)
		assert.Nil(t, insights)
		assert.ErrorIs(t, err, ErrNoDocumentData)
	}
}

func TestExtractInvestmentInsights_Categories(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		revenueTrend  string
		profitability string
		cashFlow      string
		debtLevel     string
		outlook       string
		signalCount   int
	}{
		{
			name:          "revenue growth only",
			text:          "The company reported strong revenue growth this quarter.",
			revenueTrend:  models.TrendGrowing,
			profitability: models.ProfitabilityUnknown,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookMixed,
			signalCount:   1,
		},
		{
			name:          "revenue decline",
			text:          "Total revenue declined compared to the prior year.",
			revenueTrend:  models.TrendDeclining,
			profitability: models.ProfitabilityUnknown,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookMixed,
			signalCount:   1,
		},
		{
			name:          "case insensitive matching",
			text:          "REVENUE INCREASED significantly. NET INCOME improved.",
			revenueTrend:  models.TrendGrowing,
			profitability: models.ProfitabilityProfitable,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookStrong,
			signalCount:   2,
		},
		{
			name:          "fundamentally strong",
			text:          "Revenue growth of 12% with healthy operating margin expansion.",
			revenueTrend:  models.TrendGrowing,
			profitability: models.ProfitabilityProfitable,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookStrong,
			signalCount:   2,
		},
		{
			name:          "negative cash flow",
			text:          "The business experienced negative cash flow during the period.",
			revenueTrend:  models.TrendUnknown,
			profitability: models.ProfitabilityUnknown,
			cashFlow:      models.CashFlowNegative,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookMixed,
			signalCount:   1,
		},
		{
			name:          "debt only",
			text:          "Long-term debt stands at $200M.",
			revenueTrend:  models.TrendUnknown,
			profitability: models.ProfitabilityUnknown,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtPresent,
			outlook:       models.OutlookMixed,
			signalCount:   1,
		},
		{
			name:          "no tracked phrases",
			text:          "This document describes the company's hiring plans.",
			revenueTrend:  models.TrendUnknown,
			profitability: models.ProfitabilityUnknown,
			cashFlow:      models.CashFlowUnknown,
			debtLevel:     models.DebtUnknown,
			outlook:       models.OutlookMixed,
			signalCount:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights, err := ExtractInvestmentInsights(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.revenueTrend, insights.RevenueTrend)
			assert.Equal(t, tt.profitability, insights.Profitability)
			assert.Equal(t, tt.cashFlow, insights.CashFlow)
			assert.Equal(t, tt.debtLevel, insights.DebtLevel)
			assert.Equal(t, tt.outlook, insights.OverallOutlook)
			assert.Len(t, insights.InvestmentSignals, tt.signalCount)
		})
	}
}

// Growing revenue never shadows a net loss: the strong branch requires both
// growing AND profitable, so loss-making decides the outlook regardless of
// revenue trend.
func TestExtractInvestmentInsights_LossMakingDominates(t *testing.T) {
	insights, err := ExtractInvestmentInsights(
		"Despite revenue growth of 8%, the company posted a net loss of $4M.")
	require.NoError(t, err)

	assert.Equal(t, models.TrendGrowing, insights.RevenueTrend)
	assert.Equal(t, models.ProfitabilityLossMaking, insights.Profitability)
	assert.Equal(t, models.OutlookHighRisk, insights.OverallOutlook)
}

// "operating margin"/"net income" are checked before "net loss"; when both
// phrase sets appear, the profitable branch wins.
func TestExtractInvestmentInsights_ProfitablePrecedence(t *testing.T) {
	insights, err := ExtractInvestmentInsights(
		"Net income of $10M this year followed last year's net loss.")
	require.NoError(t, err)

	assert.Equal(t, models.ProfitabilityProfitable, insights.Profitability)
}

// Growing is checked before declining; when both phrase sets appear the
// growing branch wins and only one signal string is appended.
func TestExtractInvestmentInsights_RevenuePrecedence(t *testing.T) {
	insights, err := ExtractInvestmentInsights(
		"Product revenue increased while services revenue declined.")
	require.NoError(t, err)

	assert.Equal(t, models.TrendGrowing, insights.RevenueTrend)
	assert.Equal(t, []string{"Positive revenue growth detected"}, insights.InvestmentSignals)
}

func TestExtractInvestmentInsights_SignalOrdering(t *testing.T) {
	insights, err := ExtractInvestmentInsights(
		"Total revenue increased 12% year-over-year, driven by strong operating margin. " +
			"Total debt remains at $50M.")
	require.NoError(t, err)

	assert.Equal(t, models.TrendGrowing, insights.RevenueTrend)
	assert.Equal(t, models.ProfitabilityProfitable, insights.Profitability)
	assert.Equal(t, models.DebtPresent, insights.DebtLevel)
	assert.Equal(t, models.OutlookStrong, insights.OverallOutlook)
	assert.Equal(t, []string{
		"Positive revenue growth detected",
		"Company reports profitability metrics",
		"Debt obligations identified",
	}, insights.InvestmentSignals)
}

func TestExtractInvestmentInsights_Idempotent(t *testing.T) {
	text := "Revenue growth with positive cash flow and total debt of $1M."

	first, err := ExtractInvestmentInsights(text)
	require.NoError(t, err)
	second, err := ExtractInvestmentInsights(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
