package models

import "time"

// Revenue trend categories
const (
	TrendUnknown   = "unknown"
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
)

// Profitability categories
const (
	ProfitabilityUnknown    = "unknown"
	ProfitabilityProfitable = "profitable"
	ProfitabilityLossMaking = "loss-making"
)

// Cash flow categories
const (
	CashFlowUnknown  = "unknown"
	CashFlowPositive = "positive"
	CashFlowNegative = "negative"
)

// Debt level categories
const (
	DebtUnknown = "unknown"
	DebtPresent = "present"
)

// Overall outlook categories, derived from the categorical fields
const (
	OutlookStrong   = "fundamentally strong"
	OutlookHighRisk = "high risk"
	OutlookMixed    = "mixed"
)

// Risk categories
const (
	RiskUnknown      = "unknown"
	LiquidityHigh    = "high"
	LeveragePresent  = "present"
	ProfitEvaluated  = "evaluated"
	MarketConsidered = "considered"
)

// Overall risk categories, derived from liquidity and leverage only
const (
	OverallRiskLow  = "low to moderate"
	OverallRiskHigh = "moderate to high"
)

// InvestmentInsights is the fixed-shape output of the investment signal
// extractor. OverallOutlook is a pure function of the four categorical fields.
type InvestmentInsights struct {
	RevenueTrend      string   `json:"revenue_trend"`
	Profitability     string   `json:"profitability"`
	CashFlow          string   `json:"cash_flow"`
	DebtLevel         string   `json:"debt_level"`
	InvestmentSignals []string `json:"investment_signals"`
	OverallOutlook    string   `json:"overall_outlook"`
}

// RiskAssessment is the fixed-shape output of the risk extractor.
// OverallRisk is a pure function of LiquidityRisk and LeverageRisk only.
type RiskAssessment struct {
	LiquidityRisk     string `json:"liquidity_risk"`
	LeverageRisk      string `json:"leverage_risk"`
	ProfitabilityRisk string `json:"profitability_risk"`
	MarketRisk        string `json:"market_risk"`
	OverallRisk       string `json:"overall_risk"`
}

// ValidationResult is the structured output of the document verification stage
type ValidationResult struct {
	IsValidFinancialDocument bool     `json:"is_valid_financial_document"`
	DocumentType             string   `json:"document_type"`
	DetectedSections         []string `json:"detected_sections"`
	Summary                  string   `json:"summary"`
}

// AnalysisResult is the combined output of a complete pipeline run
type AnalysisResult struct {
	Verification     *ValidationResult `json:"verification"`
	DocumentAnalysis string            `json:"document_analysis"`
	InvestmentAdvice string            `json:"investment_advice"`
	RiskReport       string            `json:"risk_report"`
}

// AnalysisRecord is the persisted form of a completed analysis run
type AnalysisRecord struct {
	ID          string          `badgerhold:"key" json:"id"`
	Query       string          `json:"query"`
	FileName    string          `json:"file_name"`
	Result      *AnalysisResult `json:"result"`
	OutputPath  string          `json:"output_path"`
	LLMProvider string          `json:"llm_provider"`
	DurationMS  int64           `json:"duration_ms"`
	CreatedAt   time.Time       `json:"created_at" badgerholdIndex:"CreatedAt"`
}
