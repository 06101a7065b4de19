// -----------------------------------------------------------------------
// Analysis Pipeline - sequences the four agent stages over one document
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/models"
)

// Request describes one document analysis run
type Request struct {
	Query        string
	DocumentPath string
	FileName     string
}

// Analyzer runs a complete analysis over one uploaded document
type Analyzer interface {
	Run(ctx context.Context, req Request) (*models.AnalysisResult, error)
}

// Pipeline implements Analyzer by running verification, document analysis,
// investment analysis, and risk assessment strictly in order. Each stage's
// output is appended as context to the stages that follow it.
type Pipeline struct {
	llmService interfaces.LLMService
	reader     interfaces.DocumentReader
	search     interfaces.SearchService
	logger     arbor.ILogger
	loopConfig *AgentLoopConfig
}

var _ Analyzer = (*Pipeline)(nil)

// NewPipeline creates the analysis pipeline
func NewPipeline(llmService interfaces.LLMService, reader interfaces.DocumentReader, search interfaces.SearchService, llmConfig *common.LLMConfig, logger arbor.ILogger) (*Pipeline, error) {
	timeout, err := time.ParseDuration(llmConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid llm timeout duration '%s': %w", llmConfig.Timeout, err)
	}

	return &Pipeline{
		llmService: llmService,
		reader:     reader,
		search:     search,
		logger:     logger,
		loopConfig: &AgentLoopConfig{
			MaxTurns:     llmConfig.MaxTurns,
			MaxToolCalls: llmConfig.MaxToolCalls,
			Timeout:      timeout,
		},
	}, nil
}

// Run executes all four stages and assembles the combined result
func (p *Pipeline) Run(ctx context.Context, req Request) (*models.AnalysisResult, error) {
	startTime := time.Now()

	registry := NewRegistry(p.reader, p.search, req.DocumentPath, p.logger)
	loop := NewAgentLoop(p.llmService, registry, p.logger, p.loopConfig)

	p.logger.Info().
		Str("file", req.FileName).
		Str("query", req.Query).
		Msg("Starting document analysis pipeline")

	// Stage 1: verification
	verifierOutput, err := loop.Execute(ctx, verifierAgent, req.Query, "")
	if err != nil {
		return nil, fmt.Errorf("verification stage failed: %w", err)
	}
	validation, err := ParseValidationResult(verifierOutput)
	if err != nil {
		return nil, fmt.Errorf("verification stage produced invalid output: %w", err)
	}

	// An invalid document is a finding, not a failure. The later stages
	// still run and report against whatever content the document has.
	if !validation.IsValidFinancialDocument {
		p.logger.Warn().
			Str("file", req.FileName).
			Str("document_type", validation.DocumentType).
			Msg("Document did not verify as a financial document")
	}

	verificationContext := fmt.Sprintf("Document verification result:\n- valid financial document: %t\n- document type: %s\n- summary: %s",
		validation.IsValidFinancialDocument, validation.DocumentType, validation.Summary)

	// Stage 2: document analysis
	documentAnalysis, err := loop.Execute(ctx, financialAnalystAgent, req.Query, verificationContext)
	if err != nil {
		return nil, fmt.Errorf("document analysis stage failed: %w", err)
	}

	// Stage 3: investment analysis
	investmentContext := verificationContext + "\n\nFinancial analysis:\n" + documentAnalysis
	investmentAdvice, err := loop.Execute(ctx, investmentAdvisorAgent, req.Query, investmentContext)
	if err != nil {
		return nil, fmt.Errorf("investment analysis stage failed: %w", err)
	}

	// Stage 4: risk assessment
	riskContext := investmentContext + "\n\nInvestment analysis:\n" + investmentAdvice
	riskReport, err := loop.Execute(ctx, riskAssessorAgent, req.Query, riskContext)
	if err != nil {
		return nil, fmt.Errorf("risk assessment stage failed: %w", err)
	}

	p.logger.Info().
		Str("file", req.FileName).
		Dur("duration", time.Since(startTime)).
		Msg("Document analysis pipeline complete")

	return &models.AnalysisResult{
		Verification:     validation,
		DocumentAnalysis: documentAnalysis,
		InvestmentAdvice: investmentAdvice,
		RiskReport:       riskReport,
	}, nil
}
