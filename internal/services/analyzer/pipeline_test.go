package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// scriptedLLM returns canned responses in order, recording each request
type scriptedLLM struct {
	responses []string
	calls     [][]interfaces.Message
}

func (s *scriptedLLM) Chat(_ context.Context, messages []interfaces.Message) (string, error) {
	s.calls = append(s.calls, messages)
	if len(s.calls) > len(s.responses) {
		return "", fmt.Errorf("no scripted response for call %d", len(s.calls))
	}
	return s.responses[len(s.calls)-1], nil
}

func (s *scriptedLLM) HealthCheck(context.Context) error { return nil }
func (s *scriptedLLM) Close() error                      { return nil }

type fakeReader struct {
	text string
	err  error
}

func (f *fakeReader) LoadText(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeSearch struct {
	results []interfaces.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]interfaces.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

const defaultTestTimeout = 5 * time.Second

const validationJSON = "```json\n" +
	`{"is_valid_financial_document": true, "document_type": "Annual Report", "detected_sections": ["Income Statement"], "summary": "Acme annual report."}` +
	"\n```"

func testLLMConfig() *common.LLMConfig {
	return &common.LLMConfig{
		Provider:          "claude",
		RequestsPerMinute: 60,
		Timeout:           "30s",
		MaxTurns:          5,
		MaxToolCalls:      8,
	}
}

func TestPipelineRunAllStages(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		validationJSON,
		"The document shows strong revenue growth with healthy operating margins.",
		"Recommendation: the company is fundamentally strong and suitable for long-term holdings.",
		"Overall risk profile is low to moderate given positive cash flow.",
	}}
	reader := &fakeReader{text: "Total revenue increased 12% year-over-year."}

	pipeline, err := NewPipeline(llm, reader, &fakeSearch{}, testLLMConfig(), arbor.NewLogger())
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), Request{
		Query:        "Is this a good investment?",
		DocumentPath: "/tmp/doc.pdf",
		FileName:     "doc.pdf",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Verification)
	assert.True(t, result.Verification.IsValidFinancialDocument)
	assert.Equal(t, "Annual Report", result.Verification.DocumentType)
	assert.Contains(t, result.DocumentAnalysis, "revenue growth")
	assert.Contains(t, result.InvestmentAdvice, "fundamentally strong")
	assert.Contains(t, result.RiskReport, "low to moderate")

	// Four stages, one LLM call each
	require.Len(t, llm.calls, 4)

	// Later stages receive earlier stage outputs as context
	investmentPrompt := llm.calls[2][1].Content
	assert.Contains(t, investmentPrompt, "Acme annual report.")
	assert.Contains(t, investmentPrompt, "healthy operating margins")

	riskPrompt := llm.calls[3][1].Content
	assert.Contains(t, riskPrompt, "long-term holdings")
}

func TestPipelineRunToolUse(t *testing.T) {
	toolCall := "I will read the document first.\n```json\n" +
		`{"tool_use": {"id": "t1", "name": "read_financial_document", "input": {}}}` +
		"\n```"
	llm := &scriptedLLM{responses: []string{
		toolCall,
		validationJSON,
		"Analysis complete: revenue grew.",
		"Advice: hold.",
		"Risk: low to moderate.",
	}}
	reader := &fakeReader{text: "Total revenue increased 12% year-over-year."}

	pipeline, err := NewPipeline(llm, reader, &fakeSearch{}, testLLMConfig(), arbor.NewLogger())
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), Request{Query: "q", DocumentPath: "/tmp/doc.pdf", FileName: "doc.pdf"})
	require.NoError(t, err)
	assert.True(t, result.Verification.IsValidFinancialDocument)

	// The tool result was fed back into the verification conversation
	require.Len(t, llm.calls, 5)
	secondCall := llm.calls[1]
	last := secondCall[len(secondCall)-1]
	assert.Equal(t, "user", last.Role)
	assert.Contains(t, last.Content, "Tool 'read_financial_document' returned")
	assert.Contains(t, last.Content, "revenue increased 12%")
}

func TestPipelineRunVerificationInvalidOutput(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"This seems like a totally legitimate financial document to me."}}

	pipeline, err := NewPipeline(llm, &fakeReader{text: "x"}, &fakeSearch{}, testLLMConfig(), arbor.NewLogger())
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), Request{Query: "q", DocumentPath: "/tmp/doc.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification stage produced invalid output")
}

func TestPipelineRunInvalidDocumentContinues(t *testing.T) {
	invalidJSON := "```json\n" +
		`{"is_valid_financial_document": false, "document_type": "Unknown", "detected_sections": [], "summary": "A cooking recipe."}` +
		"\n```"
	llm := &scriptedLLM{responses: []string{
		invalidJSON,
		"No financial metrics present.",
		"No recommendation possible: insufficient data.",
		"Risk cannot be assessed from this document.",
	}}

	pipeline, err := NewPipeline(llm, &fakeReader{text: "recipe"}, &fakeSearch{}, testLLMConfig(), arbor.NewLogger())
	require.NoError(t, err)

	result, err := pipeline.Run(context.Background(), Request{Query: "q", DocumentPath: "/tmp/doc.pdf"})
	require.NoError(t, err)
	assert.False(t, result.Verification.IsValidFinancialDocument)
	assert.Contains(t, result.InvestmentAdvice, "insufficient data")
}

func TestAgentLoopMaxToolCalls(t *testing.T) {
	toolCall := "```json\n" +
		`{"tool_use": {"id": "t1", "name": "read_financial_document", "input": {}}}` +
		"\n```"
	responses := make([]string, 10)
	for i := range responses {
		responses[i] = toolCall
	}
	llm := &scriptedLLM{responses: responses}

	registry := NewRegistry(&fakeReader{text: "x"}, nil, "/tmp/doc.pdf", arbor.NewLogger())
	loop := NewAgentLoop(llm, registry, arbor.NewLogger(), &AgentLoopConfig{
		MaxTurns:     10,
		MaxToolCalls: 2,
		Timeout:      defaultTestTimeout,
	})

	_, err := loop.Execute(context.Background(), verifierAgent, "q", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum tool calls")
}

func TestAgentLoopMaxTurns(t *testing.T) {
	toolCall := "```json\n" +
		`{"tool_use": {"id": "t1", "name": "read_financial_document", "input": {}}}` +
		"\n```"
	llm := &scriptedLLM{responses: []string{toolCall, toolCall, toolCall}}

	registry := NewRegistry(&fakeReader{text: "x"}, nil, "/tmp/doc.pdf", arbor.NewLogger())
	loop := NewAgentLoop(llm, registry, arbor.NewLogger(), &AgentLoopConfig{
		MaxTurns:     3,
		MaxToolCalls: 8,
		Timeout:      defaultTestTimeout,
	})

	_, err := loop.Execute(context.Background(), verifierAgent, "q", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not complete within 3 turns")
}

func TestParseToolUse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantTool string
	}{
		{
			name:     "wrapped tool use",
			response: "Thinking...\n```json\n{\"tool_use\": {\"id\": \"a\", \"name\": \"web_search\", \"input\": {\"query\": \"acme\"}}}\n```",
			wantTool: "web_search",
		},
		{
			name:     "no tool use",
			response: "Here is my final structured analysis of the document.",
			wantTool: "",
		},
		{
			name:     "json without tool_use key",
			response: "```json\n{\"is_valid_financial_document\": true, \"document_type\": \"x\", \"detected_sections\": [], \"summary\": \"s\"}\n```",
			wantTool: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toolUse := parseToolUse(tt.response)
			if tt.wantTool == "" {
				assert.Nil(t, toolUse)
			} else {
				require.NotNil(t, toolUse)
				assert.Equal(t, tt.wantTool, toolUse.Name)
			}
		})
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry(&fakeReader{text: "x"}, nil, "/tmp/doc.pdf", arbor.NewLogger())
	resp := registry.Execute(context.Background(), &ToolUse{ID: "t1", Name: "delete_files"})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Content, "unknown tool")
}

func TestRegistryExecuteToolError(t *testing.T) {
	registry := NewRegistry(&fakeReader{err: fmt.Errorf("disk on fire")}, nil, "/tmp/doc.pdf", arbor.NewLogger())
	resp := registry.Execute(context.Background(), &ToolUse{ID: "t1", Name: ToolReadDocument, Input: map[string]interface{}{}})
	assert.True(t, resp.IsError)
	assert.Contains(t, resp.Content, "disk on fire")
}

func TestRegistryAnalyzeInvestmentTool(t *testing.T) {
	registry := NewRegistry(&fakeReader{text: "Revenue increased and operating margin improved."}, nil, "/tmp/doc.pdf", arbor.NewLogger())
	resp := registry.Execute(context.Background(), &ToolUse{ID: "t1", Name: ToolAnalyzeInvestment, Input: map[string]interface{}{}})
	require.False(t, resp.IsError)
	assert.Contains(t, resp.Content, `"revenue_trend": "growing"`)
	assert.Contains(t, resp.Content, `"overall_outlook": "fundamentally strong"`)
}

func TestRegistryWebSearchTool(t *testing.T) {
	search := &fakeSearch{results: []interfaces.SearchResult{{Title: "Acme news", URL: "https://n.example", Content: "Acme grew."}}}
	registry := NewRegistry(&fakeReader{text: "x"}, search, "/tmp/doc.pdf", arbor.NewLogger())

	resp := registry.Execute(context.Background(), &ToolUse{ID: "t1", Name: ToolWebSearch, Input: map[string]interface{}{"query": "acme outlook"}})
	require.False(t, resp.IsError)
	assert.Contains(t, resp.Content, "Acme news")
	assert.Equal(t, []string{"acme outlook"}, search.queries)

	resp = registry.Execute(context.Background(), &ToolUse{ID: "t2", Name: ToolWebSearch, Input: map[string]interface{}{}})
	assert.True(t, resp.IsError)
}

func TestRegistryWebSearchAbsentWithoutService(t *testing.T) {
	registry := NewRegistry(&fakeReader{text: "x"}, nil, "/tmp/doc.pdf", arbor.NewLogger())

	resp := registry.Execute(context.Background(), &ToolUse{ID: "t1", Name: ToolWebSearch})
	assert.True(t, resp.IsError)

	section := registry.PromptSection([]string{ToolReadDocument, ToolWebSearch})
	assert.Contains(t, section, ToolReadDocument)
	assert.False(t, strings.Contains(section, "web_search:"), "web_search should not be advertised when no search service is configured")
}
