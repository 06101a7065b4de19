// -----------------------------------------------------------------------
// Analyzer Tools - deterministic tools exposed to the LLM agents via
// prompt-based tool use
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/services/signals"
	"github.com/ternarybob/argentum/internal/services/websearch"
)

// Tool names
const (
	ToolReadDocument      = "read_financial_document"
	ToolAnalyzeInvestment = "analyze_investment"
	ToolAssessRisk        = "assess_risk"
	ToolWebSearch         = "web_search"
)

// ToolUse represents an agent's request to invoke a tool
type ToolUse struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// ToolResponse is the result of a tool invocation, fed back to the agent
type ToolResponse struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error"`
}

// ToolFunc executes a tool against its parsed input
type ToolFunc func(ctx context.Context, input map[string]interface{}) (string, error)

// Tool pairs a callable with the description shown to the agent
type Tool struct {
	Name        string
	Description string
	Run         ToolFunc
}

// Registry holds the tools available to a pipeline run. Tool outputs are
// deterministic for a given document; only the agents' prose varies.
type Registry struct {
	reader interfaces.DocumentReader
	search interfaces.SearchService
	logger arbor.ILogger
	tools  map[string]Tool
}

// NewRegistry builds the tool set for a single document under analysis.
// The document path is bound at construction so agents cannot read
// arbitrary files.
func NewRegistry(reader interfaces.DocumentReader, search interfaces.SearchService, documentPath string, logger arbor.ILogger) *Registry {
	r := &Registry{
		reader: reader,
		search: search,
		logger: logger,
		tools:  make(map[string]Tool),
	}

	r.register(Tool{
		Name:        ToolReadDocument,
		Description: "Read the full text of the financial document under analysis. Takes no input.",
		Run: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			return reader.LoadText(ctx, documentPath)
		},
	})

	r.register(Tool{
		Name:        ToolAnalyzeInvestment,
		Description: "Extract structured investment insights (revenue trend, profitability, cash flow, debt, overall outlook) from document text. Input: {\"document_text\": \"...\"}. Omit document_text to analyze the full document.",
		Run: func(ctx context.Context, input map[string]interface{}) (string, error) {
			text, err := r.documentText(ctx, input, documentPath)
			if err != nil {
				return "", err
			}
			insights, err := signals.ExtractInvestmentInsights(text)
			if err != nil {
				return "", err
			}
			return marshalToolResult(insights)
		},
	})

	r.register(Tool{
		Name:        ToolAssessRisk,
		Description: "Assess liquidity, leverage, profitability and market risk from document text. Input: {\"document_text\": \"...\"}. Omit document_text to assess the full document.",
		Run: func(ctx context.Context, input map[string]interface{}) (string, error) {
			text, err := r.documentText(ctx, input, documentPath)
			if err != nil {
				return "", err
			}
			assessment, err := signals.AssessRisk(text)
			if err != nil {
				return "", err
			}
			return marshalToolResult(assessment)
		},
	})

	if search != nil {
		r.register(Tool{
			Name:        ToolWebSearch,
			Description: "Search the web for current market context. Input: {\"query\": \"...\"}.",
			Run: func(ctx context.Context, input map[string]interface{}) (string, error) {
				query, _ := input["query"].(string)
				if strings.TrimSpace(query) == "" {
					return "", fmt.Errorf("web_search requires a non-empty 'query' input")
				}
				results, err := search.Search(ctx, query)
				if err != nil {
					return "", err
				}
				return websearch.FormatResults(results), nil
			},
		})
	}

	return r
}

func (r *Registry) register(tool Tool) {
	r.tools[tool.Name] = tool
}

// documentText resolves the text a signal tool should operate on: the
// agent-supplied excerpt if present, otherwise the full document.
func (r *Registry) documentText(ctx context.Context, input map[string]interface{}, documentPath string) (string, error) {
	if text, ok := input["document_text"].(string); ok && strings.TrimSpace(text) != "" {
		return text, nil
	}
	return r.reader.LoadText(ctx, documentPath)
}

// Execute runs the named tool and wraps the outcome as a ToolResponse.
// Tool failures are reported back to the agent, not surfaced as errors.
func (r *Registry) Execute(ctx context.Context, toolUse *ToolUse) *ToolResponse {
	tool, ok := r.tools[toolUse.Name]
	if !ok {
		return &ToolResponse{
			ToolUseID: toolUse.ID,
			Content:   fmt.Sprintf("unknown tool: %s", toolUse.Name),
			IsError:   true,
		}
	}

	content, err := tool.Run(ctx, toolUse.Input)
	if err != nil {
		r.logger.Warn().
			Str("tool", toolUse.Name).
			Err(err).
			Msg("Tool execution failed")
		return &ToolResponse{
			ToolUseID: toolUse.ID,
			Content:   err.Error(),
			IsError:   true,
		}
	}

	return &ToolResponse{
		ToolUseID: toolUse.ID,
		Content:   content,
	}
}

// PromptSection renders the tool catalogue for an agent's system prompt,
// restricted to the named tools (all tools when names is empty).
func (r *Registry) PromptSection(names []string) string {
	selected := make([]Tool, 0, len(r.tools))
	if len(names) == 0 {
		for _, tool := range r.tools {
			selected = append(selected, tool)
		}
	} else {
		for _, name := range names {
			if tool, ok := r.tools[name]; ok {
				selected = append(selected, tool)
			}
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Name < selected[j].Name })

	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, tool := range selected {
		fmt.Fprintf(&sb, "- %s: %s\n", tool.Name, tool.Description)
	}
	sb.WriteString("\nTo use a tool, respond with a JSON block:\n")
	sb.WriteString("```json\n{\"tool_use\": {\"id\": \"<unique id>\", \"name\": \"<tool name>\", \"input\": {}}}\n```\n")
	sb.WriteString("After receiving the tool result, continue your analysis. When finished, write your final answer as plain text with no tool_use block.")
	return sb.String()
}

func marshalToolResult(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return string(data), nil
}
