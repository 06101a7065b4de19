// -----------------------------------------------------------------------
// Agent Loop - bounded conversation loop that lets one agent call tools
// until it produces a final answer
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// AgentLoopConfig bounds a single agent conversation
type AgentLoopConfig struct {
	MaxTurns     int           // Maximum agent turns before stopping
	MaxToolCalls int           // Maximum tool calls per conversation
	Timeout      time.Duration // Overall timeout for the conversation
}

// DefaultAgentLoopConfig returns sensible defaults
func DefaultAgentLoopConfig() *AgentLoopConfig {
	return &AgentLoopConfig{
		MaxTurns:     5,
		MaxToolCalls: 8,
		Timeout:      2 * time.Minute,
	}
}

// AgentLoop drives one agent persona to completion against a tool registry
type AgentLoop struct {
	llmService interfaces.LLMService
	registry   *Registry
	logger     arbor.ILogger
	config     *AgentLoopConfig
}

// NewAgentLoop creates a new agent conversation loop
func NewAgentLoop(llmService interfaces.LLMService, registry *Registry, logger arbor.ILogger, config *AgentLoopConfig) *AgentLoop {
	if config == nil {
		config = DefaultAgentLoopConfig()
	}
	return &AgentLoop{
		llmService: llmService,
		registry:   registry,
		logger:     logger,
		config:     config,
	}
}

// Execute runs the agent to completion and returns its final answer
func (a *AgentLoop) Execute(ctx context.Context, agent AgentDefinition, query string, priorContext string) (string, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	messages := []interfaces.Message{
		{Role: "system", Content: agent.SystemPrompt(a.registry.PromptSection(agent.Tools))},
		{Role: "user", Content: agent.UserPrompt(query, priorContext)},
	}

	a.logger.Debug().
		Str("agent", agent.Name).
		Str("query", query).
		Msg("Starting agent conversation")

	toolCalls := 0
	for turn := 1; turn <= a.config.MaxTurns; turn++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("agent '%s' timed out after %v", agent.Name, time.Since(startTime))
		default:
		}

		response, err := a.llmService.Chat(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("LLM call failed on turn %d for agent '%s': %w", turn, agent.Name, err)
		}

		toolUse := parseToolUse(response)
		if toolUse == nil {
			a.logger.Debug().
				Str("agent", agent.Name).
				Int("turns", turn).
				Int("tool_calls", toolCalls).
				Dur("duration", time.Since(startTime)).
				Msg("Agent conversation complete")
			return response, nil
		}

		if toolCalls >= a.config.MaxToolCalls {
			return "", fmt.Errorf("agent '%s' exceeded maximum tool calls (%d)", agent.Name, a.config.MaxToolCalls)
		}
		toolCalls++

		a.logger.Debug().
			Str("agent", agent.Name).
			Str("tool", toolUse.Name).
			Str("thought", truncate(extractThought(response), 200)).
			Msg("Agent requested tool use")

		toolResponse := a.registry.Execute(ctx, toolUse)

		messages = append(messages, interfaces.Message{Role: "assistant", Content: response})

		resultMsg := fmt.Sprintf("Tool '%s' returned:\n\n%s", toolUse.Name, toolResponse.Content)
		if toolResponse.IsError {
			resultMsg = fmt.Sprintf("Tool '%s' error:\n\n%s", toolUse.Name, toolResponse.Content)
		}
		messages = append(messages, interfaces.Message{Role: "user", Content: resultMsg})
	}

	return "", fmt.Errorf("agent '%s' did not complete within %d turns", agent.Name, a.config.MaxTurns)
}

var (
	toolUsePattern    = regexp.MustCompile("(?s)```json\\s*\\{\\s*\"tool_use\"\\s*:\\s*(\\{.*?\\})\\s*\\}\\s*```")
	toolUseAltPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\"tool_use\".*?\\})\\s*```")
)

// parseToolUse extracts a tool_use block from an agent response. A nil
// return means the response is the agent's final answer.
func parseToolUse(response string) *ToolUse {
	if matches := toolUsePattern.FindStringSubmatch(response); len(matches) > 1 {
		var toolUse ToolUse
		if err := json.Unmarshal([]byte(matches[1]), &toolUse); err == nil && toolUse.Name != "" {
			if toolUse.Input == nil {
				toolUse.Input = map[string]interface{}{}
			}
			return &toolUse
		}
	}

	if matches := toolUseAltPattern.FindStringSubmatch(response); len(matches) > 1 {
		var wrapper struct {
			ToolUse ToolUse `json:"tool_use"`
		}
		if err := json.Unmarshal([]byte(matches[1]), &wrapper); err == nil && wrapper.ToolUse.Name != "" {
			if wrapper.ToolUse.Input == nil {
				wrapper.ToolUse.Input = map[string]interface{}{}
			}
			return &wrapper.ToolUse
		}
	}

	return nil
}

// extractThought returns the text preceding a tool_use block, used for
// debug logging of agent reasoning.
func extractThought(response string) string {
	if idx := strings.Index(response, "```json"); idx > 0 {
		return strings.TrimSpace(response[:idx])
	}
	return response
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
