package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
	"golang.org/x/time/rate"
)

// NewLLMService creates the LLM service for the configured provider.
// Supported providers: "claude" (Anthropic), "gemini" (Google).
func NewLLMService(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.Provider {
	case "claude":
		return NewClaudeService(&config.Claude, &config.LLM, logger)
	case "gemini":
		return NewGeminiService(ctx, &config.Gemini, &config.LLM, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (expected 'claude' or 'gemini')", config.LLM.Provider)
	}
}

// newRequestLimiter builds the shared request rate limiter. The pipeline's
// agent stages funnel every model call through it, matching upstream API
// request-per-minute quotas. A burst of 1 keeps calls strictly spaced.
func newRequestLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
}
