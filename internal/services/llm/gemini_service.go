package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiService implements the LLMService interface using the Google Gemini API.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// Compile-time interface assertion
var _ interfaces.LLMService = (*GeminiService)(nil)

// convertMessagesToGemini converts []interfaces.Message to Gemini Content
// format. System messages are extracted separately for SystemInstruction;
// the first one wins.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		geminiRole := genai.RoleUser
		if msg.Role == "assistant" {
			geminiRole = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, systemText, nil
}

// NewGeminiService creates a new Gemini LLM service instance
func NewGeminiService(ctx context.Context, geminiConfig *common.GeminiConfig, llmConfig *common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if strings.TrimSpace(geminiConfig.APIKey) == "" {
		return nil, fmt.Errorf("Google API key is required for Gemini service (set via GEMINI_API_KEY, ARGENTUM_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.0-flash"
	}

	timeout, err := time.ParseDuration(llmConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", llmConfig.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	service := &GeminiService{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		limiter: newRequestLimiter(llmConfig.RequestsPerMinute),
		timeout: timeout,
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// Chat generates a completion response based on the conversation history
func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{}
	if s.config.Temperature > 0 {
		config.Temperature = genai.Ptr(s.config.Temperature)
	}
	if s.config.MaxTokens > 0 {
		config.MaxOutputTokens = int32(s.config.MaxTokens)
	}
	if systemText != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(systemText)},
		}
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Gemini chat completion failed")
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return responseText, nil
}

// HealthCheck verifies the Gemini client is initialized
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("Gemini client is not initialized")
	}
	return nil
}

// Close releases resources and performs cleanup operations
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini LLM service")
	s.client = nil
	return nil
}
