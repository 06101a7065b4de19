// -----------------------------------------------------------------------
// Web Search Service - Tavily-backed market research for the investment
// and risk pipeline stages
// -----------------------------------------------------------------------

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
)

const defaultBaseURL = "https://api.tavily.com/search"

// TavilyService implements the SearchService interface against the Tavily
// search API.
type TavilyService struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
	logger     arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.SearchService = (*TavilyService)(nil)

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth,omitempty"` // basic or advanced
	Topic       string `json:"topic,omitempty"`        // general or news
	MaxResults  int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Query   string                    `json:"query"`
	Results []interfaces.SearchResult `json:"results"`
	Answer  string                    `json:"answer"`
}

// NewTavilyService creates a new Tavily search service. An empty API key is
// allowed; searches then fail per-call, which the agent loop reports back to
// the model as a tool error rather than failing the whole request at startup.
func NewTavilyService(config *common.SearchConfig, logger arbor.ILogger) (*TavilyService, error) {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid search timeout duration '%s': %w", config.Timeout, err)
	}

	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &TavilyService{
		apiKey:     config.APIKey,
		baseURL:    defaultBaseURL,
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Search runs a web search and returns ranked results
func (s *TavilyService) Search(ctx context.Context, query string) ([]interfaces.SearchResult, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("search API key is not configured (set TAVILY_API_KEY or search.api_key in config)")
	}

	payload, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: "basic",
		Topic:       "general",
		MaxResults:  s.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	res, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	s.logger.Debug().
		Str("query", query).
		Int("result_count", len(searchResp.Results)).
		Dur("duration", time.Since(startTime)).
		Msg("Web search completed")

	return searchResp.Results, nil
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (s *TavilyService) SetBaseURL(url string) {
	s.baseURL = url
}
