package interfaces

import (
	"context"
)

// SearchResult represents a single web search hit
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// SearchService defines the interface for the outbound web search collaborator.
// The investment and risk stages use it to contextualize document findings with
// current market information.
type SearchService interface {
	// Search runs a web search and returns ranked results.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
