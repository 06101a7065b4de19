package websearch

import (
	"fmt"
	"strings"

	"github.com/ternarybob/argentum/internal/interfaces"
)

// FormatResults renders search results as a plain-text block suitable for
// inclusion in an LLM conversation.
func FormatResults(results []interfaces.SearchResult) string {
	if len(results) == 0 {
		return "No search results found."
	}

	var sb strings.Builder
	for i, result := range results {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, result.Title)
		fmt.Fprintf(&sb, "URL: %s\n", result.URL)
		if result.PublishedDate != "" {
			fmt.Fprintf(&sb, "Published: %s\n", result.PublishedDate)
		}
		fmt.Fprintf(&sb, "%s\n", strings.TrimSpace(result.Content))
		if i < len(results)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
