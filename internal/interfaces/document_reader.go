package interfaces

import (
	"context"
)

// DocumentReader defines the interface for extracting plain text from an
// uploaded financial document on disk.
type DocumentReader interface {
	// LoadText returns the document's pages concatenated in order, with runs of
	// blank lines collapsed and each page's text followed by a single newline.
	LoadText(ctx context.Context, path string) (string, error)
}
