package common

import (
	"fmt"

	"github.com/google/uuid"
)

// NewUploadFilename generates a unique filename for an uploaded document
// Format: financial_document_<uuid>.pdf
func NewUploadFilename() string {
	return fmt.Sprintf("financial_document_%s.pdf", uuid.New().String())
}

// NewAnalysisID generates a unique identifier for an analysis run
// Format: analysis_<uuid>
func NewAnalysisID() string {
	return "analysis_" + uuid.New().String()
}
