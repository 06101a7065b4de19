package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/argentum/internal/models"
)

// ErrRecordNotFound is returned when an analysis record does not exist
var ErrRecordNotFound = errors.New("analysis record not found")

// AnalysisStorage persists completed analysis runs.
// Records are subject to the configured retention policy.
type AnalysisStorage interface {
	// Save stores a completed analysis record
	Save(ctx context.Context, record *models.AnalysisRecord) error

	// Get retrieves a record by ID, returning ErrRecordNotFound if absent
	Get(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// List returns records ordered by creation time descending
	List(ctx context.Context, limit int) ([]*models.AnalysisRecord, error)

	// DeleteOlderThan removes records created before the cutoff and returns
	// the deleted records so callers can clean up associated output files
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*models.AnalysisRecord, error)
}

// StorageManager provides access to storage implementations and owns the
// underlying database lifecycle.
type StorageManager interface {
	AnalysisStorage() AnalysisStorage
	Close() error
}
