package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.AnalysisStorage = (*AnalysisStorage)(nil)

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) *AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AnalysisStorage) Save(ctx context.Context, record *models.AnalysisRecord) error {
	if record.ID == "" {
		return fmt.Errorf("analysis record ID is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}
	return nil
}

func (s *AnalysisStorage) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := s.db.Store().Get(id, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}
	return &record, nil
}

func (s *AnalysisStorage) List(ctx context.Context, limit int) ([]*models.AnalysisRecord, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.AnalysisRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}

	result := make([]*models.AnalysisRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *AnalysisStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]*models.AnalysisRecord, error) {
	var expired []models.AnalysisRecord
	query := badgerhold.Where("CreatedAt").Lt(cutoff)
	if err := s.db.Store().Find(&expired, query); err != nil {
		return nil, fmt.Errorf("failed to find expired analysis records: %w", err)
	}

	deleted := make([]*models.AnalysisRecord, 0, len(expired))
	for i := range expired {
		if err := s.db.Store().Delete(expired[i].ID, &models.AnalysisRecord{}); err != nil {
			s.logger.Warn().Err(err).Str("id", expired[i].ID).Msg("Failed to delete expired analysis record")
			continue
		}
		deleted = append(deleted, &expired[i])
	}

	if len(deleted) > 0 {
		s.logger.Debug().Int("count", len(deleted)).Msg("Deleted expired analysis records")
	}
	return deleted, nil
}
