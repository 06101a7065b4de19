// -----------------------------------------------------------------------
// Retention Service - cron-driven expiry of stored analysis records and
// their output files
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// RetentionService periodically deletes analysis records and output files
// older than the configured maximum age.
type RetentionService struct {
	storage interfaces.AnalysisStorage
	config  *common.RetentionConfig
	cron    *cron.Cron
	logger  arbor.ILogger
	maxAge  time.Duration
	mu      sync.Mutex
	running bool
}

// NewRetentionService creates the retention service. It does not start the
// schedule; call Start.
func NewRetentionService(storage interfaces.AnalysisStorage, config *common.RetentionConfig, logger arbor.ILogger) (*RetentionService, error) {
	maxAge, err := time.ParseDuration(config.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("invalid retention max_age '%s': %w", config.MaxAge, err)
	}

	return &RetentionService{
		storage: storage,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
		maxAge:  maxAge,
	}, nil
}

// Start registers the purge job and begins the cron schedule
func (s *RetentionService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("retention service already running")
	}
	if !s.config.Enabled {
		s.logger.Info().Msg("Analysis retention disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.Purge(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Retention purge failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Str("max_age", s.config.MaxAge).
		Msg("Analysis retention started")
	return nil
}

// Stop halts the cron schedule and waits for a running purge to finish
func (s *RetentionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Analysis retention stopped")
}

// Purge deletes all records older than the retention window along with
// their output files. Missing output files are not an error.
func (s *RetentionService) Purge(ctx context.Context) error {
	cutoff := time.Now().Add(-s.maxAge)

	deleted, err := s.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete expired records: %w", err)
	}

	removedFiles := 0
	for _, record := range deleted {
		if record.OutputPath == "" {
			continue
		}
		if err := os.Remove(record.OutputPath); err != nil {
			if !os.IsNotExist(err) {
				s.logger.Warn().Err(err).Str("path", record.OutputPath).Msg("Failed to remove output file")
			}
			continue
		}
		removedFiles++
	}

	if len(deleted) > 0 {
		s.logger.Info().
			Int("records", len(deleted)).
			Int("files", removedFiles).
			Str("cutoff", cutoff.Format(time.RFC3339)).
			Msg("Purged expired analyses")
	}
	return nil
}
