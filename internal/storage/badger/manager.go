package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	analysis interfaces.AnalysisStorage
	logger   arbor.ILogger
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		analysis: NewAnalysisStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// AnalysisStorage returns the analysis record storage
func (m *Manager) AnalysisStorage() interfaces.AnalysisStorage {
	return m.analysis
}

// Close closes the underlying database
func (m *Manager) Close() error {
	return m.db.Close()
}
