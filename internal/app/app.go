// -----------------------------------------------------------------------
// Application Wiring - constructs all services, storage, and handlers
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/handlers"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/services/analyzer"
	"github.com/ternarybob/argentum/internal/services/llm"
	"github.com/ternarybob/argentum/internal/services/pdf"
	"github.com/ternarybob/argentum/internal/services/scheduler"
	"github.com/ternarybob/argentum/internal/services/websearch"
	"github.com/ternarybob/argentum/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	LLMService       interfaces.LLMService
	SearchService    interfaces.SearchService
	DocumentReader   interfaces.DocumentReader
	Pipeline         *analyzer.Pipeline
	RetentionService *scheduler.RetentionService

	AnalyzeHandler  *handlers.AnalyzeHandler
	AnalysisHandler *handlers.AnalysisHandler
	StatusHandler   *handlers.StatusHandler
}

// New wires the application together from configuration
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	if err := a.initDirectories(); err != nil {
		return nil, err
	}
	if err := a.initStorage(); err != nil {
		return nil, err
	}
	if err := a.initServices(); err != nil {
		a.Close()
		return nil, err
	}
	a.initHandlers()

	if err := a.RetentionService.Start(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to start retention service: %w", err)
	}

	logger.Info().
		Str("llm_provider", config.LLM.Provider).
		Str("data_dir", config.Storage.DataDir).
		Msg("Application initialized")

	return a, nil
}

func (a *App) initDirectories() error {
	for _, dir := range []string{a.Config.Storage.DataDir, a.Config.Storage.OutputsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (a *App) initStorage() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = manager
	return nil
}

func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(context.Background(), a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService

	searchService, err := websearch.NewTavilyService(&a.Config.Search, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize search service: %w", err)
	}
	a.SearchService = searchService

	a.DocumentReader = pdf.NewLoader(a.Logger)

	pipeline, err := analyzer.NewPipeline(a.LLMService, a.DocumentReader, a.SearchService, &a.Config.LLM, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis pipeline: %w", err)
	}
	a.Pipeline = pipeline

	retention, err := scheduler.NewRetentionService(a.StorageManager.AnalysisStorage(), &a.Config.Retention, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize retention service: %w", err)
	}
	a.RetentionService = retention

	return nil
}

func (a *App) initHandlers() {
	storage := a.StorageManager.AnalysisStorage()
	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.Pipeline, storage, a.Config, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(storage, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.LLMService, a.Config, a.Logger)
}

// Close releases all application resources
func (a *App) Close() error {
	if a.RetentionService != nil {
		a.RetentionService.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	return nil
}
