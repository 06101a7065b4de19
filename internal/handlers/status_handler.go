package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// StatusHandler serves health and version endpoints
type StatusHandler struct {
	llmService interfaces.LLMService
	config     *common.Config
	logger     arbor.ILogger
	startedAt  time.Time
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(llmService interfaces.LLMService, config *common.Config, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		llmService: llmService,
		config:     config,
		logger:     logger,
		startedAt:  time.Now(),
	}
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := "healthy"
	llmStatus := "ok"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.llmService.HealthCheck(ctx); err != nil {
		status = "degraded"
		llmStatus = err.Error()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"llm_provider":   h.config.LLM.Provider,
		"llm_status":     llmStatus,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

// VersionHandler handles GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
