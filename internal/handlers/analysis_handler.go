package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/interfaces"
)

// AnalysisHandler serves stored analysis records
type AnalysisHandler struct {
	storage interfaces.AnalysisStorage
	logger  arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(storage interfaces.AnalysisStorage, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		storage: storage,
		logger:  logger,
	}
}

// ListAnalysesHandler handles GET /api/analyses
func (h *AnalysisHandler) ListAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.storage.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list analyses")
		WriteError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(records),
		"analyses": records,
	})
}

// GetAnalysisHandler handles GET /api/analyses/{id}
func (h *AnalysisHandler) GetAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid analysis ID")
		return
	}

	record, err := h.storage.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			WriteError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to get analysis")
		WriteError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	WriteJSON(w, http.StatusOK, record)
}
