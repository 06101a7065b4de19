// -----------------------------------------------------------------------
// Analyze Handler - file upload endpoint driving the analysis pipeline
// -----------------------------------------------------------------------

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/argentum/internal/common"
	"github.com/ternarybob/argentum/internal/interfaces"
	"github.com/ternarybob/argentum/internal/models"
	"github.com/ternarybob/argentum/internal/services/analyzer"
)

// AnalyzeResponse is the success envelope for POST /analyze
type AnalyzeResponse struct {
	Status        string                 `json:"status"`
	Query         string                 `json:"query"`
	Analysis      *models.AnalysisResult `json:"analysis"`
	FileProcessed string                 `json:"file_processed"`
}

// AnalyzeHandler handles document analysis requests
type AnalyzeHandler struct {
	analyzer analyzer.Analyzer
	storage  interfaces.AnalysisStorage
	config   *common.Config
	logger   arbor.ILogger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(analyzerService analyzer.Analyzer, storage interfaces.AnalysisStorage, config *common.Config, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzerService,
		storage:  storage,
		config:   config,
		logger:   logger,
	}
}

// RootHandler handles GET /, a static liveness probe
func (h *AnalyzeHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Financial Document Analyzer API is running",
	})
}

// AnalyzeDocumentHandler handles POST /analyze. The upload is saved to a
// uniquely named temp path, analyzed, persisted, and the temp file is
// always removed afterwards.
func (h *AnalyzeHandler) AnalyzeDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	startTime := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Analysis.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Analysis.MaxUploadSize); err != nil {
		WriteDetail(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart request: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteDetail(w, http.StatusBadRequest, "Missing 'file' upload field")
		return
	}
	defer file.Close()

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		query = h.config.Analysis.DefaultQuery
	}

	uploadPath := filepath.Join(h.config.Storage.DataDir, common.NewUploadFilename())
	if err := h.saveUpload(file, uploadPath); err != nil {
		h.logger.Error().Err(err).Str("path", uploadPath).Msg("Failed to persist upload")
		WriteDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error processing financial document: %v", err))
		return
	}
	// The uploaded temp file never outlives the request. Removal errors
	// are ignored.
	defer os.Remove(uploadPath)

	h.logger.Info().
		Str("file", header.Filename).
		Str("query", query).
		Msg("Analysis request received")

	result, err := h.analyzer.Run(r.Context(), analyzer.Request{
		Query:        query,
		DocumentPath: uploadPath,
		FileName:     header.Filename,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Analysis failed")
		WriteDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error processing financial document: %v", err))
		return
	}

	analysisID := common.NewAnalysisID()
	outputPath, err := h.writeOutput(analysisID, result)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to write analysis output")
		WriteDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error processing financial document: %v", err))
		return
	}

	record := &models.AnalysisRecord{
		ID:          analysisID,
		Query:       query,
		FileName:    header.Filename,
		Result:      result,
		OutputPath:  outputPath,
		LLMProvider: h.config.LLM.Provider,
		DurationMS:  time.Since(startTime).Milliseconds(),
		CreatedAt:   time.Now(),
	}
	if h.storage != nil {
		if err := h.storage.Save(r.Context(), record); err != nil {
			// Persistence is best-effort; the caller still gets the result
			h.logger.Warn().Err(err).Str("id", analysisID).Msg("Failed to persist analysis record")
		}
	}

	h.logger.Info().
		Str("id", analysisID).
		Str("file", header.Filename).
		Dur("duration", time.Since(startTime)).
		Msg("Analysis complete")

	WriteJSON(w, http.StatusOK, AnalyzeResponse{
		Status:        "success",
		Query:         query,
		Analysis:      result,
		FileProcessed: header.Filename,
	})
}

func (h *AnalyzeHandler) saveUpload(file io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		// Don't leave a partial file behind
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return nil
}

func (h *AnalyzeHandler) writeOutput(analysisID string, result *models.AnalysisResult) (string, error) {
	if err := os.MkdirAll(h.config.Storage.OutputsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create outputs directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	outputPath := filepath.Join(h.config.Storage.OutputsDir, fmt.Sprintf("%s.json", analysisID))
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write analysis output: %w", err)
	}
	return outputPath, nil
}
