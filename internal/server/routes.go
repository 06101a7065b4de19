package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Liveness probe
	mux.HandleFunc("/", s.handleRoot)

	// Document analysis
	mux.HandleFunc("/analyze", s.app.AnalyzeHandler.AnalyzeDocumentHandler) // POST - upload + analyze

	// API routes - stored analyses
	mux.HandleFunc("/api/analyses", s.app.AnalysisHandler.ListAnalysesHandler) // GET - list records
	mux.HandleFunc("/api/analyses/", s.app.AnalysisHandler.GetAnalysisHandler) // GET /{id}

	// API routes - status
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)   // GET - health incl. LLM status
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler) // GET - build info

	return mux
}

// handleRoot serves the liveness probe on exactly "/", everything else is 404
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.app.AnalyzeHandler.RootHandler(w, r)
}
