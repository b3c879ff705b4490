package web

import (
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/painel/internal/logging"
)

// handleSummary serves the dashboard document.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// handleCertificates searches participant names given in ?nome=.
func (s *Server) handleCertificates(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Certificates(r.Context(), r.URL.Query().Get("nome"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleWorksheets lists the tabs of the source spreadsheet.
func (s *Server) handleWorksheets(w http.ResponseWriter, r *http.Request) {
	meta, err := s.service.Spreadsheet(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, meta)
}

// handleHealth reports liveness and fetch slot usage. It never touches the
// spreadsheet.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Fetches: s.service.LimiterStatus(),
	})
}

// writeJSON encodes v as the response body.
// Encoding errors are only logged since the status line is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
