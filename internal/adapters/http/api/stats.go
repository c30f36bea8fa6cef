package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
)

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	formID := r.URL.Query().Get("form_id")
	if strings.TrimSpace(formID) == "" {
		writeFault(w, fault.Validationf("missing form_id"))
		return
	}
	stats, err := s.deps.Stats(r.Context(), formID)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
