package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
)

// handlePublicStatus handles GET /decisions. It returns the restricted
// applicant-facing projection of the internal status.
func (s *Server) handlePublicStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	responseID := q.Get("response_id")
	if strings.TrimSpace(responseID) == "" {
		writeFault(w, fault.Validationf("missing response_id"))
		return
	}
	role, err := model.ParseRole(q.Get("role"))
	if err != nil {
		writeFault(w, err)
		return
	}
	view, err := s.deps.PublicStatus(r.Context(), responseID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type releaseRequest struct {
	FormID   string `json:"form_id"`
	Released bool   `json:"released"`
}

// handleRelease handles POST /forms/release, flipping the decision gate.
func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req releaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FormID) == "" {
		writeFault(w, fault.Validationf("missing form_id"))
		return
	}
	if err := s.deps.SetDecisionsReleased(r.Context(), req.FormID, req.Released); err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
