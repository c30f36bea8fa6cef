package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
)

type confirmRequest struct {
	ResponseID string `json:"response_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	Decision   string `json:"decision"`
}

type confirmResponse struct {
	ResponseID string `json:"response_id"`
	Decision   string `json:"decision"`
}

// handleConfirm handles POST /confirmations.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResponseID) == "" || strings.TrimSpace(req.UserID) == "" {
		writeFault(w, fault.Validationf("missing response_id or user_id"))
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeFault(w, err)
		return
	}
	decision, err := model.ParseConfirmationDecision(req.Decision)
	if err != nil {
		writeFault(w, err)
		return
	}
	c, err := s.deps.Confirm(r.Context(), req.ResponseID, req.UserID, role, decision)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirmResponse{
		ResponseID: c.ResponseID,
		Decision:   string(c.Decision),
	})
}
