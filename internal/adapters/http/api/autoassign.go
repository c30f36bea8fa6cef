package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/app"
	"github.com/cadre-hq/cadre/internal/domain/fault"
)

type planRequest struct {
	FormID          string   `json:"form_id"`
	ExemptAssignees []string `json:"exempt_assignees,omitempty"`
}

type planResponse struct {
	Items []app.PlanItem `json:"items"`
}

// handlePlan handles POST /autoassign/plan. The plan is a proposal only;
// nothing is written until the caller commits it.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req planRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FormID) == "" {
		writeFault(w, fault.Validationf("missing form_id"))
		return
	}
	items, err := s.deps.PlanAutoAssign(r.Context(), req.FormID, req.ExemptAssignees)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Items: items})
}

type commitRequest struct {
	Items []app.PlanItem `json:"items"`
}

type commitResponse struct {
	Results []app.CommitResult `json:"results"`
}

// handleCommit handles POST /autoassign/commit. Items are committed
// independently; per-item failures are reported, not rolled back.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req commitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeFault(w, fault.Validationf("empty plan"))
		return
	}
	results := s.deps.CommitPlan(r.Context(), req.Items)
	writeJSON(w, http.StatusOK, commitResponse{Results: results})
}
