package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
)

type assignRequest struct {
	ResponseID string `json:"response_id"`
	AssigneeID string `json:"assignee_id"`
	Role       string `json:"role"`
	Kind       string `json:"kind"`
}

type assignmentResponse struct {
	ID         string `json:"id"`
	ResponseID string `json:"response_id"`
	AssigneeID string `json:"assignee_id"`
	Role       string `json:"role"`
	Kind       string `json:"kind"`
}

// handleAssignments handles POST /assignments.
func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req assignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResponseID) == "" || strings.TrimSpace(req.AssigneeID) == "" {
		writeFault(w, fault.Validationf("missing response_id or assignee_id"))
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeFault(w, err)
		return
	}
	kind, err := model.ParseAssignmentKind(req.Kind)
	if err != nil {
		writeFault(w, err)
		return
	}
	a, err := s.deps.Assign(r.Context(), req.ResponseID, req.AssigneeID, role, kind)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignmentResponse{
		ID:         a.ID,
		ResponseID: a.ResponseID,
		AssigneeID: a.AssigneeID,
		Role:       string(a.Role),
		Kind:       string(a.Kind),
	})
}

// handleUnassign handles DELETE /assignments/{id}.
func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/assignments/")
	if id == "" || strings.Contains(id, "/") {
		writeFault(w, fault.Validationf("missing assignment id"))
		return
	}
	if err := s.deps.Unassign(r.Context(), id); err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
