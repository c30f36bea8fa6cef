package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
)

type statusKeyRequest struct {
	ResponseID string `json:"response_id"`
	Role       string `json:"role"`
}

func (req statusKeyRequest) parse() (string, model.Role, error) {
	if strings.TrimSpace(req.ResponseID) == "" {
		return "", "", fault.Validationf("missing response_id")
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return "", "", err
	}
	return req.ResponseID, role, nil
}

type statusResponse struct {
	ResponseID string `json:"response_id"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Qualified  bool   `json:"qualified"`
	Decided    bool   `json:"decided"`
}

func toStatusResponse(r status.Record) statusResponse {
	return statusResponse{
		ResponseID: r.ResponseID,
		Role:       r.Role,
		Status:     string(r.Status),
		Qualified:  r.Qualified,
		Decided:    status.IsDecided(r.Status),
	}
}

// handleGetStatus handles GET /statuses.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	responseID, role, err := statusKeyRequest{ResponseID: q.Get("response_id"), Role: q.Get("role")}.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	rec, err := s.deps.Status(r.Context(), responseID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

type qualifyRequest struct {
	statusKeyRequest
	Qualified bool `json:"qualified"`
}

// handleQualify handles POST /statuses/qualify.
func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req qualifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	rec, err := s.deps.SetQualified(r.Context(), responseID, role, req.Qualified)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

// handleAdvance handles POST /statuses/advance.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req statusKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	rec, err := s.deps.AdvanceToInterview(r.Context(), responseID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

type decideRequest struct {
	statusKeyRequest
	Decision string `json:"decision"`
}

// handleDecide handles POST /statuses/decide.
func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req decideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	decision, err := status.Parse(req.Decision)
	if err != nil {
		writeFault(w, err)
		return
	}
	rec, err := s.deps.Decide(r.Context(), responseID, role, decision)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

type overrideRequest struct {
	statusKeyRequest
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
}

// handleOverride handles POST /statuses/override, the audited
// administrative escape hatch.
func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req overrideRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	to, err := status.Parse(req.Status)
	if err != nil {
		writeFault(w, err)
		return
	}
	if strings.TrimSpace(req.ActorID) == "" {
		writeFault(w, fault.Validationf("missing actor_id"))
		return
	}
	rec, err := s.deps.OverrideStatus(r.Context(), responseID, role, to, req.ActorID)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusResponse(rec))
}

type rejectUndecidedRequest struct {
	FormID string `json:"form_id"`
}

type rejectUndecidedResponse struct {
	Denied int `json:"denied"`
}

// handleRejectUndecided handles POST /statuses/reject-undecided.
func (s *Server) handleRejectUndecided(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req rejectUndecidedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FormID) == "" {
		writeFault(w, fault.Validationf("missing form_id"))
		return
	}
	denied, err := s.deps.RejectAllUndecided(r.Context(), req.FormID)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rejectUndecidedResponse{Denied: denied})
}
