package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
)

type scoreKeyRequest struct {
	ResponseID string `json:"response_id"`
	AssigneeID string `json:"assignee_id"`
	Role       string `json:"role"`
	Kind       string `json:"kind,omitempty"`
}

func (req scoreKeyRequest) parse() (string, string, model.Role, error) {
	if strings.TrimSpace(req.ResponseID) == "" || strings.TrimSpace(req.AssigneeID) == "" {
		return "", "", "", fault.Validationf("missing response_id or assignee_id")
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return "", "", "", err
	}
	return req.ResponseID, req.AssigneeID, role, nil
}

type scoreSetResponse struct {
	ResponseID string             `json:"response_id"`
	AssigneeID string             `json:"assignee_id"`
	Role       string             `json:"role"`
	Scores     map[string]float64 `json:"scores"`
	Submitted  bool               `json:"submitted"`
}

func toScoreSetResponse(s model.ScoreSet) scoreSetResponse {
	return scoreSetResponse{
		ResponseID: s.ResponseID,
		AssigneeID: s.AssigneeID,
		Role:       string(s.Role),
		Scores:     s.Scores,
		Submitted:  s.Submitted,
	}
}

// handleStartScoring handles POST /scores/start.
func (s *Server) handleStartScoring(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req scoreKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, assigneeID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	kind := model.KindReview
	if req.Kind != "" {
		if kind, err = model.ParseAssignmentKind(req.Kind); err != nil {
			writeFault(w, err)
			return
		}
	}
	set, err := s.deps.StartScoring(r.Context(), responseID, assigneeID, role, kind)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScoreSetResponse(set))
}

type saveScoresRequest struct {
	scoreKeyRequest
	Scores map[string]float64 `json:"scores"`
}

// handleSaveScores handles PUT /scores.
func (s *Server) handleSaveScores(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}
	var req saveScoresRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, assigneeID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	set, err := s.deps.SaveScores(r.Context(), responseID, assigneeID, role, req.Scores)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreSetResponse(set))
}

// handleSubmitScores handles POST /scores/submit.
func (s *Server) handleSubmitScores(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req scoreKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	responseID, assigneeID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	set, err := s.deps.SubmitScores(r.Context(), responseID, assigneeID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreSetResponse(set))
}

type aggregateResponse struct {
	ResponseID string  `json:"response_id"`
	AssigneeID string  `json:"assignee_id"`
	Role       string  `json:"role"`
	Score      float64 `json:"score"`
}

// handleAggregate handles GET /scores/aggregate.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	req := scoreKeyRequest{
		ResponseID: q.Get("response_id"),
		AssigneeID: q.Get("assignee_id"),
		Role:       q.Get("role"),
	}
	responseID, assigneeID, role, err := req.parse()
	if err != nil {
		writeFault(w, err)
		return
	}
	score, err := s.deps.ScoreFor(r.Context(), responseID, assigneeID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregateResponse{
		ResponseID: responseID,
		AssigneeID: assigneeID,
		Role:       string(role),
		Score:      score,
	})
}
