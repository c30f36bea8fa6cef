// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cadre-hq/cadre/internal/app"
	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/internal/domain/visibility"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SubmitApplication(ctx context.Context, responseID, applicantID, formID string, role model.Role) (model.Application, error)

	Assign(ctx context.Context, responseID, assigneeID string, role model.Role, kind model.AssignmentKind) (model.Assignment, error)
	Unassign(ctx context.Context, assignmentID string) error
	PlanAutoAssign(ctx context.Context, formID string, exemptAssignees []string) ([]app.PlanItem, error)
	CommitPlan(ctx context.Context, plan []app.PlanItem) []app.CommitResult

	StartScoring(ctx context.Context, responseID, assigneeID string, role model.Role, kind model.AssignmentKind) (model.ScoreSet, error)
	SaveScores(ctx context.Context, responseID, assigneeID string, role model.Role, scores map[string]float64) (model.ScoreSet, error)
	SubmitScores(ctx context.Context, responseID, assigneeID string, role model.Role) (model.ScoreSet, error)
	ScoreFor(ctx context.Context, responseID, assigneeID string, role model.Role) (float64, error)

	Status(ctx context.Context, responseID string, role model.Role) (status.Record, error)
	SetQualified(ctx context.Context, responseID string, role model.Role, qualified bool) (status.Record, error)
	AdvanceToInterview(ctx context.Context, responseID string, role model.Role) (status.Record, error)
	Decide(ctx context.Context, responseID string, role model.Role, decision status.Status) (status.Record, error)
	OverrideStatus(ctx context.Context, responseID string, role model.Role, to status.Status, actorID string) (status.Record, error)
	RejectAllUndecided(ctx context.Context, formID string) (int, error)

	Confirm(ctx context.Context, responseID, userID string, role model.Role, decision model.ConfirmationDecision) (model.ConfirmationRecord, error)
	PublicStatus(ctx context.Context, responseID string, role model.Role) (visibility.View, error)
	SetDecisionsReleased(ctx context.Context, formID string, released bool) error

	Stats(ctx context.Context, formID string) (app.CycleStats, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies
}

// NewServer creates a new API server.
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("/applications", MetricsMiddleware(s.handleSubmitApplication, "applications"))
	mux.HandleFunc("/assignments", MetricsMiddleware(s.handleAssignments, "assignments"))
	mux.HandleFunc("/assignments/", MetricsMiddleware(s.handleUnassign, "assignments"))
	mux.HandleFunc("/autoassign/plan", MetricsMiddleware(s.handlePlan, "autoassign_plan"))
	mux.HandleFunc("/autoassign/commit", MetricsMiddleware(s.handleCommit, "autoassign_commit"))
	mux.HandleFunc("/scores/start", MetricsMiddleware(s.handleStartScoring, "scores_start"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.handleSaveScores, "scores"))
	mux.HandleFunc("/scores/submit", MetricsMiddleware(s.handleSubmitScores, "scores_submit"))
	mux.HandleFunc("/scores/aggregate", MetricsMiddleware(s.handleAggregate, "scores_aggregate"))
	mux.HandleFunc("/statuses", MetricsMiddleware(s.handleGetStatus, "statuses"))
	mux.HandleFunc("/statuses/qualify", MetricsMiddleware(s.handleQualify, "statuses_qualify"))
	mux.HandleFunc("/statuses/advance", MetricsMiddleware(s.handleAdvance, "statuses_advance"))
	mux.HandleFunc("/statuses/decide", MetricsMiddleware(s.handleDecide, "statuses_decide"))
	mux.HandleFunc("/statuses/override", MetricsMiddleware(s.handleOverride, "statuses_override"))
	mux.HandleFunc("/statuses/reject-undecided", MetricsMiddleware(s.handleRejectUndecided, "statuses_reject"))
	mux.HandleFunc("/confirmations", MetricsMiddleware(s.handleConfirm, "confirmations"))
	mux.HandleFunc("/decisions", MetricsMiddleware(s.handlePublicStatus, "decisions"))
	mux.HandleFunc("/forms/release", MetricsMiddleware(s.handleRelease, "forms_release"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFault translates the shared failure kinds into HTTP codes.
func writeFault(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fault.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "validation_failure", Message: err.Error()})
	case errors.Is(err, fault.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "conflict", Message: err.Error()})
	case errors.Is(err, fault.ErrPrecondition):
		writeJSON(w, http.StatusPreconditionFailed, errorResponse{Code: "precondition_failure", Message: err.Error()})
	case errors.Is(err, fault.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: err.Error()})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFault(w, fault.Validationf("malformed request body: %v", err))
		return false
	}
	return true
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.NotFound(w, r)
		return false
	}
	return true
}
