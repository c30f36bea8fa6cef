package app

import (
	"context"
	"time"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/rubric"
	"github.com/cadre-hq/cadre/pkg/metrics"
)

// Score value bounds for validated input.
const (
	minScoreValue = 0
	maxScoreValue = 10
)

// StartScoring creates an empty draft score set owned by the assignee.
// Requires an assignment for the (response, assignee, role) triple.
func (s *Service) StartScoring(ctx context.Context, responseID, assigneeID string, role model.Role, kind model.AssignmentKind) (model.ScoreSet, error) {
	assignments, err := s.store.ListAssignmentsByResponse(ctx, responseID, role, kind)
	if err != nil {
		return model.ScoreSet{}, err
	}
	assigned := false
	for _, a := range assignments {
		if a.AssigneeID == assigneeID {
			assigned = true
			break
		}
	}
	if !assigned {
		return model.ScoreSet{}, fault.Preconditionf("%s is not assigned to %s for %s", assigneeID, responseID, role)
	}

	if existing, err := s.store.GetScoreSet(ctx, responseID, assigneeID, role); err == nil {
		return existing, nil
	}

	set := model.ScoreSet{
		ResponseID: responseID,
		AssigneeID: assigneeID,
		Role:       role,
		Scores:     map[string]float64{},
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.PutScoreSet(ctx, set); err != nil {
		return model.ScoreSet{}, err
	}
	return set, nil
}

// SaveScores replaces the draft's criterion scores. Only the owning
// assignee may write, values are bounded, and a submitted set is
// immutable.
func (s *Service) SaveScores(ctx context.Context, responseID, assigneeID string, role model.Role, scores map[string]float64) (model.ScoreSet, error) {
	set, err := s.store.GetScoreSet(ctx, responseID, assigneeID, role)
	if err != nil {
		return model.ScoreSet{}, err
	}
	if set.Submitted {
		return model.ScoreSet{}, fault.Conflictf("score set for %s by %s is submitted", responseID, assigneeID)
	}
	for k, v := range scores {
		if v < minScoreValue || v > maxScoreValue {
			return model.ScoreSet{}, fault.Validationf("score %q=%v outside [%d,%d]", k, v, minScoreValue, maxScoreValue)
		}
	}
	set.Scores = scores
	set.UpdatedAt = time.Now().UTC()
	if err := s.store.PutScoreSet(ctx, set); err != nil {
		return model.ScoreSet{}, err
	}
	return set, nil
}

// SubmitScores marks the score set submitted. Submission is one-way; the
// set becomes read-only history afterwards.
func (s *Service) SubmitScores(ctx context.Context, responseID, assigneeID string, role model.Role) (model.ScoreSet, error) {
	set, err := s.store.GetScoreSet(ctx, responseID, assigneeID, role)
	if err != nil {
		return model.ScoreSet{}, err
	}
	if set.Submitted {
		return model.ScoreSet{}, fault.Conflictf("score set for %s by %s already submitted", responseID, assigneeID)
	}
	set.Submitted = true
	set.UpdatedAt = time.Now().UTC()
	if err := s.store.PutScoreSet(ctx, set); err != nil {
		return model.ScoreSet{}, err
	}
	return set, nil
}

// ScoreFor resolves the form's weight table for the role and aggregates
// one assignee's score set into a single number.
func (s *Service) ScoreFor(ctx context.Context, responseID, assigneeID string, role model.Role) (float64, error) {
	appl, err := s.store.GetApplication(ctx, responseID)
	if err != nil {
		return 0, err
	}
	weights, err := s.forms.WeightsFor(appl.FormID, role)
	if err != nil {
		return 0, err
	}
	set, err := s.store.GetScoreSet(ctx, responseID, assigneeID, role)
	if err != nil {
		return 0, err
	}
	metrics.RecordScoreComputed()
	return rubric.ComputeScore(weights, rubric.ScoreSet(set.Scores)), nil
}
