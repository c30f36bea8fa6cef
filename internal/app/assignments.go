package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/match"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/logger"
	"github.com/cadre-hq/cadre/pkg/metrics"
)

// Assign creates an assignment pairing one assignee with one applicant
// for one role. Refused with a conflict when the
// (response, assignee, role, kind) key already exists. The first review
// assignment for a pair moves its status to UnderReview.
func (s *Service) Assign(ctx context.Context, responseID, assigneeID string, role model.Role, kind model.AssignmentKind) (model.Assignment, error) {
	appl, err := s.store.GetApplication(ctx, responseID)
	if err != nil {
		return model.Assignment{}, err
	}

	a := model.Assignment{
		ID:          uuid.NewString(),
		ResponseID:  responseID,
		ApplicantID: appl.ApplicantID,
		AssigneeID:  assigneeID,
		FormID:      appl.FormID,
		Role:        role,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return model.Assignment{}, err
	}

	if kind == model.KindReview {
		if err := s.beginReview(ctx, responseID, role); err != nil {
			s.log.Warn(ctx, "assignment created but status transition failed",
				logger.String("responseID", responseID),
				logger.Error(err),
			)
		}
	}
	return a, nil
}

// beginReview moves a NotReviewed pair to UnderReview; a no-op otherwise.
func (s *Service) beginReview(ctx context.Context, responseID string, role model.Role) error {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return err
	}
	next, err := status.BeginReview(rec)
	if err != nil {
		return err
	}
	if next.Status == rec.Status {
		return nil
	}
	if err := s.store.UpdateStatus(ctx, next); err != nil {
		return err
	}
	metrics.RecordStatusTransition(string(next.Status))
	return nil
}

// Unassign deletes an assignment. Refused when the assignee has a
// submitted score set for the pair; a submitted score is never orphaned
// silently.
func (s *Service) Unassign(ctx context.Context, assignmentID string) error {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	submitted, err := s.store.HasSubmittedScores(ctx, a.ResponseID, a.AssigneeID, a.Role)
	if err != nil {
		return err
	}
	if submitted {
		return fault.Preconditionf("assignee %s has submitted scores for %s; cannot unassign", a.AssigneeID, a.ResponseID)
	}
	return s.store.DeleteAssignment(ctx, assignmentID)
}

// PlanItem re-exports the planner's item type for API callers.
type PlanItem = match.PlanItem

// PlanAutoAssign proposes two balanced reviewer slots for every submitted
// bootcamp applicant on the form that does not already hold a full
// reviewer pair. The plan is a proposal; nothing is written until
// CommitPlan.
func (s *Service) PlanAutoAssign(ctx context.Context, formID string, exemptAssignees []string) ([]PlanItem, error) {
	apps, err := s.store.ListApplications(ctx, formID, model.RoleBootcamp)
	if err != nil {
		return nil, err
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ResponseID < apps[j].ResponseID })

	existing, err := s.store.ListAssignmentsByForm(ctx, formID, model.RoleBootcamp, model.KindReview)
	if err != nil {
		return nil, err
	}
	byResponse := make(map[string][]string)
	loads := make(map[string]int)
	for _, a := range existing {
		byResponse[a.ResponseID] = append(byResponse[a.ResponseID], a.AssigneeID)
		loads[a.AssigneeID]++
	}

	var candidates []match.Candidate
	for _, a := range apps {
		assigned := byResponse[a.ResponseID]
		if len(assigned) >= match.SlotsPerApplicant {
			continue
		}
		candidates = append(candidates, match.Candidate{
			ResponseID:  a.ResponseID,
			ApplicantID: a.ApplicantID,
			Assigned:    assigned,
		})
	}

	pool, err := s.forms.Assignees(formID, model.KindReview)
	if err != nil {
		return nil, err
	}
	reviewers := make([]match.Reviewer, 0, len(pool))
	for _, id := range pool {
		reviewers = append(reviewers, match.Reviewer{ID: id, Load: loads[id]})
	}

	exempt := make(map[string]bool, len(exemptAssignees))
	for _, id := range exemptAssignees {
		exempt[id] = true
	}

	plan := match.Plan(candidates, reviewers, exempt)
	metrics.RecordPlanGenerated()
	skipped := 0
	for _, item := range plan {
		if item.Skipped {
			skipped++
			metrics.RecordPlanItemSkipped()
		}
	}
	s.log.Info(ctx, "auto-assignment plan generated",
		logger.String("formID", formID),
		logger.Int("applicants", len(candidates)),
		logger.Int("reviewers", len(reviewers)),
		logger.Int("skipped", skipped),
	)
	return plan, nil
}

// CommitError is one failed slot within a commit result.
type CommitError struct {
	AssigneeID string `json:"assignee_id"`
	Reason     string `json:"reason"`
}

// CommitResult reports the outcome of committing one plan item.
type CommitResult struct {
	ResponseID string        `json:"response_id"`
	Assigned   []string      `json:"assigned"`
	Failed     []CommitError `json:"failed,omitempty"`
	Skipped    bool          `json:"skipped"`
}

// CommitPlan creates assignments for every non-skipped plan item. Items
// are committed independently and in parallel; a failure on one slot
// never blocks or rolls back the others.
func (s *Service) CommitPlan(ctx context.Context, plan []PlanItem) []CommitResult {
	results := make([]CommitResult, len(plan))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.commitParallelism)
	for i := range plan {
		item := plan[i]
		if item.Skipped {
			results[i] = CommitResult{ResponseID: item.ResponseID, Skipped: true}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			res := CommitResult{ResponseID: item.ResponseID}
			for _, assigneeID := range item.Reviewers {
				if _, err := s.Assign(ctx, item.ResponseID, assigneeID, model.RoleBootcamp, model.KindReview); err != nil {
					res.Failed = append(res.Failed, CommitError{AssigneeID: assigneeID, Reason: err.Error()})
					continue
				}
				res.Assigned = append(res.Assigned, assigneeID)
			}
			results[i] = res
		}(i)
	}
	wg.Wait()
	return results
}
