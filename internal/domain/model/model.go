// Package model contains domain records passed between layers.
package model

import (
	"time"

	"github.com/cadre-hq/cadre/internal/domain/fault"
)

// Role identifies the program an applicant applies to. Parsed once at the
// boundary; internal code never carries free-form role strings.
type Role string

// Known roles.
const (
	RoleBootcamp   Role = "bootcamp"
	RoleFellowship Role = "fellowship"
)

// ParseRole validates a role string from the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBootcamp, RoleFellowship:
		return Role(s), nil
	default:
		return "", fault.Validationf("unknown role %q", s)
	}
}

// AssignmentKind distinguishes review from interview assignments.
type AssignmentKind string

// Assignment kinds.
const (
	KindReview    AssignmentKind = "review"
	KindInterview AssignmentKind = "interview"
)

// ParseAssignmentKind validates an assignment kind string from the boundary.
func ParseAssignmentKind(s string) (AssignmentKind, error) {
	switch AssignmentKind(s) {
	case KindReview, KindInterview:
		return AssignmentKind(s), nil
	default:
		return "", fault.Validationf("unknown assignment kind %q", s)
	}
}

// PermissionRole describes what a user may do in the cycle.
type PermissionRole string

// Permission roles.
const (
	PermApplicant   PermissionRole = "applicant"
	PermReviewer    PermissionRole = "reviewer"
	PermInterviewer PermissionRole = "interviewer"
	PermStaff       PermissionRole = "staff"
)

// Application is one submitted applicant response to a form.
type Application struct {
	ResponseID  string
	ApplicantID string
	FormID      string
	Role        Role
	Submitted   bool
	SubmittedAt time.Time
}

// Assignment pairs one reviewer or interviewer with one applicant for one
// role. Created by staff action or the auto-assignment planner.
type Assignment struct {
	ID          string
	ResponseID  string
	ApplicantID string
	AssigneeID  string
	FormID      string
	Role        Role
	Kind        AssignmentKind
	CreatedAt   time.Time
}

// ScoreSet holds one assignee's per-criterion scores for one
// (response, role) pair. Owned by the assignee until Submitted is set,
// read-only afterwards.
type ScoreSet struct {
	ResponseID string
	AssigneeID string
	Role       Role
	Scores     map[string]float64
	Submitted  bool
	UpdatedAt  time.Time
}

// ConfirmationDecision is the applicant's answer to an offer.
type ConfirmationDecision string

// Confirmation decisions.
const (
	DecisionAccepted ConfirmationDecision = "accepted"
	DecisionDenied   ConfirmationDecision = "denied"
)

// ParseConfirmationDecision validates a decision string from the boundary.
func ParseConfirmationDecision(s string) (ConfirmationDecision, error) {
	switch ConfirmationDecision(s) {
	case DecisionAccepted, DecisionDenied:
		return ConfirmationDecision(s), nil
	default:
		return "", fault.Validationf("unknown confirmation decision %q", s)
	}
}

// ConfirmationRecord captures an applicant's accept/decline of an offer.
// At most one exists per response id.
type ConfirmationRecord struct {
	ID         string
	ResponseID string
	UserID     string
	Decision   ConfirmationDecision
	CreatedAt  time.Time
}
