// Package status defines the per-(response, role) review state machine.
//
// The vocabulary is ordered: NotReviewed -> UnderReview -> Interview ->
// one of the terminal decisions. Records move forward only; terminal
// records accept no further transitions outside the explicit
// administrative override.
package status

import "github.com/cadre-hq/cadre/internal/domain/fault"

// Status is one value of the fixed ordered vocabulary.
type Status string

// Ordered status vocabulary.
const (
	NotReviewed Status = "NotReviewed"
	UnderReview Status = "UnderReview"
	Interview   Status = "Interview"
	Accepted    Status = "Accepted"
	Denied      Status = "Denied"
	Waitlisted  Status = "Waitlisted"
)

// Parse validates a status string from the boundary.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case NotReviewed, UnderReview, Interview, Accepted, Denied, Waitlisted:
		return Status(s), nil
	default:
		return "", fault.Validationf("unknown status %q", s)
	}
}

// IsDecided reports whether s is one of the three terminal values.
func IsDecided(s Status) bool {
	switch s {
	case Accepted, Denied, Waitlisted:
		return true
	default:
		return false
	}
}

// IsDecision reports whether s is a value staff may decide into. Identical
// set to IsDecided; named separately because callers validate intent, not
// state.
func IsDecision(s Status) bool { return IsDecided(s) }

// Record is one (response, role) status row with its qualification flag.
type Record struct {
	ResponseID string
	FormID     string
	Role       string
	Status     Status
	Qualified  bool
}

// BeginReview moves a fresh record to UnderReview. Called once the first
// review assignment exists for the pair; a no-op when already past it.
func BeginReview(r Record) (Record, error) {
	if IsDecided(r.Status) {
		return r, fault.Conflictf("status %s is terminal", r.Status)
	}
	if r.Status != NotReviewed {
		return r, nil
	}
	r.Status = UnderReview
	return r, nil
}

// AdvanceToInterview is the explicit staff action moving a qualified,
// reviewed applicant to the interview stage. Never automatic from score.
func AdvanceToInterview(r Record) (Record, error) {
	if IsDecided(r.Status) {
		return r, fault.Conflictf("status %s is terminal", r.Status)
	}
	if r.Status != UnderReview {
		return r, fault.Preconditionf("cannot move %s to Interview; review not started", r.Status)
	}
	if !r.Qualified {
		return r, fault.Preconditionf("applicant not marked qualified")
	}
	r.Status = Interview
	return r, nil
}

// Decide is the explicit staff decision into a terminal value. Refused on
// records already terminal.
func Decide(r Record, decision Status) (Record, error) {
	if !IsDecision(decision) {
		return r, fault.Validationf("%s is not a decision", decision)
	}
	if IsDecided(r.Status) {
		return r, fault.Conflictf("status %s is terminal", r.Status)
	}
	r.Status = decision
	return r, nil
}

// Override replaces the status unconditionally. This is the audited
// administrative escape hatch, not part of normal flow.
func Override(r Record, to Status) Record {
	r.Status = to
	return r
}
