// Package visibility projects internal statuses into the restricted view
// applicants see before decisions are released.
package visibility

import "github.com/cadre-hq/cadre/internal/domain/status"

// Decided is the opaque placeholder shown for any terminal status while
// decisions are unreleased.
const Decided = "decided"

// View is the applicant-facing projection of a status record.
type View struct {
	Status   string `json:"status"`
	Role     string `json:"role"`
	Released bool   `json:"released"`
}

// PublicStatus projects an internal status given the form's release flag.
// Released forms show the exact internal value. Unreleased forms keep
// Interview visible, collapse terminals to the opaque Decided value, and
// show everything earlier as UnderReview. Pure; reads nothing beyond its
// inputs.
func PublicStatus(released bool, role string, internal status.Status) View {
	if released {
		return View{Status: string(internal), Role: role, Released: true}
	}
	v := View{Role: role, Released: false}
	switch {
	case internal == status.Interview:
		v.Status = string(status.Interview)
	case status.IsDecided(internal):
		v.Status = Decided
	default:
		v.Status = string(status.UnderReview)
	}
	return v
}
