// Package match implements the bulk auto-assignment planner for
// first-stage bootcamp applicants.
//
// The planner is pure: it works on a snapshot of applicants, reviewers,
// and existing assignment counts, and proposes a balanced plan the caller
// may commit or discard. Given identical snapshots it always produces the
// identical plan.
package match

import "sort"

// SlotsPerApplicant is how many reviewers each applicant receives.
const SlotsPerApplicant = 2

// Candidate is one applicant still needing reviewer slots.
type Candidate struct {
	ResponseID  string
	ApplicantID string
	// Assigned holds reviewer ids already assigned to this applicant.
	Assigned []string
}

// Reviewer is one member of the eligible reviewer pool.
type Reviewer struct {
	ID string
	// Load counts assignments the reviewer already holds for this form.
	Load int
}

// PlanItem is the proposed pairing for one applicant. Skipped items carry
// as many valid reviewer slots as could be filled (0 or 1).
type PlanItem struct {
	ResponseID  string   `json:"response_id"`
	ApplicantID string   `json:"applicant_id"`
	Reviewers   []string `json:"reviewers"`
	Skipped     bool     `json:"skipped"`
}

// Plan proposes reviewer pairings for every candidate, excluding exempt
// reviewers and keeping total assignment counts across reviewers within 1
// of each other.
//
// Fair-share capacity is the number of open slots divided by the number of
// eligible reviewers, rounded up. Reviewers nearer capacity are
// deprioritized; ties break on reviewer id ascending so the plan is
// reproducible.
func Plan(candidates []Candidate, reviewers []Reviewer, exempt map[string]bool) []PlanItem {
	pool := make([]*slot, 0, len(reviewers))
	for _, r := range reviewers {
		if exempt[r.ID] {
			continue
		}
		pool = append(pool, &slot{id: r.ID, load: r.Load})
	}

	open := 0
	for i := range candidates {
		if need := SlotsPerApplicant - len(candidates[i].Assigned); need > 0 {
			open += need
		}
	}

	capacity := 0
	if len(pool) > 0 {
		capacity = ceilDiv(open, len(pool))
	}

	items := make([]PlanItem, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		item := PlanItem{ResponseID: c.ResponseID, ApplicantID: c.ApplicantID}

		taken := make(map[string]bool, SlotsPerApplicant+len(c.Assigned))
		for _, id := range c.Assigned {
			taken[id] = true
		}

		need := SlotsPerApplicant - len(c.Assigned)
		for n := 0; n < need; n++ {
			s := pick(pool, taken, capacity)
			if s == nil {
				item.Skipped = true
				break
			}
			s.load++
			s.planned++
			taken[s.ID()] = true
			item.Reviewers = append(item.Reviewers, s.ID())
		}
		items = append(items, item)
	}
	return items
}

type slot struct {
	id      string
	load    int
	planned int
}

func (s *slot) ID() string { return s.id }

// pick returns the least-loaded eligible reviewer under capacity, breaking
// ties by id ascending. Returns nil when no reviewer is eligible.
func pick(pool []*slot, taken map[string]bool, capacity int) *slot {
	eligible := make([]*slot, 0, len(pool))
	for _, s := range pool {
		if taken[s.id] || s.planned >= capacity {
			continue
		}
		eligible = append(eligible, s)
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].load != eligible[j].load {
			return eligible[i].load < eligible[j].load
		}
		return eligible[i].id < eligible[j].id
	})
	return eligible[0]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
