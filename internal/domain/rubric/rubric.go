// Package rubric converts per-criterion scores and role-specific weight
// tables into a single normalized number.
//
// ComputeScore never fails: every malformed input resolves through a
// defined fallback (unweighted mean, or zero when required criteria are
// missing), so callers always get a number back.
package rubric

import "math"

// Rounding configuration constants.
const (
	// epsilon nudges values sitting exactly on the .xx5 boundary upward
	// before rounding, so 2.005 rounds to 2.01 despite float storage.
	epsilon = 1e-9

	centScale = 100
)

// Weights maps criterion key to its linear coefficient for one role.
// Weights are not required to sum to 1.
type Weights map[string]float64

// ScoreSet maps criterion key to the raw score a single assignee gave.
type ScoreSet map[string]float64

// ComputeScore turns a score set and an optional weight table into one
// number:
//
//   - no weight table, or a mismatched key set where the score set is at
//     least as large as the weight table: unweighted mean of all scores
//     (0 when the score set is empty)
//   - score set missing a criterion the weight table requires: 0
//   - otherwise: sum of weight[k]*score[k] over the weight table keys,
//     rounded half-up to 2 decimals
func ComputeScore(weights Weights, scores ScoreSet) float64 {
	if len(weights) == 0 {
		return round2(mean(scores))
	}
	if hasMismatch(weights, scores) {
		return round2(mean(scores))
	}
	for k := range weights {
		if _, ok := scores[k]; !ok {
			return 0
		}
	}
	var total float64
	for k, w := range weights {
		total += w * scores[k]
	}
	return round2(total)
}

// hasMismatch reports whether the score keys differ from the weight keys
// as sets AND the score set is at least as large as the weight table.
// A strict subset of the expected keys is not a mismatch; it falls through
// to the required-keys check instead.
func hasMismatch(weights Weights, scores ScoreSet) bool {
	if len(scores) < len(weights) {
		return false
	}
	if len(scores) > len(weights) {
		return true
	}
	for k := range weights {
		if _, ok := scores[k]; !ok {
			return true
		}
	}
	return false
}

func mean(scores ScoreSet) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, v := range scores {
		total += v
	}
	return total / float64(len(scores))
}

// round2 rounds half-up at two decimals.
func round2(v float64) float64 {
	return math.Floor((v+epsilon)*centScale+0.5) / centScale
}
