// Package metrics provides Prometheus metrics for the recruitment cycle
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "cadre"
)

var (
	assignmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_created_total",
		Help:      "Assignments successfully created.",
	})
	assignmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignment_conflicts_total",
		Help:      "Assignment creations refused because the triple already existed.",
	})
	confirmationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmations_created_total",
		Help:      "Offer confirmations recorded.",
	})
	confirmationConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_conflicts_total",
		Help:      "Confirmations refused because the response was already confirmed.",
	})
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Status transitions applied, labeled by target status.",
	}, []string{"to"})
	plansGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "autoassign_plans_total",
		Help:      "Auto-assignment plans generated.",
	})
	planItemsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "autoassign_items_skipped_total",
		Help:      "Plan items skipped for lack of eligible reviewers.",
	})
	scoresComputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_computed_total",
		Help:      "Weighted score computations served.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "code"})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// RecordAssignmentCreated counts a successful assignment insert.
func RecordAssignmentCreated() { assignmentsCreated.Inc() }

// RecordAssignmentConflict counts a refused duplicate assignment.
func RecordAssignmentConflict() { assignmentConflicts.Inc() }

// RecordConfirmationCreated counts a recorded confirmation.
func RecordConfirmationCreated() { confirmationsCreated.Inc() }

// RecordConfirmationConflict counts a refused duplicate confirmation.
func RecordConfirmationConflict() { confirmationConflicts.Inc() }

// RecordStatusTransition counts a transition into the given status.
func RecordStatusTransition(to string) { statusTransitions.WithLabelValues(to).Inc() }

// RecordPlanGenerated counts a generated auto-assignment plan.
func RecordPlanGenerated() { plansGenerated.Inc() }

// RecordPlanItemSkipped counts a skipped plan item.
func RecordPlanItemSkipped() { planItemsSkipped.Inc() }

// RecordScoreComputed counts a weighted score computation.
func RecordScoreComputed() { scoresComputed.Inc() }

// RecordHTTPRequest counts one request against an endpoint.
func RecordHTTPRequest(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// ObserveHTTPDuration records request latency for an endpoint.
func ObserveHTTPDuration(endpoint string, seconds float64) {
	httpDuration.WithLabelValues(endpoint).Observe(seconds)
}
