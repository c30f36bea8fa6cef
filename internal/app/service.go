// Package app wires the recruitment-cycle components into one service:
// score aggregation, the assignment matcher, the status engine, the
// confirmation gate, and decision visibility.
//
// The service holds no ambient state of its own; every read and write
// goes through the injected record store and form directory.
package app

import (
	"context"

	"github.com/cadre-hq/cadre/internal/adapters/repository"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/rubric"
	"github.com/cadre-hq/cadre/pkg/logger"
)

// Default service configuration constants.
const (
	defaultCommitParallelism = 8
)

// FormDirectory resolves published form definitions: rubric weights per
// role, the eligible assignee pools, and the decision-release flag.
type FormDirectory interface {
	WeightsFor(formID string, role model.Role) (rubric.Weights, error)
	DecisionsReleased(formID string) (bool, error)
	SetReleased(formID string, released bool) error
	Assignees(formID string, kind model.AssignmentKind) ([]string, error)
}

// Service implements the cycle operations exposed to the API layer.
type Service struct {
	store repository.Store
	forms FormDirectory

	commitParallelism int

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCommitParallelism bounds the fan-out used by CommitPlan.
func WithCommitParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.commitParallelism = n
		}
	}
}

// New constructs a Service over a record store and form directory.
func New(store repository.Store, forms FormDirectory, opts ...Option) *Service {
	s := &Service{
		store:             store,
		forms:             forms,
		commitParallelism: defaultCommitParallelism,
		log:               logger.Get().Named("app"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetDecisionsReleased flips the form-level decision-release gate.
func (s *Service) SetDecisionsReleased(ctx context.Context, formID string, released bool) error {
	if err := s.forms.SetReleased(formID, released); err != nil {
		return err
	}
	s.log.Info(ctx, "decision release flag changed",
		logger.String("formID", formID),
		logger.Bool("released", released),
	)
	return nil
}
