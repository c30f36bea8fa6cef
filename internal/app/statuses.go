package app

import (
	"context"

	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/logger"
	"github.com/cadre-hq/cadre/pkg/metrics"
)

// Status returns the status record for a (response, role) pair.
func (s *Service) Status(ctx context.Context, responseID string, role model.Role) (status.Record, error) {
	return s.store.GetStatus(ctx, responseID, role)
}

// SetQualified sets the qualification flag. Qualification is a staff
// judgment decoupled from the numeric score.
func (s *Service) SetQualified(ctx context.Context, responseID string, role model.Role, qualified bool) (status.Record, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return status.Record{}, err
	}
	rec.Qualified = qualified
	if err := s.store.UpdateStatus(ctx, rec); err != nil {
		return status.Record{}, err
	}
	return rec, nil
}

// AdvanceToInterview moves a qualified, reviewed pair to the interview
// stage. Explicit staff action; never automatic from score.
func (s *Service) AdvanceToInterview(ctx context.Context, responseID string, role model.Role) (status.Record, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return status.Record{}, err
	}
	next, err := status.AdvanceToInterview(rec)
	if err != nil {
		return status.Record{}, err
	}
	if err := s.store.UpdateStatus(ctx, next); err != nil {
		return status.Record{}, err
	}
	metrics.RecordStatusTransition(string(next.Status))
	return next, nil
}

// Decide applies the explicit staff decision into a terminal status.
func (s *Service) Decide(ctx context.Context, responseID string, role model.Role, decision status.Status) (status.Record, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return status.Record{}, err
	}
	next, err := status.Decide(rec, decision)
	if err != nil {
		return status.Record{}, err
	}
	if err := s.store.UpdateStatus(ctx, next); err != nil {
		return status.Record{}, err
	}
	metrics.RecordStatusTransition(string(next.Status))
	return next, nil
}

// OverrideStatus replaces a status unconditionally. Administrative
// exception path; every use is logged.
func (s *Service) OverrideStatus(ctx context.Context, responseID string, role model.Role, to status.Status, actorID string) (status.Record, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return status.Record{}, err
	}
	next := status.Override(rec, to)
	if err := s.store.UpdateStatus(ctx, next); err != nil {
		return status.Record{}, err
	}
	s.log.Warn(ctx, "status overridden",
		logger.String("responseID", responseID),
		logger.String("role", string(role)),
		logger.String("from", string(rec.Status)),
		logger.String("to", string(to)),
		logger.String("actorID", actorID),
	)
	metrics.RecordStatusTransition(string(to))
	return next, nil
}

// RejectAllUndecided moves every non-terminal status on a form directly
// to Denied. Administrative shortcut closing out a cycle; it bypasses the
// Interview step on purpose.
func (s *Service) RejectAllUndecided(ctx context.Context, formID string) (int, error) {
	records, err := s.store.ListStatusesByForm(ctx, formID)
	if err != nil {
		return 0, err
	}
	denied := 0
	for _, rec := range records {
		if status.IsDecided(rec.Status) {
			continue
		}
		next, err := status.Decide(rec, status.Denied)
		if err != nil {
			return denied, err
		}
		if err := s.store.UpdateStatus(ctx, next); err != nil {
			return denied, err
		}
		metrics.RecordStatusTransition(string(status.Denied))
		denied++
	}
	s.log.Info(ctx, "rejected all undecided",
		logger.String("formID", formID),
		logger.Int("denied", denied),
	)
	return denied, nil
}
