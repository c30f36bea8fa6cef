package app

import (
	"context"
	"time"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/logger"
)

// Confirm records the applicant's accept/decline of an offer.
//
// Preconditions: the pair's status must be Accepted, and no confirmation
// may already exist for the response. The uniqueness check rides on the
// store's conditional insert, so concurrent confirms cannot both land.
func (s *Service) Confirm(ctx context.Context, responseID, userID string, role model.Role, decision model.ConfirmationDecision) (model.ConfirmationRecord, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return model.ConfirmationRecord{}, err
	}
	if rec.Status != status.Accepted {
		return model.ConfirmationRecord{}, fault.Preconditionf("response %s is %s, not accepted; cannot confirm", responseID, rec.Status)
	}

	c := model.ConfirmationRecord{
		// Deterministic composite key: a retried call writes the same id.
		ID:         responseID + ":" + userID,
		ResponseID: responseID,
		UserID:     userID,
		Decision:   decision,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateConfirmation(ctx, c); err != nil {
		return model.ConfirmationRecord{}, err
	}
	s.log.Info(ctx, "offer confirmation recorded",
		logger.String("responseID", responseID),
		logger.String("decision", string(decision)),
	)
	return c, nil
}

// Confirmation returns the confirmation record for a response id.
func (s *Service) Confirmation(ctx context.Context, responseID string) (model.ConfirmationRecord, error) {
	return s.store.GetConfirmation(ctx, responseID)
}
