package app

import (
	"context"
	"time"

	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/logger"
)

// SubmitApplication records a submitted applicant response and creates
// the initial NotReviewed status for the (response, role) pair.
func (s *Service) SubmitApplication(ctx context.Context, responseID, applicantID, formID string, role model.Role) (model.Application, error) {
	a := model.Application{
		ResponseID:  responseID,
		ApplicantID: applicantID,
		FormID:      formID,
		Role:        role,
		Submitted:   true,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.store.CreateApplication(ctx, a); err != nil {
		return model.Application{}, err
	}
	rec := status.Record{
		ResponseID: responseID,
		FormID:     formID,
		Role:       string(role),
		Status:     status.NotReviewed,
	}
	if err := s.store.CreateStatus(ctx, rec); err != nil {
		return model.Application{}, err
	}
	s.log.Info(ctx, "application submitted",
		logger.String("responseID", responseID),
		logger.String("formID", formID),
		logger.String("role", string(role)),
	)
	return a, nil
}
