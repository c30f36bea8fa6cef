package app

import (
	"context"

	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/visibility"
)

// PublicStatus projects the internal status for a (response, role) pair
// into the applicant-facing view, gated by the form's release flag.
func (s *Service) PublicStatus(ctx context.Context, responseID string, role model.Role) (visibility.View, error) {
	rec, err := s.store.GetStatus(ctx, responseID, role)
	if err != nil {
		return visibility.View{}, err
	}
	released, err := s.forms.DecisionsReleased(rec.FormID)
	if err != nil {
		return visibility.View{}, err
	}
	return visibility.PublicStatus(released, rec.Role, rec.Status), nil
}
