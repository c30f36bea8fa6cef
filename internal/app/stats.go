package app

import (
	"context"

	"github.com/cadre-hq/cadre/internal/domain/status"
)

// CycleStats summarizes a form's pipeline for the staff dashboard.
type CycleStats struct {
	FormID   string         `json:"form_id"`
	Total    int            `json:"total"`
	Decided  int            `json:"decided"`
	ByStatus map[string]int `json:"by_status"`
}

// Stats counts a form's status records by value.
func (s *Service) Stats(ctx context.Context, formID string) (CycleStats, error) {
	records, err := s.store.ListStatusesByForm(ctx, formID)
	if err != nil {
		return CycleStats{}, err
	}
	stats := CycleStats{FormID: formID, ByStatus: make(map[string]int)}
	for _, rec := range records {
		stats.Total++
		stats.ByStatus[string(rec.Status)]++
		if status.IsDecided(rec.Status) {
			stats.Decided++
		}
	}
	return stats, nil
}
