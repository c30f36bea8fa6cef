package repository

import (
	"context"
	"sync"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/metrics"
)

type assignmentKey struct {
	responseID string
	assigneeID string
	role       model.Role
	kind       model.AssignmentKind
}

type scoreKey struct {
	responseID string
	assigneeID string
	role       model.Role
}

type statusKey struct {
	responseID string
	role       model.Role
}

// MemStore implements Store with in-process maps. All conditional inserts
// happen under one mutex, so the check and the write are a single step.
type MemStore struct {
	mu sync.RWMutex

	applications  map[string]model.Application
	assignments   map[string]model.Assignment
	assignKeys    map[assignmentKey]string
	scores        map[scoreKey]model.ScoreSet
	statuses      map[statusKey]status.Record
	confirmations map[string]model.ConfirmationRecord
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		applications:  make(map[string]model.Application),
		assignments:   make(map[string]model.Assignment),
		assignKeys:    make(map[assignmentKey]string),
		scores:        make(map[scoreKey]model.ScoreSet),
		statuses:      make(map[statusKey]status.Record),
		confirmations: make(map[string]model.ConfirmationRecord),
	}
}

// CreateApplication inserts a submitted application.
func (m *MemStore) CreateApplication(_ context.Context, a model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applications[a.ResponseID]; ok {
		return fault.Conflictf("application %s already exists", a.ResponseID)
	}
	m.applications[a.ResponseID] = a
	return nil
}

// GetApplication returns the application for a response id.
func (m *MemStore) GetApplication(_ context.Context, responseID string) (model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.applications[responseID]
	if !ok {
		return model.Application{}, fault.NotFoundf("application %s", responseID)
	}
	return a, nil
}

// ListApplications returns submitted applications for a form and role.
func (m *MemStore) ListApplications(_ context.Context, formID string, role model.Role) ([]model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Application
	for _, a := range m.applications {
		if a.FormID == formID && a.Role == role && a.Submitted {
			out = append(out, a)
		}
	}
	return out, nil
}

// CreateAssignment conditionally inserts an assignment.
func (m *MemStore) CreateAssignment(_ context.Context, a model.Assignment) error {
	key := assignmentKey{a.ResponseID, a.AssigneeID, a.Role, a.Kind}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignKeys[key]; ok {
		metrics.RecordAssignmentConflict()
		return fault.Conflictf("assignee %s already assigned to %s for %s", a.AssigneeID, a.ResponseID, a.Role)
	}
	m.assignKeys[key] = a.ID
	m.assignments[a.ID] = a
	metrics.RecordAssignmentCreated()
	return nil
}

// GetAssignment returns an assignment by id.
func (m *MemStore) GetAssignment(_ context.Context, id string) (model.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return model.Assignment{}, fault.NotFoundf("assignment %s", id)
	}
	return a, nil
}

// DeleteAssignment removes an assignment by id.
func (m *MemStore) DeleteAssignment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return fault.NotFoundf("assignment %s", id)
	}
	delete(m.assignments, id)
	delete(m.assignKeys, assignmentKey{a.ResponseID, a.AssigneeID, a.Role, a.Kind})
	return nil
}

// ListAssignmentsByResponse returns assignments for one response.
func (m *MemStore) ListAssignmentsByResponse(_ context.Context, responseID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Assignment
	for _, a := range m.assignments {
		if a.ResponseID == responseID && a.Role == role && a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListAssignmentsByForm returns assignments across a form.
func (m *MemStore) ListAssignmentsByForm(_ context.Context, formID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Assignment
	for _, a := range m.assignments {
		if a.FormID == formID && a.Role == role && a.Kind == kind {
			out = append(out, a)
		}
	}
	return out, nil
}

// PutScoreSet inserts or replaces a score set.
func (m *MemStore) PutScoreSet(_ context.Context, s model.ScoreSet) error {
	cp := s
	cp.Scores = make(map[string]float64, len(s.Scores))
	for k, v := range s.Scores {
		cp.Scores[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[scoreKey{s.ResponseID, s.AssigneeID, s.Role}] = cp
	return nil
}

// GetScoreSet returns the score set for a key.
func (m *MemStore) GetScoreSet(_ context.Context, responseID, assigneeID string, role model.Role) (model.ScoreSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[scoreKey{responseID, assigneeID, role}]
	if !ok {
		return model.ScoreSet{}, fault.NotFoundf("score set for %s by %s", responseID, assigneeID)
	}
	return s, nil
}

// HasSubmittedScores reports whether a submitted score set exists.
func (m *MemStore) HasSubmittedScores(_ context.Context, responseID, assigneeID string, role model.Role) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[scoreKey{responseID, assigneeID, role}]
	return ok && s.Submitted, nil
}

// CreateStatus inserts the initial status record for a pair.
func (m *MemStore) CreateStatus(_ context.Context, r status.Record) error {
	key := statusKey{r.ResponseID, model.Role(r.Role)}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[key]; ok {
		return fault.Conflictf("status for %s/%s already exists", r.ResponseID, r.Role)
	}
	m.statuses[key] = r
	return nil
}

// GetStatus returns the status record for a pair.
func (m *MemStore) GetStatus(_ context.Context, responseID string, role model.Role) (status.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.statuses[statusKey{responseID, role}]
	if !ok {
		return status.Record{}, fault.NotFoundf("status for %s/%s", responseID, role)
	}
	return r, nil
}

// UpdateStatus replaces an existing status record.
func (m *MemStore) UpdateStatus(_ context.Context, r status.Record) error {
	key := statusKey{r.ResponseID, model.Role(r.Role)}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.statuses[key]; !ok {
		return fault.NotFoundf("status for %s/%s", r.ResponseID, r.Role)
	}
	m.statuses[key] = r
	return nil
}

// ListStatusesByForm returns all status records for a form.
func (m *MemStore) ListStatusesByForm(_ context.Context, formID string) ([]status.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []status.Record
	for _, r := range m.statuses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateConfirmation conditionally inserts a confirmation.
func (m *MemStore) CreateConfirmation(_ context.Context, c model.ConfirmationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.confirmations[c.ResponseID]; ok {
		metrics.RecordConfirmationConflict()
		return fault.Conflictf("response %s already confirmed", c.ResponseID)
	}
	m.confirmations[c.ResponseID] = c
	metrics.RecordConfirmationCreated()
	return nil
}

// GetConfirmation returns the confirmation for a response id.
func (m *MemStore) GetConfirmation(_ context.Context, responseID string) (model.ConfirmationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.confirmations[responseID]
	if !ok {
		return model.ConfirmationRecord{}, fault.NotFoundf("confirmation for %s", responseID)
	}
	return c, nil
}
