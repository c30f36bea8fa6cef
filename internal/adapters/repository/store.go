// Package repository defines the record store for the recruitment cycle
// and its implementations.
//
// Creation methods are conditional inserts: they fail with a conflict
// when the record's uniqueness key already exists, atomically with the
// store's own synchronization. That is what keeps the at-most-one
// guarantees (one confirmation per response, one assignment per triple)
// intact under concurrent callers.
package repository

import (
	"context"

	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
)

// Store provides read/write access to cycle records.
type Store interface {
	// CreateApplication inserts a submitted application.
	// Fails with a conflict when the response id is already present.
	CreateApplication(ctx context.Context, a model.Application) error
	// GetApplication returns the application for a response id.
	GetApplication(ctx context.Context, responseID string) (model.Application, error)
	// ListApplications returns submitted applications for a form and role.
	ListApplications(ctx context.Context, formID string, role model.Role) ([]model.Application, error)

	// CreateAssignment conditionally inserts an assignment. Fails with a
	// conflict when one already exists for the same
	// (response, assignee, role, kind) key.
	CreateAssignment(ctx context.Context, a model.Assignment) error
	// GetAssignment returns an assignment by id.
	GetAssignment(ctx context.Context, id string) (model.Assignment, error)
	// DeleteAssignment removes an assignment by id.
	DeleteAssignment(ctx context.Context, id string) error
	// ListAssignmentsByResponse returns assignments for one response,
	// filtered by role and kind.
	ListAssignmentsByResponse(ctx context.Context, responseID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error)
	// ListAssignmentsByForm returns assignments across a form, filtered by
	// role and kind.
	ListAssignmentsByForm(ctx context.Context, formID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error)

	// PutScoreSet inserts or replaces a score set keyed by
	// (response, assignee, role). Ownership and submission rules are
	// enforced by the caller; the store only persists.
	PutScoreSet(ctx context.Context, s model.ScoreSet) error
	// GetScoreSet returns the score set for a key.
	GetScoreSet(ctx context.Context, responseID, assigneeID string, role model.Role) (model.ScoreSet, error)
	// HasSubmittedScores reports whether a submitted score set exists for
	// the key.
	HasSubmittedScores(ctx context.Context, responseID, assigneeID string, role model.Role) (bool, error)

	// CreateStatus inserts the initial status record for a
	// (response, role) pair. Fails with a conflict when present.
	CreateStatus(ctx context.Context, r status.Record) error
	// GetStatus returns the status record for a (response, role) pair.
	GetStatus(ctx context.Context, responseID string, role model.Role) (status.Record, error)
	// UpdateStatus replaces an existing status record.
	UpdateStatus(ctx context.Context, r status.Record) error
	// ListStatusesByForm returns all status records for a form.
	ListStatusesByForm(ctx context.Context, formID string) ([]status.Record, error)

	// CreateConfirmation conditionally inserts a confirmation. Fails with
	// a conflict when the response id already has one.
	CreateConfirmation(ctx context.Context, c model.ConfirmationRecord) error
	// GetConfirmation returns the confirmation for a response id.
	GetConfirmation(ctx context.Context, responseID string) (model.ConfirmationRecord, error)
}
