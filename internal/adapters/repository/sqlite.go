package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/status"
	"github.com/cadre-hq/cadre/pkg/metrics"
)

//go:embed schema.sql
var embeddedSchema embed.FS

// SQLiteStore implements Store on SQLite. The UNIQUE constraints in the
// schema make the conditional inserts atomic at the database, which
// closes the check-then-act window the in-process callers would
// otherwise race through.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens (or creates) the database at path and applies the
// schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite db %s", path)
	}
	s := NewSQLiteStore(db)
	if err := s.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// InitSchema applies the embedded schema.
func (s *SQLiteStore) InitSchema() error {
	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return errors.Wrap(err, "enable foreign keys")
	}
	b, err := embeddedSchema.ReadFile("schema.sql")
	if err != nil {
		return errors.Wrap(err, "read embedded schema")
	}
	if _, err := s.db.Exec(string(b)); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isConstraint reports whether err is a SQLite uniqueness violation.
func isConstraint(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}

// CreateApplication inserts a submitted application.
func (s *SQLiteStore) CreateApplication(ctx context.Context, a model.Application) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO applications(response_id, applicant_id, form_id, role, submitted, submitted_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ResponseID, a.ApplicantID, a.FormID, string(a.Role), a.Submitted, a.SubmittedAt)
	if isConstraint(err) {
		return fault.Conflictf("application %s already exists", a.ResponseID)
	}
	return errors.Wrap(err, "insert application")
}

// GetApplication returns the application for a response id.
func (s *SQLiteStore) GetApplication(ctx context.Context, responseID string) (model.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT response_id, applicant_id, form_id, role, submitted, submitted_at FROM applications WHERE response_id = ?`,
		responseID)
	var a model.Application
	var role string
	if err := row.Scan(&a.ResponseID, &a.ApplicantID, &a.FormID, &role, &a.Submitted, &a.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Application{}, fault.NotFoundf("application %s", responseID)
		}
		return model.Application{}, errors.Wrap(err, "query application")
	}
	a.Role = model.Role(role)
	return a, nil
}

// ListApplications returns submitted applications for a form and role.
func (s *SQLiteStore) ListApplications(ctx context.Context, formID string, role model.Role) ([]model.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT response_id, applicant_id, form_id, role, submitted, submitted_at FROM applications
		 WHERE form_id = ? AND role = ? AND submitted = 1 ORDER BY response_id`,
		formID, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "query applications")
	}
	defer rows.Close()

	var out []model.Application
	for rows.Next() {
		var a model.Application
		var r string
		if err := rows.Scan(&a.ResponseID, &a.ApplicantID, &a.FormID, &r, &a.Submitted, &a.SubmittedAt); err != nil {
			return nil, errors.Wrap(err, "scan application")
		}
		a.Role = model.Role(r)
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "iterate applications")
}

// CreateAssignment conditionally inserts an assignment.
func (s *SQLiteStore) CreateAssignment(ctx context.Context, a model.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assignments(id, response_id, applicant_id, assignee_id, form_id, role, kind, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ResponseID, a.ApplicantID, a.AssigneeID, a.FormID, string(a.Role), string(a.Kind), a.CreatedAt)
	if isConstraint(err) {
		metrics.RecordAssignmentConflict()
		return fault.Conflictf("assignee %s already assigned to %s for %s", a.AssigneeID, a.ResponseID, a.Role)
	}
	if err == nil {
		metrics.RecordAssignmentCreated()
	}
	return errors.Wrap(err, "insert assignment")
}

// GetAssignment returns an assignment by id.
func (s *SQLiteStore) GetAssignment(ctx context.Context, id string) (model.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, response_id, applicant_id, assignee_id, form_id, role, kind, created_at FROM assignments WHERE id = ?`, id)
	return scanAssignment(row)
}

// DeleteAssignment removes an assignment by id.
func (s *SQLiteStore) DeleteAssignment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete assignment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete assignment rows")
	}
	if n == 0 {
		return fault.NotFoundf("assignment %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (model.Assignment, error) {
	var a model.Assignment
	var role, kind string
	if err := row.Scan(&a.ID, &a.ResponseID, &a.ApplicantID, &a.AssigneeID, &a.FormID, &role, &kind, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Assignment{}, fault.NotFoundf("assignment")
		}
		return model.Assignment{}, errors.Wrap(err, "scan assignment")
	}
	a.Role = model.Role(role)
	a.Kind = model.AssignmentKind(kind)
	return a, nil
}

func (s *SQLiteStore) listAssignments(ctx context.Context, where string, args ...any) ([]model.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, response_id, applicant_id, assignee_id, form_id, role, kind, created_at FROM assignments `+where+` ORDER BY id`,
		args...)
	if err != nil {
		return nil, errors.Wrap(err, "query assignments")
	}
	defer rows.Close()

	var out []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, errors.Wrap(rows.Err(), "iterate assignments")
}

// ListAssignmentsByResponse returns assignments for one response.
func (s *SQLiteStore) ListAssignmentsByResponse(ctx context.Context, responseID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error) {
	return s.listAssignments(ctx, `WHERE response_id = ? AND role = ? AND kind = ?`, responseID, string(role), string(kind))
}

// ListAssignmentsByForm returns assignments across a form.
func (s *SQLiteStore) ListAssignmentsByForm(ctx context.Context, formID string, role model.Role, kind model.AssignmentKind) ([]model.Assignment, error) {
	return s.listAssignments(ctx, `WHERE form_id = ? AND role = ? AND kind = ?`, formID, string(role), string(kind))
}

// PutScoreSet inserts or replaces a score set.
func (s *SQLiteStore) PutScoreSet(ctx context.Context, set model.ScoreSet) error {
	raw, err := json.Marshal(set.Scores)
	if err != nil {
		return errors.Wrap(err, "marshal scores")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_sets(response_id, assignee_id, role, scores, submitted, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(response_id, assignee_id, role) DO UPDATE SET scores = excluded.scores, submitted = excluded.submitted, updated_at = excluded.updated_at`,
		set.ResponseID, set.AssigneeID, string(set.Role), string(raw), set.Submitted, set.UpdatedAt)
	return errors.Wrap(err, "upsert score set")
}

// GetScoreSet returns the score set for a key.
func (s *SQLiteStore) GetScoreSet(ctx context.Context, responseID, assigneeID string, role model.Role) (model.ScoreSet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT response_id, assignee_id, role, scores, submitted, updated_at FROM score_sets
		 WHERE response_id = ? AND assignee_id = ? AND role = ?`,
		responseID, assigneeID, string(role))
	var set model.ScoreSet
	var r, raw string
	if err := row.Scan(&set.ResponseID, &set.AssigneeID, &r, &raw, &set.Submitted, &set.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScoreSet{}, fault.NotFoundf("score set for %s by %s", responseID, assigneeID)
		}
		return model.ScoreSet{}, errors.Wrap(err, "query score set")
	}
	set.Role = model.Role(r)
	if err := json.Unmarshal([]byte(raw), &set.Scores); err != nil {
		return model.ScoreSet{}, errors.Wrap(err, "unmarshal scores")
	}
	return set, nil
}

// HasSubmittedScores reports whether a submitted score set exists.
func (s *SQLiteStore) HasSubmittedScores(ctx context.Context, responseID, assigneeID string, role model.Role) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM score_sets WHERE response_id = ? AND assignee_id = ? AND role = ? AND submitted = 1`,
		responseID, assigneeID, string(role)).Scan(&cnt)
	if err != nil {
		return false, errors.Wrap(err, "count submitted scores")
	}
	return cnt > 0, nil
}

// CreateStatus inserts the initial status record for a pair.
func (s *SQLiteStore) CreateStatus(ctx context.Context, r status.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statuses(response_id, form_id, role, status, qualified) VALUES (?, ?, ?, ?, ?)`,
		r.ResponseID, r.FormID, r.Role, string(r.Status), r.Qualified)
	if isConstraint(err) {
		return fault.Conflictf("status for %s/%s already exists", r.ResponseID, r.Role)
	}
	return errors.Wrap(err, "insert status")
}

// GetStatus returns the status record for a pair.
func (s *SQLiteStore) GetStatus(ctx context.Context, responseID string, role model.Role) (status.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT response_id, form_id, role, status, qualified FROM statuses WHERE response_id = ? AND role = ?`,
		responseID, string(role))
	return scanStatus(row)
}

func scanStatus(row rowScanner) (status.Record, error) {
	var r status.Record
	var st string
	if err := row.Scan(&r.ResponseID, &r.FormID, &r.Role, &st, &r.Qualified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return status.Record{}, fault.NotFoundf("status record")
		}
		return status.Record{}, errors.Wrap(err, "scan status")
	}
	r.Status = status.Status(st)
	return r, nil
}

// UpdateStatus replaces an existing status record.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, r status.Record) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE statuses SET status = ?, qualified = ? WHERE response_id = ? AND role = ?`,
		string(r.Status), r.Qualified, r.ResponseID, r.Role)
	if err != nil {
		return errors.Wrap(err, "update status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update status rows")
	}
	if n == 0 {
		return fault.NotFoundf("status for %s/%s", r.ResponseID, r.Role)
	}
	return nil
}

// ListStatusesByForm returns all status records for a form.
func (s *SQLiteStore) ListStatusesByForm(ctx context.Context, formID string) ([]status.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT response_id, form_id, role, status, qualified FROM statuses WHERE form_id = ? ORDER BY response_id, role`,
		formID)
	if err != nil {
		return nil, errors.Wrap(err, "query statuses")
	}
	defer rows.Close()

	var out []status.Record
	for rows.Next() {
		r, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate statuses")
}

// CreateConfirmation conditionally inserts a confirmation.
func (s *SQLiteStore) CreateConfirmation(ctx context.Context, c model.ConfirmationRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO confirmations(response_id, id, user_id, decision, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ResponseID, c.ID, c.UserID, string(c.Decision), c.CreatedAt)
	if isConstraint(err) {
		metrics.RecordConfirmationConflict()
		return fault.Conflictf("response %s already confirmed", c.ResponseID)
	}
	if err == nil {
		metrics.RecordConfirmationCreated()
	}
	return errors.Wrap(err, "insert confirmation")
}

// GetConfirmation returns the confirmation for a response id.
func (s *SQLiteStore) GetConfirmation(ctx context.Context, responseID string) (model.ConfirmationRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, response_id, user_id, decision, created_at FROM confirmations WHERE response_id = ?`,
		responseID)
	var c model.ConfirmationRecord
	var dec string
	if err := row.Scan(&c.ID, &c.ResponseID, &c.UserID, &dec, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ConfirmationRecord{}, fault.NotFoundf("confirmation for %s", responseID)
		}
		return model.ConfirmationRecord{}, errors.Wrap(err, "query confirmation")
	}
	c.Decision = model.ConfirmationDecision(dec)
	return c, nil
}
