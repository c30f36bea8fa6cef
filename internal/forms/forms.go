// Package forms holds the published form definitions: per-role rubric
// weight tables, the reviewer roster, and the decision-release flag.
//
// Definitions are authored outside this service and loaded from YAML at
// startup; the only mutable bit during a cycle is the release flag.
package forms

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
	"github.com/cadre-hq/cadre/internal/domain/rubric"
)

// Definition is one published form.
type Definition struct {
	ID string `yaml:"id"`

	// Weights maps role -> criterion key -> linear coefficient.
	Weights map[string]map[string]float64 `yaml:"weights"`

	// Reviewers lists user ids eligible for review assignments.
	Reviewers []string `yaml:"reviewers"`

	// Interviewers lists user ids eligible for interview assignments.
	Interviewers []string `yaml:"interviewers"`

	// DecisionsReleased gates applicant-facing decision visibility.
	DecisionsReleased bool `yaml:"decisions_released"`
}

// Registry provides lookup over loaded definitions. Safe for concurrent
// use; the release flag is the only field mutated after load.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Definition
}

// NewRegistry builds a registry from definitions.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{forms: make(map[string]*Definition, len(defs))}
	for i := range defs {
		d := defs[i]
		r.forms[d.ID] = &d
	}
	return r
}

// LoadFile reads form definitions from a YAML file.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.NotFoundf("form definitions: %v", err)
	}
	var doc struct {
		Forms []Definition `yaml:"forms"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fault.Validationf("form definitions: %v", err)
	}
	return NewRegistry(doc.Forms...), nil
}

// WeightsFor returns the rubric weight table for a role, or nil when the
// form has no table for it. A missing form is an error; a missing table is
// the aggregator's documented mean fallback.
func (r *Registry) WeightsFor(formID string, role model.Role) (rubric.Weights, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.forms[formID]
	if !ok {
		return nil, fault.NotFoundf("form %s", formID)
	}
	w, ok := d.Weights[string(role)]
	if !ok {
		return nil, nil
	}
	out := make(rubric.Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out, nil
}

// DecisionsReleased reports the form's release flag.
func (r *Registry) DecisionsReleased(formID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.forms[formID]
	if !ok {
		return false, fault.NotFoundf("form %s", formID)
	}
	return d.DecisionsReleased, nil
}

// SetReleased flips the form's release flag.
func (r *Registry) SetReleased(formID string, released bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.forms[formID]
	if !ok {
		return fault.NotFoundf("form %s", formID)
	}
	d.DecisionsReleased = released
	return nil
}

// Assignees returns the eligible assignee pool for an assignment kind.
func (r *Registry) Assignees(formID string, kind model.AssignmentKind) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.forms[formID]
	if !ok {
		return nil, fault.NotFoundf("form %s", formID)
	}
	var pool []string
	if kind == model.KindInterview {
		pool = d.Interviewers
	} else {
		pool = d.Reviewers
	}
	out := make([]string, len(pool))
	copy(out, pool)
	return out, nil
}
