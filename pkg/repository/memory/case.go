package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
)

type caseRepository struct {
	mu    sync.RWMutex
	cases map[model.CaseID]*model.Case
	refs  map[model.RefID]model.CaseID
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases: make(map[model.CaseID]*model.Case),
		refs:  make(map[model.RefID]model.CaseID),
	}
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	if c.ID == "" {
		return nil, goerr.New("case ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[c.ID]; exists {
		return nil, goerr.Wrap(model.ErrAlreadyExists, "case already exists", goerr.V("id", c.ID))
	}

	created := c.Clone()
	r.cases[created.ID] = created
	r.index(created)

	return created.Clone(), nil
}

func (r *caseRepository) index(c *model.Case) {
	if c.ComplainantRefID != "" {
		r.refs[c.ComplainantRefID] = c.ID
	}
	if c.RespondentRefID != "" {
		r.refs[c.RespondentRefID] = c.ID
	}
}

func (r *caseRepository) Get(ctx context.Context, id model.CaseID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("id", id))
	}

	return c.Clone(), nil
}

func (r *caseRepository) GetByRefID(ctx context.Context, ref model.RefID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.refs[ref]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("ref_id", ref))
	}

	return r.cases[id].Clone(), nil
}

func (r *caseRepository) GetByAppointmentID(ctx context.Context, id model.AppointmentID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.cases {
		if c.Appointment(id) != nil {
			return c.Clone(), nil
		}
	}

	return nil, goerr.Wrap(model.ErrNotFound, "appointment not found", goerr.V("appointment_id", id))
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	cases := make([]*model.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if s := cfg.Stage(); s != nil && c.Stage != *s {
			continue
		}
		if cfg.Unassigned() && c.IsAssigned() {
			continue
		}
		if o := cfg.Officer(); o != nil && c.AssignedOfficer != *o {
			continue
		}
		cases = append(cases, c.Clone())
	}

	sort.Slice(cases, func(i, j int) bool {
		if cases[i].CreatedAt.Equal(cases[j].CreatedAt) {
			return cases[i].ID < cases[j].ID
		}
		return cases[i].CreatedAt.After(cases[j].CreatedAt)
	})

	return cases, nil
}

func (r *caseRepository) Put(ctx context.Context, c *model.Case) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cases[c.ID]; !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V("id", c.ID))
	}

	updated := c.Clone()
	r.cases[updated.ID] = updated
	r.index(updated)

	return updated.Clone(), nil
}
