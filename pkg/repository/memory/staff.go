package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
)

type staffRepository struct {
	mu    sync.RWMutex
	staff map[string]*model.Staff
}

func newStaffRepository() *staffRepository {
	return &staffRepository{
		staff: make(map[string]*model.Staff),
	}
}

func (r *staffRepository) Create(ctx context.Context, s *model.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.staff[s.ID]; exists {
		return goerr.Wrap(model.ErrAlreadyExists, "staff already exists", goerr.V("staff_id", s.ID))
	}

	copied := *s
	r.staff[s.ID] = &copied
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id string) (*model.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.staff[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "staff not found", goerr.V("staff_id", id))
	}

	copied := *s
	return &copied, nil
}
