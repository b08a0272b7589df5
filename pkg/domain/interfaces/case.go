package interfaces

import (
	"context"

	"github.com/secmon-lab/grievance/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access.
// Put replaces the whole aggregate; concurrent writers are last-write-wins.
type CaseRepository interface {
	// Create stores a newly filed case. The ID must be unused.
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id model.CaseID) (*model.Case, error)

	// GetByRefID retrieves a case by the reference ID of either party
	GetByRefID(ctx context.Context, ref model.RefID) (*model.Case, error)

	// GetByAppointmentID retrieves the case owning the appointment
	GetByAppointmentID(ctx context.Context, id model.AppointmentID) (*model.Case, error)

	// List retrieves cases with optional filtering, newest first
	List(ctx context.Context, opts ...ListCaseOption) ([]*model.Case, error)

	// Put overwrites an existing case
	Put(ctx context.Context, c *model.Case) (*model.Case, error)
}
