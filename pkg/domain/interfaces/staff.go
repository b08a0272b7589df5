package interfaces

import (
	"context"

	"github.com/secmon-lab/grievance/pkg/domain/model"
)

// StaffRepository defines the interface for officer account data access
type StaffRepository interface {
	// Create stores a new account. A taken staff ID yields model.ErrAlreadyExists.
	Create(ctx context.Context, s *model.Staff) error

	// Get retrieves an account by staff ID
	Get(ctx context.Context, id string) (*model.Staff, error)
}
