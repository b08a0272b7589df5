package interfaces

import "github.com/secmon-lab/grievance/pkg/domain/types"

// ListCaseOption is a functional option for filtering cases in List
type ListCaseOption func(*listCaseConfig)

type listCaseConfig struct {
	stage      *types.Stage
	unassigned bool
	officer    *string
}

// WithStage filters cases by stage
func WithStage(stage types.Stage) ListCaseOption {
	return func(c *listCaseConfig) {
		c.stage = &stage
	}
}

// WithUnassigned keeps only cases no officer has claimed
func WithUnassigned() ListCaseOption {
	return func(c *listCaseConfig) {
		c.unassigned = true
	}
}

// WithOfficer keeps only cases assigned to the staff member
func WithOfficer(staffID string) ListCaseOption {
	return func(c *listCaseConfig) {
		c.officer = &staffID
	}
}

// BuildListCaseConfig builds a listCaseConfig from options
func BuildListCaseConfig(opts ...ListCaseOption) *listCaseConfig {
	cfg := &listCaseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Stage returns the stage filter value, or nil if not set
func (c *listCaseConfig) Stage() *types.Stage {
	return c.stage
}

// Unassigned reports whether only unassigned cases are requested
func (c *listCaseConfig) Unassigned() bool {
	return c.unassigned
}

// Officer returns the officer filter value, or nil if not set
func (c *listCaseConfig) Officer() *string {
	return c.officer
}
