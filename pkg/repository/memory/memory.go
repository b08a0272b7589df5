package memory

import (
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	caseRepo *caseRepository
	staff    *staffRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		caseRepo: newCaseRepository(),
		staff:    newStaffRepository(),
	}
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Staff() interfaces.StaffRepository {
	return m.staff
}

func (m *Memory) Close() error {
	return nil
}
