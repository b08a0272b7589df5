package types

import "fmt"

// Stage represents one phase of the fixed case lifecycle
type Stage string

const (
	StageInitial       Stage = "initial"
	StageInvestigation Stage = "investigation"
	StageHearing       Stage = "hearing"
	StageMediation     Stage = "mediation"
	StageDecision      Stage = "decision"
	StageResolved      Stage = "resolved"
)

// AllStages returns all stages in lifecycle order
func AllStages() []Stage {
	return []Stage{
		StageInitial,
		StageInvestigation,
		StageHearing,
		StageMediation,
		StageDecision,
		StageResolved,
	}
}

// IsValid checks if the stage is valid
func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the position of the stage in the lifecycle, or -1 for an unknown stage
func (s Stage) Index() int {
	for i, stage := range AllStages() {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage immediately after s. The second value is false for
// the terminal stage and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	idx := s.Index()
	stages := AllStages()
	if idx < 0 || idx+1 >= len(stages) {
		return "", false
	}
	return stages[idx+1], true
}

// IsBefore reports whether s comes strictly before other in the lifecycle
func (s Stage) IsBefore(other Stage) bool {
	return s.IsValid() && other.IsValid() && s.Index() < other.Index()
}

// IsTerminal returns true if no further stage follows
func (s Stage) IsTerminal() bool {
	return s == StageResolved
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// ParseStage parses a string into a Stage
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid stage: %s", s)
	}
	return stage, nil
}
