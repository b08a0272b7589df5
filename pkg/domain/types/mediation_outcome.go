package types

import "fmt"

// MediationOutcome records whether mediation produced an agreement
type MediationOutcome string

const (
	MediationUndecided MediationOutcome = "undecided"
	MediationSucceeded MediationOutcome = "succeeded"
	MediationFailed    MediationOutcome = "failed"
)

// AllMediationOutcomes returns all valid mediation outcomes
func AllMediationOutcomes() []MediationOutcome {
	return []MediationOutcome{
		MediationUndecided,
		MediationSucceeded,
		MediationFailed,
	}
}

// IsValid checks if the mediation outcome is valid
func (o MediationOutcome) IsValid() bool {
	switch o {
	case MediationUndecided,
		MediationSucceeded,
		MediationFailed:
		return true
	default:
		return false
	}
}

// IsDecided returns true for succeeded or failed
func (o MediationOutcome) IsDecided() bool {
	return o == MediationSucceeded || o == MediationFailed
}

// Normalize treats empty as MediationUndecided
func (o MediationOutcome) Normalize() MediationOutcome {
	if o == "" {
		return MediationUndecided
	}
	return o
}

func (o MediationOutcome) String() string {
	return string(o)
}

// ParseMediationOutcome parses a string into a MediationOutcome
func ParseMediationOutcome(s string) (MediationOutcome, error) {
	o := MediationOutcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid mediation outcome: %s", s)
	}
	return o, nil
}
