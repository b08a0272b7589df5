package types

import "fmt"

// MandateDecision is the officer ruling on whether a complaint falls within jurisdiction
type MandateDecision string

const (
	MandateUndecided MandateDecision = "undecided"
	MandateWithin    MandateDecision = "within"
	MandateOutside   MandateDecision = "outside"
)

// AllMandateDecisions returns all valid mandate decisions
func AllMandateDecisions() []MandateDecision {
	return []MandateDecision{
		MandateUndecided,
		MandateWithin,
		MandateOutside,
	}
}

// IsValid checks if the mandate decision is valid
func (d MandateDecision) IsValid() bool {
	switch d {
	case MandateUndecided,
		MandateWithin,
		MandateOutside:
		return true
	default:
		return false
	}
}

// Normalize treats empty as MandateUndecided
func (d MandateDecision) Normalize() MandateDecision {
	if d == "" {
		return MandateUndecided
	}
	return d
}

func (d MandateDecision) String() string {
	return string(d)
}

// ParseMandateDecision parses a string into a MandateDecision
func ParseMandateDecision(s string) (MandateDecision, error) {
	d := MandateDecision(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid mandate decision: %s", s)
	}
	return d, nil
}

// ParseMandateFlag parses the "True"/"False" wire form used by the mandate form.
// "True" means the complaint is within mandate.
func ParseMandateFlag(s string) (MandateDecision, error) {
	switch s {
	case "True", "true":
		return MandateWithin, nil
	case "False", "false":
		return MandateOutside, nil
	default:
		return "", fmt.Errorf("invalid mandate flag: %s", s)
	}
}

// Flag returns the "True"/"False" wire form of a decided mandate
func (d MandateDecision) Flag() string {
	if d == MandateWithin {
		return "True"
	}
	return "False"
}
