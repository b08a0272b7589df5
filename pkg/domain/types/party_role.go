package types

import "fmt"

// PartyRole identifies one side of a case
type PartyRole string

const (
	PartyComplainant PartyRole = "complainant"
	PartyRespondent  PartyRole = "respondent"
)

// AllPartyRoles returns all valid party roles
func AllPartyRoles() []PartyRole {
	return []PartyRole{
		PartyComplainant,
		PartyRespondent,
	}
}

// IsValid checks if the party role is valid
func (r PartyRole) IsValid() bool {
	switch r {
	case PartyComplainant,
		PartyRespondent:
		return true
	default:
		return false
	}
}

// Other returns the opposing role
func (r PartyRole) Other() PartyRole {
	if r == PartyComplainant {
		return PartyRespondent
	}
	return PartyComplainant
}

func (r PartyRole) String() string {
	return string(r)
}

// ParsePartyRole parses a string into a PartyRole
func ParsePartyRole(s string) (PartyRole, error) {
	role := PartyRole(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid party role: %s", s)
	}
	return role, nil
}
