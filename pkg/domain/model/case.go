package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// CaseID is the opaque identifier assigned to a case at filing
type CaseID string

func NewCaseID() CaseID {
	return CaseID(uuid.New().String())
}

func (id CaseID) String() string {
	return string(id)
}

// RefID is the identity a party uses to access its view of a case
type RefID string

func NewRefID() RefID {
	return RefID(uuid.New().String())
}

func (id RefID) String() string {
	return string(id)
}

// Party is the identity of a complainant or respondent
type Party struct {
	Name  string
	Email string
	Phone string
}

// Document is a reference to a submitted file. The content lives in file storage.
type Document struct {
	Name        string
	StoragePath string
	ContentType string
	Size        int64
	UploadedBy  string
	UploadedAt  time.Time
}

// HistoryEntry is one immutable line of the case audit trail
type HistoryEntry struct {
	At     time.Time
	Actor  string
	Action types.HistoryAction
	From   types.Stage
	To     types.Stage
	Note   string
}

// Case is the aggregate composing the current stage, all stage data collected so far
// and the party identities.
type Case struct {
	ID               CaseID
	ComplainantRefID RefID
	RespondentRefID  RefID
	Complainant      Party
	Respondent       Party
	Description      string
	AssignedOfficer  string // staff ID, empty while unassigned

	Stage           types.Stage
	MandateDecision types.MandateDecision
	ClosedReason    types.ClosedReason

	Documents        []Document
	EvidenceRequests []string
	Hearings         []Appointment
	Mediation        *Appointment
	Terms            []string
	MediationOutcome types.MediationOutcome
	FinalNotes       string

	History   []HistoryEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCase creates a case in the initial stage with all optional fields empty
func NewCase(complainant, respondent Party, description string, now time.Time) *Case {
	return &Case{
		ID:               NewCaseID(),
		ComplainantRefID: NewRefID(),
		RespondentRefID:  NewRefID(),
		Complainant:      complainant,
		Respondent:       respondent,
		Description:      description,
		Stage:            types.StageInitial,
		MandateDecision:  types.MandateUndecided,
		MediationOutcome: types.MediationUndecided,
		History: []HistoryEntry{
			{At: now, Actor: types.PartyComplainant.String(), Action: types.HistoryFiled, To: types.StageInitial},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsClosed returns true once the case can no longer be mutated
func (c *Case) IsClosed() bool {
	return c.Stage.IsTerminal()
}

// IsAssigned returns true if an officer has claimed the case
func (c *Case) IsAssigned() bool {
	return c.AssignedOfficer != ""
}

// RoleOf returns the party role owning the given reference ID
func (c *Case) RoleOf(ref RefID) (types.PartyRole, bool) {
	switch {
	case ref == "":
		return "", false
	case ref == c.ComplainantRefID:
		return types.PartyComplainant, true
	case ref == c.RespondentRefID:
		return types.PartyRespondent, true
	default:
		return "", false
	}
}

// HearingFor returns the hearing scheduled for the role, if any
func (c *Case) HearingFor(role types.PartyRole) *Appointment {
	for i := range c.Hearings {
		if c.Hearings[i].Attendee == role {
			return &c.Hearings[i]
		}
	}
	return nil
}

// HasBothHearings reports whether exactly two hearings exist, one per party
func (c *Case) HasBothHearings() bool {
	return len(c.Hearings) == 2 &&
		c.HearingFor(types.PartyComplainant) != nil &&
		c.HearingFor(types.PartyRespondent) != nil
}

// Appointments returns all appointments of the case, hearings first
func (c *Case) Appointments() []*Appointment {
	result := make([]*Appointment, 0, len(c.Hearings)+1)
	for i := range c.Hearings {
		result = append(result, &c.Hearings[i])
	}
	if c.Mediation != nil {
		result = append(result, c.Mediation)
	}
	return result
}

// Appointment finds an appointment of the case by ID
func (c *Case) Appointment(id AppointmentID) *Appointment {
	for _, a := range c.Appointments() {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (c *Case) record(now time.Time, actor string, action types.HistoryAction, from, to types.Stage, note string) {
	c.History = append(c.History, HistoryEntry{
		At:     now,
		Actor:  actor,
		Action: action,
		From:   from,
		To:     to,
		Note:   note,
	})
	c.UpdatedAt = now
}

// Clone creates a deep copy of the case
func (c *Case) Clone() *Case {
	copied := *c

	copied.Documents = append([]Document(nil), c.Documents...)
	copied.EvidenceRequests = append([]string(nil), c.EvidenceRequests...)
	copied.Terms = append([]string(nil), c.Terms...)
	copied.History = append([]HistoryEntry(nil), c.History...)

	if c.Hearings != nil {
		copied.Hearings = make([]Appointment, len(c.Hearings))
		for i := range c.Hearings {
			copied.Hearings[i] = *c.Hearings[i].Clone()
		}
	}
	if c.Mediation != nil {
		copied.Mediation = c.Mediation.Clone()
	}

	return &copied
}
