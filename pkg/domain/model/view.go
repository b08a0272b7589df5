package model

import (
	"time"

	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// CaseView is a role-scoped projection of a case. Officers get everything; a party
// only sees its own reference ID, its own hearing and the items it must bring.
type CaseView struct {
	ID               CaseID
	Role             types.PartyRole // empty for the officer view
	RefID            RefID
	Complainant      Party
	Respondent       Party
	Description      string
	AssignedOfficer  string
	Stage            types.Stage
	MandateDecision  types.MandateDecision
	ClosedReason     types.ClosedReason
	Documents        []Document
	EvidenceRequests []string
	Hearings         []Appointment
	Mediation        *Appointment
	Terms            []string
	MediationOutcome types.MediationOutcome
	FinalNotes       string
	History          []HistoryEntry
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OfficerView returns the unrestricted projection used by staff
func (c *Case) OfficerView() *CaseView {
	cl := c.Clone()
	return &CaseView{
		ID:               cl.ID,
		Complainant:      cl.Complainant,
		Respondent:       cl.Respondent,
		Description:      cl.Description,
		AssignedOfficer:  cl.AssignedOfficer,
		Stage:            cl.Stage,
		MandateDecision:  cl.MandateDecision,
		ClosedReason:     cl.ClosedReason,
		Documents:        cl.Documents,
		EvidenceRequests: cl.EvidenceRequests,
		Hearings:         cl.Hearings,
		Mediation:        cl.Mediation,
		Terms:            cl.Terms,
		MediationOutcome: cl.MediationOutcome,
		FinalNotes:       cl.FinalNotes,
		History:          cl.History,
		CreatedAt:        cl.CreatedAt,
		UpdatedAt:        cl.UpdatedAt,
	}
}

// Project returns the view of the case as seen by one party
func (c *Case) Project(role types.PartyRole) *CaseView {
	cl := c.Clone()
	view := &CaseView{
		ID:               cl.ID,
		Role:             role,
		Complainant:      cl.Complainant,
		Respondent:       cl.Respondent,
		Description:      cl.Description,
		Stage:            cl.Stage,
		MandateDecision:  cl.MandateDecision,
		ClosedReason:     cl.ClosedReason,
		Documents:        cl.Documents,
		EvidenceRequests: cl.EvidenceRequests,
		Terms:            cl.Terms,
		MediationOutcome: cl.MediationOutcome,
		FinalNotes:       cl.FinalNotes,
		CreatedAt:        cl.CreatedAt,
		UpdatedAt:        cl.UpdatedAt,
	}

	if role == types.PartyComplainant {
		view.RefID = cl.ComplainantRefID
	} else {
		view.RefID = cl.RespondentRefID
	}

	if h := cl.HearingFor(role); h != nil {
		view.Hearings = []Appointment{*h}
	}
	if cl.Mediation != nil {
		m := cl.Mediation
		if role == types.PartyComplainant {
			m.ItemsForRespondent = nil
		} else {
			m.ItemsForComplainant = nil
		}
		view.Mediation = m
	}

	view.History = make([]HistoryEntry, 0, len(cl.History))
	for _, h := range cl.History {
		if h.Actor != types.PartyComplainant.String() && h.Actor != types.PartyRespondent.String() {
			h.Actor = ""
		}
		view.History = append(view.History, h)
	}

	return view
}
