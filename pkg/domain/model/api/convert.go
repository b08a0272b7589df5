package api

import (
	"github.com/secmon-lab/grievance/pkg/domain/model"
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

func NewParty(p model.Party) Party {
	return Party{Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func (p Party) Model() model.Party {
	return model.Party{Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func NewAppointment(a *model.Appointment) Appointment {
	out := Appointment{
		ID:                   a.ID.String(),
		Kind:                 a.Kind,
		Date:                 a.Date,
		Time:                 a.Time,
		Venue:                a.Venue,
		Purpose:              a.Purpose,
		Attendee:             a.Attendee,
		ComplainantAttending: a.ComplainantAttending,
		RespondentAttending:  a.RespondentAttending,
		ItemsForComplainant:  nonNil(a.ItemsForComplainant),
		ItemsForRespondent:   nonNil(a.ItemsForRespondent),
	}
	if r := a.RequestedReschedule; r != nil {
		out.RequestedReschedule = &RescheduleRequest{
			Date:        r.Date,
			Time:        r.Time,
			RequestedBy: r.RequestedBy,
			RequestedAt: r.RequestedAt,
		}
	}
	return out
}

func (a Appointment) Model() model.Appointment {
	out := model.Appointment{
		ID:                   model.AppointmentID(a.ID),
		Kind:                 a.Kind,
		Date:                 a.Date,
		Time:                 a.Time,
		Venue:                a.Venue,
		Purpose:              a.Purpose,
		Attendee:             a.Attendee,
		ComplainantAttending: a.ComplainantAttending,
		RespondentAttending:  a.RespondentAttending,
		ItemsForComplainant:  a.ItemsForComplainant,
		ItemsForRespondent:   a.ItemsForRespondent,
	}
	if r := a.RequestedReschedule; r != nil {
		out.RequestedReschedule = &model.RescheduleRequest{
			Date:        r.Date,
			Time:        r.Time,
			RequestedBy: r.RequestedBy,
			RequestedAt: r.RequestedAt,
		}
	}
	return out
}

func newDocuments(docs []model.Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Document{
			Name:        d.Name,
			StoragePath: d.StoragePath,
			ContentType: d.ContentType,
			Size:        d.Size,
			UploadedBy:  d.UploadedBy,
			UploadedAt:  d.UploadedAt,
		})
	}
	return out
}

func newHistory(entries []model.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, h := range entries {
		out = append(out, HistoryEntry{At: h.At, Actor: h.Actor, Action: h.Action, From: h.From, To: h.To, Note: h.Note})
	}
	return out
}

func newHearings(hearings []model.Appointment) []Appointment {
	out := make([]Appointment, 0, len(hearings))
	for i := range hearings {
		out = append(out, NewAppointment(&hearings[i]))
	}
	return out
}

// NewCase builds the officer document including both reference IDs
func NewCase(c *model.Case) Case {
	out := fromView(c.OfficerView())
	out.ComplainantRefID = c.ComplainantRefID.String()
	out.RespondentRefID = c.RespondentRefID.String()
	return out
}

// NewCaseView builds the document of a role-scoped view
func NewCaseView(v *model.CaseView) Case {
	return fromView(v)
}

func fromView(v *model.CaseView) Case {
	out := Case{
		ID:               v.ID.String(),
		Role:             v.Role,
		RefID:            v.RefID.String(),
		Complainant:      NewParty(v.Complainant),
		Respondent:       NewParty(v.Respondent),
		Description:      v.Description,
		AssignedOfficer:  v.AssignedOfficer,
		Stage:            v.Stage,
		MandateDecision:  v.MandateDecision,
		ClosedReason:     v.ClosedReason,
		Documents:        newDocuments(v.Documents),
		EvidenceRequests: nonNil(v.EvidenceRequests),
		Hearings:         newHearings(v.Hearings),
		Terms:            nonNil(v.Terms),
		MediationOutcome: v.MediationOutcome,
		FinalNotes:       v.FinalNotes,
		History:          newHistory(v.History),
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
	if v.Mediation != nil {
		m := NewAppointment(v.Mediation)
		out.Mediation = &m
	}
	return out
}

// View converts the document back into a case view
func (c Case) View() *model.CaseView {
	v := &model.CaseView{
		ID:               model.CaseID(c.ID),
		Role:             c.Role,
		RefID:            model.RefID(c.RefID),
		Complainant:      c.Complainant.Model(),
		Respondent:       c.Respondent.Model(),
		Description:      c.Description,
		AssignedOfficer:  c.AssignedOfficer,
		Stage:            c.Stage,
		MandateDecision:  c.MandateDecision,
		ClosedReason:     c.ClosedReason,
		EvidenceRequests: c.EvidenceRequests,
		Terms:            c.Terms,
		MediationOutcome: c.MediationOutcome,
		FinalNotes:       c.FinalNotes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	for _, d := range c.Documents {
		v.Documents = append(v.Documents, model.Document{
			Name:        d.Name,
			StoragePath: d.StoragePath,
			ContentType: d.ContentType,
			Size:        d.Size,
			UploadedBy:  d.UploadedBy,
			UploadedAt:  d.UploadedAt,
		})
	}
	for _, h := range c.Hearings {
		v.Hearings = append(v.Hearings, h.Model())
	}
	if c.Mediation != nil {
		m := c.Mediation.Model()
		v.Mediation = &m
	}
	for _, h := range c.History {
		v.History = append(v.History, model.HistoryEntry{At: h.At, Actor: h.Actor, Action: h.Action, From: h.From, To: h.To, Note: h.Note})
	}
	return v
}

func NewCaseSummary(c *model.Case) CaseSummary {
	return CaseSummary{
		ID:          c.ID.String(),
		Complainant: c.Complainant.Name,
		Respondent:  c.Respondent.Name,
		Description: c.Description,
		Stage:       c.Stage,
		CreatedAt:   c.CreatedAt,
	}
}

// Model rebuilds the case aggregate from an officer document
func (c Case) Model() *model.Case {
	v := c.View()
	return &model.Case{
		ID:               v.ID,
		ComplainantRefID: model.RefID(c.ComplainantRefID),
		RespondentRefID:  model.RefID(c.RespondentRefID),
		Complainant:      v.Complainant,
		Respondent:       v.Respondent,
		Description:      v.Description,
		AssignedOfficer:  v.AssignedOfficer,
		Stage:            v.Stage,
		MandateDecision:  v.MandateDecision,
		ClosedReason:     v.ClosedReason,
		Documents:        v.Documents,
		EvidenceRequests: v.EvidenceRequests,
		Hearings:         v.Hearings,
		Mediation:        v.Mediation,
		Terms:            v.Terms,
		MediationOutcome: v.MediationOutcome,
		FinalNotes:       v.FinalNotes,
		History:          v.History,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}
