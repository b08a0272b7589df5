package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// Every function in this file is pure with respect to its input: it works on a
// clone and returns the new case, so a failed operation never partially applies.

// HearingDraft is the officer's hearing form. PendingItem holds item text typed
// into the input box but not yet added to Items.
type HearingDraft struct {
	Attendee    types.PartyRole
	Date        string
	Time        string
	Venue       string
	Purpose     string
	Items       []string
	PendingItem string
}

// StagePayload carries stage data merged into the case when it advances.
// Only the fields belonging to the stage being completed may be set.
type StagePayload struct {
	EvidenceRequests []string
	Documents        []Document
	Mediation        *Appointment
	Outcome          types.MediationOutcome
	Terms            []string
	FinalNotes       string
}

func (p StagePayload) hasInvestigationData() bool {
	return len(p.EvidenceRequests) > 0 || len(p.Documents) > 0
}

func (p StagePayload) hasDecisionData() bool {
	return p.Outcome.IsDecided() || len(p.Terms) > 0 || strings.TrimSpace(p.FinalNotes) != ""
}

func ensureOpen(c *Case) error {
	if c.IsClosed() {
		return goerr.Wrap(ErrCaseClosed, "case can no longer be modified",
			goerr.V(StageKey, c.Stage), goerr.V("closed_reason", c.ClosedReason))
	}
	return nil
}

// CheckStage returns an error unless the case is open and in the given stage
func CheckStage(c *Case, stage types.Stage) error {
	return ensureStage(c, stage)
}

func ensureStage(c *Case, stage types.Stage) error {
	if err := ensureOpen(c); err != nil {
		return err
	}
	if c.Stage != stage {
		return goerr.Wrap(ErrWrongStage, "operation requires a different stage",
			goerr.V(StageKey, c.Stage), goerr.V("required_stage", stage))
	}
	return nil
}

// DecideMandate applies the initial jurisdiction ruling. Within moves the case to
// investigation, outside closes it immediately and undecided keeps it in the
// initial stage where the decision may be overwritten.
func DecideMandate(c *Case, decision types.MandateDecision, actor string, now time.Time) (*Case, error) {
	if !decision.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid mandate decision",
			goerr.V(FieldKey, "mandate_decision"), goerr.V("decision", decision))
	}
	if err := ensureOpen(c); err != nil {
		return nil, err
	}
	if c.Stage != types.StageInitial {
		return nil, goerr.Wrap(ErrInvalidTransition, "mandate can only be decided in the initial stage",
			goerr.V(StageKey, c.Stage))
	}

	out := c.Clone()
	out.MandateDecision = decision

	switch decision {
	case types.MandateWithin:
		out.Stage = types.StageInvestigation
	case types.MandateOutside:
		out.Stage = types.StageResolved
		out.ClosedReason = types.ClosedReasonOutsideMandate
	}

	out.record(now, actor, types.HistoryMandateDecided, c.Stage, out.Stage, decision.String())
	return out, nil
}

// AssignOfficer lets a staff member claim an unassigned case
func AssignOfficer(c *Case, staffID string, now time.Time) (*Case, error) {
	if strings.TrimSpace(staffID) == "" {
		return nil, goerr.Wrap(ErrValidation, "staff ID is required", goerr.V(FieldKey, "staff_id"))
	}
	if err := ensureOpen(c); err != nil {
		return nil, err
	}
	if c.IsAssigned() && c.AssignedOfficer != staffID {
		return nil, goerr.Wrap(ErrValidation, "case is already assigned",
			goerr.V(FieldKey, "case_id"), goerr.V("assigned_officer", c.AssignedOfficer))
	}

	out := c.Clone()
	out.AssignedOfficer = staffID
	out.record(now, staffID, types.HistoryAssigned, c.Stage, c.Stage, "")
	return out, nil
}

// AddEvidenceRequest appends an officer-authored evidence request
func AddEvidenceRequest(c *Case, request, actor string, now time.Time) (*Case, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, goerr.Wrap(ErrValidation, "evidence request text is required", goerr.V(FieldKey, "request"))
	}
	if err := ensureStage(c, types.StageInvestigation); err != nil {
		return nil, err
	}

	out := c.Clone()
	out.EvidenceRequests = append(out.EvidenceRequests, request)
	out.record(now, actor, types.HistoryEvidenceRequested, c.Stage, c.Stage, request)
	return out, nil
}

// AddDocuments appends uploaded document references during investigation
func AddDocuments(c *Case, docs []Document, actor string, now time.Time) (*Case, error) {
	if len(docs) == 0 {
		return nil, goerr.Wrap(ErrValidation, "at least one document is required", goerr.V(FieldKey, "files"))
	}
	if err := ensureStage(c, types.StageInvestigation); err != nil {
		return nil, err
	}

	out := c.Clone()
	out.Documents = append(out.Documents, docs...)
	out.record(now, actor, types.HistoryDocumentsAdded, c.Stage, c.Stage, "")
	return out, nil
}

// AddHearing schedules the hearing of one party. A party can have at most one
// hearing; the case stays in the hearing stage until both are scheduled.
func AddHearing(c *Case, draft HearingDraft, actor string, now time.Time) (*Case, error) {
	if err := ensureStage(c, types.StageHearing); err != nil {
		return nil, err
	}
	if !draft.Attendee.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "attendee must be complainant or respondent",
			goerr.V(FieldKey, "attendee"), goerr.V(RoleKey, draft.Attendee))
	}
	if existing := c.HearingFor(draft.Attendee); existing != nil {
		return nil, goerr.Wrap(ErrDuplicateHearing, "hearing already scheduled for party",
			goerr.V(RoleKey, draft.Attendee), goerr.V(AppointmentIDKey, existing.ID))
	}
	if err := validateSlot(draft.Date, draft.Time, draft.Venue); err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.PendingItem) != "" {
		return nil, goerr.Wrap(ErrUnsavedInput, "add or clear the pending item before saving",
			goerr.V(FieldKey, "item"), goerr.V(RoleKey, draft.Attendee))
	}

	hearing := Appointment{
		ID:       NewAppointmentID(),
		Kind:     types.AppointmentHearing,
		Date:     strings.TrimSpace(draft.Date),
		Time:     strings.TrimSpace(draft.Time),
		Venue:    strings.TrimSpace(draft.Venue),
		Purpose:  strings.TrimSpace(draft.Purpose),
		Attendee: draft.Attendee,
	}
	items := cleanItems(draft.Items)
	if draft.Attendee == types.PartyComplainant {
		hearing.ItemsForComplainant = items
	} else {
		hearing.ItemsForRespondent = items
	}

	out := c.Clone()
	out.Hearings = append(out.Hearings, hearing)
	out.record(now, actor, types.HistoryHearingScheduled, c.Stage, c.Stage, draft.Attendee.String())
	return out, nil
}

// ScheduleMediation sets the mediation session. An existing session may only be
// replaced while neither party has recorded attendance.
func ScheduleMediation(c *Case, appt Appointment, actor string, now time.Time) (*Case, error) {
	if err := ensureStage(c, types.StageMediation); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := setMediation(out, appt); err != nil {
		return nil, err
	}
	out.record(now, actor, types.HistoryMediationScheduled, c.Stage, c.Stage, "")
	return out, nil
}

func setMediation(c *Case, appt Appointment) error {
	if err := validateSlot(appt.Date, appt.Time, appt.Venue); err != nil {
		return err
	}
	if cur := c.Mediation; cur != nil && (cur.ComplainantAttending != nil || cur.RespondentAttending != nil) {
		return goerr.Wrap(ErrAttendanceFinalized, "mediation attendance already recorded",
			goerr.V(AppointmentIDKey, cur.ID))
	}
	if cur := c.Mediation; cur != nil && cur.RequestedReschedule != nil {
		return goerr.Wrap(ErrReschedulePending, "resolve the pending reschedule request first",
			goerr.V(AppointmentIDKey, cur.ID), goerr.V("requested_by", cur.RequestedReschedule.RequestedBy))
	}

	m := appt.Clone()
	if c.Mediation != nil {
		m.ID = c.Mediation.ID
	} else if m.ID == "" {
		m.ID = NewAppointmentID()
	}
	m.Kind = types.AppointmentMediation
	m.Attendee = ""
	m.Date = strings.TrimSpace(m.Date)
	m.Time = strings.TrimSpace(m.Time)
	m.Venue = strings.TrimSpace(m.Venue)
	m.ComplainantAttending = nil
	m.RespondentAttending = nil
	m.RequestedReschedule = nil
	m.ItemsForComplainant = cleanItems(m.ItemsForComplainant)
	m.ItemsForRespondent = cleanItems(m.ItemsForRespondent)
	c.Mediation = m
	return nil
}

// RecordDecision stages the mediation outcome, terms and final notes before the
// case is resolved.
func RecordDecision(c *Case, outcome types.MediationOutcome, terms []string, notes, actor string, now time.Time) (*Case, error) {
	if err := ensureStage(c, types.StageDecision); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := mergeDecision(out, outcome, terms, notes); err != nil {
		return nil, err
	}
	out.record(now, actor, types.HistoryDecisionRecorded, c.Stage, c.Stage, out.MediationOutcome.String())
	return out, nil
}

func mergeDecision(c *Case, outcome types.MediationOutcome, terms []string, notes string) error {
	outcome = outcome.Normalize()
	if !outcome.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid mediation outcome",
			goerr.V(FieldKey, "outcome"), goerr.V("outcome", outcome))
	}
	cleaned := cleanItems(terms)
	if outcome.IsDecided() {
		c.MediationOutcome = outcome
		if outcome == types.MediationFailed && len(cleaned) == 0 {
			c.Terms = nil
		}
	}
	if len(cleaned) > 0 {
		c.Terms = cleaned
	}
	if n := strings.TrimSpace(notes); n != "" {
		c.FinalNotes = n
	}

	if c.MediationOutcome != types.MediationSucceeded && len(c.Terms) > 0 {
		return goerr.Wrap(ErrValidation, "terms are only recorded when mediation succeeded",
			goerr.V(FieldKey, "terms"), goerr.V("outcome", c.MediationOutcome))
	}
	return nil
}

func checkResolvable(c *Case) error {
	if !c.MediationOutcome.IsDecided() {
		return goerr.Wrap(ErrIncompleteStage, "mediation outcome is required", goerr.V(FieldKey, "outcome"))
	}
	if c.MediationOutcome == types.MediationSucceeded && len(c.Terms) == 0 {
		return goerr.Wrap(ErrIncompleteStage, "terms are required when mediation succeeded", goerr.V(FieldKey, "terms"))
	}
	if strings.TrimSpace(c.FinalNotes) == "" {
		return goerr.Wrap(ErrIncompleteStage, "final notes are required", goerr.V(FieldKey, "final_notes"))
	}
	return nil
}

// Advance moves the case to the next stage after merging the payload and checking
// the data required by the stage being completed. Only the forward-adjacent stage
// is reachable; closing on an outside mandate goes through DecideMandate.
func Advance(c *Case, target types.Stage, payload StagePayload, actor string, now time.Time) (*Case, error) {
	if err := ensureOpen(c); err != nil {
		return nil, err
	}
	next, ok := c.Stage.Next()
	if !target.IsValid() || !ok || next != target {
		return nil, goerr.Wrap(ErrInvalidTransition, "target stage is not reachable",
			goerr.V(StageKey, c.Stage), goerr.V(TargetStageKey, target))
	}

	if payload.hasInvestigationData() && c.Stage != types.StageInvestigation {
		return nil, goerr.Wrap(ErrValidation, "investigation data can only be merged when leaving investigation",
			goerr.V(StageKey, c.Stage))
	}
	if payload.Mediation != nil && c.Stage != types.StageMediation {
		return nil, goerr.Wrap(ErrValidation, "mediation data can only be merged when leaving mediation",
			goerr.V(StageKey, c.Stage))
	}
	if payload.hasDecisionData() && c.Stage != types.StageDecision {
		return nil, goerr.Wrap(ErrValidation, "decision data can only be merged when leaving decision",
			goerr.V(StageKey, c.Stage))
	}

	out := c.Clone()

	switch c.Stage {
	case types.StageInitial:
		if out.MandateDecision != types.MandateWithin {
			return nil, goerr.Wrap(ErrIncompleteStage, "mandate decision is required", goerr.V(FieldKey, "mandate_decision"))
		}

	case types.StageInvestigation:
		out.EvidenceRequests = append(out.EvidenceRequests, cleanItems(payload.EvidenceRequests)...)
		out.Documents = append(out.Documents, payload.Documents...)

	case types.StageHearing:
		if !out.HasBothHearings() {
			return nil, goerr.Wrap(ErrIncompleteStage, "both parties need a hearing before mediation",
				goerr.V("hearings", len(out.Hearings)))
		}

	case types.StageMediation:
		if payload.Mediation != nil && (out.Mediation == nil || !out.Mediation.IsScheduled()) {
			if err := setMediation(out, *payload.Mediation); err != nil {
				return nil, err
			}
		}
		if out.Mediation == nil || !out.Mediation.IsScheduled() {
			return nil, goerr.Wrap(ErrIncompleteStage, "mediation needs a date, time and venue")
		}

	case types.StageDecision:
		if err := mergeDecision(out, payload.Outcome, payload.Terms, payload.FinalNotes); err != nil {
			return nil, err
		}
		if err := checkResolvable(out); err != nil {
			return nil, err
		}
		out.ClosedReason = types.ClosedReasonDecided
	}

	out.Stage = target
	out.record(now, actor, types.HistoryStageAdvanced, c.Stage, target, "")
	return out, nil
}

// ConfirmAttendance records that a party will attend one of the case's appointments
func ConfirmAttendance(c *Case, id AppointmentID, role types.PartyRole, now time.Time) (*Case, error) {
	return negotiate(c, id, role, now, types.HistoryAttendance, "confirmed", func(a *Appointment) error {
		return a.ConfirmAttendance(role)
	})
}

// DeclineAttendance records that a party will not attend
func DeclineAttendance(c *Case, id AppointmentID, role types.PartyRole, now time.Time) (*Case, error) {
	return negotiate(c, id, role, now, types.HistoryAttendance, "declined", func(a *Appointment) error {
		return a.DeclineAttendance(role)
	})
}

// RequestReschedule records a party's proposal for a new slot
func RequestReschedule(c *Case, id AppointmentID, role types.PartyRole, date, tm string, now time.Time) (*Case, error) {
	return negotiate(c, id, role, now, types.HistoryRescheduleRequest, date+" "+tm, func(a *Appointment) error {
		return a.RequestReschedule(role, date, tm, now)
	})
}

// ApplyReschedule is the officer-side acceptance of a pending reschedule request
func ApplyReschedule(c *Case, id AppointmentID, actor string, now time.Time) (*Case, error) {
	return officerNegotiate(c, id, actor, now, types.HistoryRescheduleApplied, func(a *Appointment) error {
		return a.ApplyReschedule()
	})
}

// DeclineReschedule is the officer-side rejection of a pending reschedule request
func DeclineReschedule(c *Case, id AppointmentID, actor string, now time.Time) (*Case, error) {
	return officerNegotiate(c, id, actor, now, types.HistoryRescheduleDeclined, func(a *Appointment) error {
		return a.DeclineReschedule()
	})
}

func negotiate(c *Case, id AppointmentID, role types.PartyRole, now time.Time, action types.HistoryAction, note string, fn func(*Appointment) error) (*Case, error) {
	if !role.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "role must be complainant or respondent",
			goerr.V(FieldKey, "attendee"), goerr.V(RoleKey, role))
	}
	out, appt, err := activeAppointment(c, id)
	if err != nil {
		return nil, err
	}
	if err := fn(appt); err != nil {
		return nil, err
	}
	out.record(now, role.String(), action, c.Stage, c.Stage, note)
	return out, nil
}

func officerNegotiate(c *Case, id AppointmentID, actor string, now time.Time, action types.HistoryAction, fn func(*Appointment) error) (*Case, error) {
	out, appt, err := activeAppointment(c, id)
	if err != nil {
		return nil, err
	}
	if err := fn(appt); err != nil {
		return nil, err
	}
	out.record(now, actor, action, c.Stage, c.Stage, appt.ID.String())
	return out, nil
}

// activeAppointment clones the case and returns the appointment inside the clone.
// Hearings can only be negotiated in the hearing stage, mediation in the mediation stage.
func activeAppointment(c *Case, id AppointmentID) (*Case, *Appointment, error) {
	if err := ensureOpen(c); err != nil {
		return nil, nil, err
	}
	out := c.Clone()
	appt := out.Appointment(id)
	if appt == nil {
		return nil, nil, goerr.Wrap(ErrAppointmentNotFound, "appointment not in case",
			goerr.V(AppointmentIDKey, id))
	}

	required := types.StageHearing
	if appt.Kind == types.AppointmentMediation {
		required = types.StageMediation
	}
	if c.Stage != required {
		return nil, nil, goerr.Wrap(ErrWrongStage, "appointment is no longer open for changes",
			goerr.V(AppointmentIDKey, id), goerr.V(StageKey, c.Stage))
	}
	return out, appt, nil
}
