package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// AppointmentID identifies a hearing or mediation session
type AppointmentID string

func NewAppointmentID() AppointmentID {
	return AppointmentID(uuid.New().String())
}

func (id AppointmentID) String() string {
	return string(id)
}

// RescheduleRequest is a proposed new date/time awaiting acceptance
type RescheduleRequest struct {
	Date        string
	Time        string
	RequestedBy types.PartyRole
	RequestedAt time.Time
}

// Appointment is the shared shape of hearings and mediation sessions.
// Attendance flags are tri-state: nil means unconfirmed.
type Appointment struct {
	ID       AppointmentID
	Kind     types.AppointmentKind
	Date     string
	Time     string
	Venue    string
	Purpose  string
	Attendee types.PartyRole // hearings only; empty for mediation

	ComplainantAttending *bool
	RespondentAttending  *bool
	RequestedReschedule  *RescheduleRequest

	ItemsForComplainant []string
	ItemsForRespondent  []string
}

// Clone creates a deep copy of the appointment
func (a *Appointment) Clone() *Appointment {
	copied := *a
	copied.ComplainantAttending = cloneBool(a.ComplainantAttending)
	copied.RespondentAttending = cloneBool(a.RespondentAttending)
	if a.RequestedReschedule != nil {
		req := *a.RequestedReschedule
		copied.RequestedReschedule = &req
	}
	copied.ItemsForComplainant = append([]string(nil), a.ItemsForComplainant...)
	copied.ItemsForRespondent = append([]string(nil), a.ItemsForRespondent...)
	return &copied
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// IsScheduled reports whether date, time and venue are all set
func (a *Appointment) IsScheduled() bool {
	return strings.TrimSpace(a.Date) != "" &&
		strings.TrimSpace(a.Time) != "" &&
		strings.TrimSpace(a.Venue) != ""
}

// IsAttendee reports whether the role takes part in the appointment.
// Both parties attend mediation; a hearing targets a single party.
func (a *Appointment) IsAttendee(role types.PartyRole) bool {
	if !role.IsValid() {
		return false
	}
	if a.Kind == types.AppointmentMediation {
		return true
	}
	return a.Attendee == role
}

// Attending returns the attendance flag of the role
func (a *Appointment) Attending(role types.PartyRole) *bool {
	if role == types.PartyComplainant {
		return a.ComplainantAttending
	}
	return a.RespondentAttending
}

func (a *Appointment) setAttending(role types.PartyRole, v bool) {
	if role == types.PartyComplainant {
		a.ComplainantAttending = &v
	} else {
		a.RespondentAttending = &v
	}
}

// ItemsFor returns the list of items the role must bring
func (a *Appointment) ItemsFor(role types.PartyRole) []string {
	if role == types.PartyComplainant {
		return a.ItemsForComplainant
	}
	return a.ItemsForRespondent
}

// CanConfirm reports whether the role may confirm or decline attendance right now
func (a *Appointment) CanConfirm(role types.PartyRole) bool {
	return a.checkAttendance(role) == nil
}

// CanRequestReschedule reports whether the role may request a reschedule right now
func (a *Appointment) CanRequestReschedule(role types.PartyRole) bool {
	return a.checkReschedule(role) == nil
}

func (a *Appointment) checkAttendance(role types.PartyRole) error {
	if !a.IsAttendee(role) {
		return goerr.Wrap(ErrNotAttendee, "cannot set attendance",
			goerr.V(AppointmentIDKey, a.ID), goerr.V(RoleKey, role))
	}
	if a.RequestedReschedule != nil {
		return goerr.Wrap(ErrReschedulePending, "cannot set attendance while reschedule is pending",
			goerr.V(AppointmentIDKey, a.ID), goerr.V(RoleKey, role))
	}
	if a.Attending(role) != nil {
		return goerr.Wrap(ErrAttendanceFinalized, "attendance already recorded",
			goerr.V(AppointmentIDKey, a.ID), goerr.V(RoleKey, role))
	}
	return nil
}

func (a *Appointment) checkReschedule(role types.PartyRole) error {
	if !a.IsAttendee(role) {
		return goerr.Wrap(ErrNotAttendee, "cannot request reschedule",
			goerr.V(AppointmentIDKey, a.ID), goerr.V(RoleKey, role))
	}
	if attending := a.Attending(role); attending != nil && *attending {
		return goerr.Wrap(ErrAttendanceFinalized, "cannot request reschedule after confirming attendance",
			goerr.V(AppointmentIDKey, a.ID), goerr.V(RoleKey, role))
	}
	if a.RequestedReschedule != nil {
		return goerr.Wrap(ErrReschedulePending, "a reschedule request is already pending",
			goerr.V(AppointmentIDKey, a.ID),
			goerr.V(RoleKey, role),
			goerr.V("requested_by", a.RequestedReschedule.RequestedBy))
	}
	return nil
}

// ConfirmAttendance marks the role as attending
func (a *Appointment) ConfirmAttendance(role types.PartyRole) error {
	if err := a.checkAttendance(role); err != nil {
		return err
	}
	a.setAttending(role, true)
	return nil
}

// DeclineAttendance marks the role as not attending
func (a *Appointment) DeclineAttendance(role types.PartyRole) error {
	if err := a.checkAttendance(role); err != nil {
		return err
	}
	a.setAttending(role, false)
	return nil
}

// RequestReschedule records a proposed new date and time. The scheduled date and
// time stay untouched until the request is applied.
func (a *Appointment) RequestReschedule(role types.PartyRole, date, tm string, now time.Time) error {
	if err := validateDateTime(date, tm); err != nil {
		return goerr.Wrap(err, "invalid reschedule request", goerr.V(AppointmentIDKey, a.ID))
	}
	if err := a.checkReschedule(role); err != nil {
		return err
	}

	a.RequestedReschedule = &RescheduleRequest{
		Date:        strings.TrimSpace(date),
		Time:        strings.TrimSpace(tm),
		RequestedBy: role,
		RequestedAt: now,
	}
	return nil
}

// ApplyReschedule moves the appointment to the requested date and time. Attendance
// is reset for both parties since the slot changed.
func (a *Appointment) ApplyReschedule() error {
	if a.RequestedReschedule == nil {
		return goerr.Wrap(ErrNoReschedulePending, "nothing to apply", goerr.V(AppointmentIDKey, a.ID))
	}
	a.Date = a.RequestedReschedule.Date
	a.Time = a.RequestedReschedule.Time
	a.RequestedReschedule = nil
	a.ComplainantAttending = nil
	a.RespondentAttending = nil
	return nil
}

// DeclineReschedule drops the pending request and keeps the current slot
func (a *Appointment) DeclineReschedule() error {
	if a.RequestedReschedule == nil {
		return goerr.Wrap(ErrNoReschedulePending, "nothing to decline", goerr.V(AppointmentIDKey, a.ID))
	}
	a.RequestedReschedule = nil
	return nil
}

func validateDateTime(date, tm string) error {
	date = strings.TrimSpace(date)
	tm = strings.TrimSpace(tm)

	if date == "" {
		return goerr.Wrap(ErrValidation, "date is required", goerr.V(FieldKey, "date"))
	}
	if tm == "" {
		return goerr.Wrap(ErrValidation, "time is required", goerr.V(FieldKey, "time"))
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return goerr.Wrap(ErrValidation, "date must be YYYY-MM-DD", goerr.V(FieldKey, "date"), goerr.V("date", date))
	}
	if _, err := time.Parse(timeLayout, tm); err != nil {
		return goerr.Wrap(ErrValidation, "time must be HH:MM", goerr.V(FieldKey, "time"), goerr.V("time", tm))
	}
	return nil
}

func validateSlot(date, tm, venue string) error {
	if err := validateDateTime(date, tm); err != nil {
		return err
	}
	if strings.TrimSpace(venue) == "" {
		return goerr.Wrap(ErrValidation, "venue is required", goerr.V(FieldKey, "venue"))
	}
	return nil
}

func cleanItems(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
