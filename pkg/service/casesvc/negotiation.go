package casesvc

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
)

// NegotiationState is the client-side view of one party's stance on an appointment
type NegotiationState string

const (
	StateIdle                NegotiationState = "idle"
	StatePending             NegotiationState = "pending"
	StateRescheduleRequested NegotiationState = "reschedule_requested"
	StateConfirmed           NegotiationState = "confirmed"
	StateDeclined            NegotiationState = "declined"
)

// IsFinalized returns true once attendance has been acknowledged by the service
func (s NegotiationState) IsFinalized() bool {
	return s == StateConfirmed || s == StateDeclined
}

// Action is a party operation tracked by Negotiation
type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionDecline    Action = "decline"
	ActionReschedule Action = "reschedule"
)

func (a Action) result() NegotiationState {
	switch a {
	case ActionConfirm:
		return StateConfirmed
	case ActionDecline:
		return StateDeclined
	default:
		return StateRescheduleRequested
	}
}

type negotiationEntry struct {
	state    NegotiationState
	previous NegotiationState
	action   Action
}

// Negotiation tracks the appointments of one party. An appointment becomes
// pending when a request is sent and only reaches a final state once the
// service acknowledges it; a failed request restores the previous state.
type Negotiation struct {
	mu      sync.Mutex
	entries map[model.AppointmentID]*negotiationEntry
}

func NewNegotiation() *Negotiation {
	return &Negotiation{entries: make(map[model.AppointmentID]*negotiationEntry)}
}

func (n *Negotiation) entry(id model.AppointmentID) *negotiationEntry {
	e, ok := n.entries[id]
	if !ok {
		e = &negotiationEntry{state: StateIdle}
		n.entries[id] = e
	}
	return e
}

// State returns the current state of the appointment
func (n *Negotiation) State(id model.AppointmentID) NegotiationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := n.entries[id]; ok {
		return e.state
	}
	return StateIdle
}

// Begin marks the appointment as pending. Finalized appointments accept no
// further attendance change, a confirmed one accepts no reschedule, and an
// appointment with a reschedule request outstanding accepts nothing.
func (n *Negotiation) Begin(id model.AppointmentID, action Action) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	e := n.entry(id)
	switch {
	case e.state == StatePending:
		return goerr.Wrap(ErrRequestActive, "wait for the previous request",
			goerr.V(model.AppointmentIDKey, id), goerr.V("action", e.action))

	case e.state.IsFinalized() && action != ActionReschedule:
		return goerr.Wrap(model.ErrAttendanceFinalized, "attendance already recorded",
			goerr.V(model.AppointmentIDKey, id), goerr.V("state", e.state))

	case e.state == StateConfirmed:
		return goerr.Wrap(model.ErrAttendanceFinalized, "cannot reschedule a confirmed appointment",
			goerr.V(model.AppointmentIDKey, id))

	case e.state == StateRescheduleRequested:
		return goerr.Wrap(model.ErrReschedulePending, "a reschedule request is pending",
			goerr.V(model.AppointmentIDKey, id))
	}

	e.previous = e.state
	e.state = StatePending
	e.action = action
	return nil
}

// Complete records the acknowledgement of the pending request
func (n *Negotiation) Complete(id model.AppointmentID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	e := n.entry(id)
	if e.state != StatePending {
		return
	}
	e.state = e.action.result()
}

// Abort restores the state held before the pending request
func (n *Negotiation) Abort(id model.AppointmentID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	e := n.entry(id)
	if e.state != StatePending {
		return
	}
	e.state = e.previous
}

// Sync aligns the tracker with a case view fetched from the service. Appointments
// with a request in flight are left alone.
func (n *Negotiation) Sync(view *model.CaseView) {
	n.mu.Lock()
	defer n.mu.Unlock()

	appts := make([]*model.Appointment, 0, len(view.Hearings)+1)
	for i := range view.Hearings {
		appts = append(appts, &view.Hearings[i])
	}
	if view.Mediation != nil {
		appts = append(appts, view.Mediation)
	}

	for _, a := range appts {
		e := n.entry(a.ID)
		if e.state == StatePending {
			continue
		}

		switch attending := a.Attending(view.Role); {
		case attending != nil && *attending:
			e.state = StateConfirmed
		case a.RequestedReschedule != nil:
			e.state = StateRescheduleRequested
		case attending != nil:
			e.state = StateDeclined
		default:
			e.state = StateIdle
		}
	}
}
