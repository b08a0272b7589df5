package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
)

// AppointmentEntry is an appointment together with the case it belongs to
type AppointmentEntry struct {
	CaseID      model.CaseID
	Stage       types.Stage
	Appointment model.Appointment
}

// PartyIdentity identifies the party acting on an appointment. Ref is optional;
// when present it must belong to the case and match Role.
type PartyIdentity struct {
	Ref  model.RefID
	Role types.PartyRole
}

type AppointmentUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

func NewAppointmentUseCase(repo interfaces.Repository, clock func() time.Time) *AppointmentUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &AppointmentUseCase{
		repo:  repo,
		clock: clock,
	}
}

// ListAppointments returns the appointments of the cases handled by the signed-in
// officer, ordered by date and time.
func (uc *AppointmentUseCase) ListAppointments(ctx context.Context) ([]AppointmentEntry, error) {
	actor, err := staffID(ctx)
	if err != nil {
		return nil, err
	}

	cases, err := uc.repo.Case().List(ctx, interfaces.WithOfficer(actor))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases", goerr.V(StaffIDKey, actor))
	}

	entries := []AppointmentEntry{}
	for _, c := range cases {
		for _, a := range c.Appointments() {
			entries = append(entries, AppointmentEntry{
				CaseID:      c.ID,
				Stage:       c.Stage,
				Appointment: *a.Clone(),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ai, aj := entries[i].Appointment, entries[j].Appointment
		if ai.Date != aj.Date {
			return ai.Date < aj.Date
		}
		return ai.Time < aj.Time
	})
	return entries, nil
}

// ConfirmAttendance records that the party will attend
func (uc *AppointmentUseCase) ConfirmAttendance(ctx context.Context, id model.AppointmentID, party PartyIdentity) (*model.Case, error) {
	return uc.partyMutate(ctx, "confirm_attendance", id, party, func(c *model.Case, role types.PartyRole, now time.Time) (*model.Case, error) {
		return model.ConfirmAttendance(c, id, role, now)
	})
}

// DeclineAttendance records that the party will not attend
func (uc *AppointmentUseCase) DeclineAttendance(ctx context.Context, id model.AppointmentID, party PartyIdentity) (*model.Case, error) {
	return uc.partyMutate(ctx, "decline_attendance", id, party, func(c *model.Case, role types.PartyRole, now time.Time) (*model.Case, error) {
		return model.DeclineAttendance(c, id, role, now)
	})
}

// RequestReschedule records a party's proposed new slot without moving the appointment
func (uc *AppointmentUseCase) RequestReschedule(ctx context.Context, id model.AppointmentID, party PartyIdentity, date, tm string) (*model.Case, error) {
	return uc.partyMutate(ctx, "request_reschedule", id, party, func(c *model.Case, role types.PartyRole, now time.Time) (*model.Case, error) {
		return model.RequestReschedule(c, id, role, date, tm, now)
	})
}

// ApplyReschedule moves the appointment to the requested slot
func (uc *AppointmentUseCase) ApplyReschedule(ctx context.Context, id model.AppointmentID) (*model.Case, error) {
	return uc.officerMutate(ctx, "apply_reschedule", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.ApplyReschedule(c, id, actor, now)
	})
}

// DeclineReschedule drops the pending request and keeps the current slot
func (uc *AppointmentUseCase) DeclineReschedule(ctx context.Context, id model.AppointmentID) (*model.Case, error) {
	return uc.officerMutate(ctx, "decline_reschedule", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.DeclineReschedule(c, id, actor, now)
	})
}

func (uc *AppointmentUseCase) load(ctx context.Context, id model.AppointmentID) (*model.Case, error) {
	c, err := uc.repo.Case().GetByAppointmentID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find appointment", goerr.V(AppointmentIDKey, id))
	}
	return c, nil
}

func resolveRole(c *model.Case, party PartyIdentity) (types.PartyRole, error) {
	if party.Ref == "" {
		return party.Role, nil
	}
	role, ok := c.RoleOf(party.Ref)
	if !ok {
		return "", goerr.Wrap(ErrUnauthorized, "reference does not belong to case", goerr.V(RefIDKey, party.Ref))
	}
	if party.Role != "" && party.Role != role {
		return "", goerr.Wrap(ErrUnauthorized, "reference does not match attendee role",
			goerr.V(RefIDKey, party.Ref), goerr.V(model.RoleKey, party.Role))
	}
	return role, nil
}

func (uc *AppointmentUseCase) partyMutate(ctx context.Context, op string, id model.AppointmentID, party PartyIdentity,
	fn func(c *model.Case, role types.PartyRole, now time.Time) (*model.Case, error)) (*model.Case, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role, err := resolveRole(c, party)
	if err != nil {
		recordOperation(op, err)
		return nil, err
	}

	updated, err := fn(c, role, uc.clock().UTC())
	if err != nil {
		recordOperation(op, err)
		return nil, goerr.Wrap(err, "appointment operation rejected",
			goerr.V(AppointmentIDKey, id), goerr.V(model.RoleKey, role), goerr.V("operation", op))
	}
	return uc.save(ctx, op, updated)
}

func (uc *AppointmentUseCase) officerMutate(ctx context.Context, op string, id model.AppointmentID, fn transition) (*model.Case, error) {
	actor, err := staffID(ctx)
	if err != nil {
		return nil, err
	}
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsAssigned() && c.AssignedOfficer != actor {
		err := goerr.Wrap(ErrNotCaseOfficer, "case is handled by another officer",
			goerr.V(CaseIDKey, c.ID), goerr.V("assigned_officer", c.AssignedOfficer))
		recordOperation(op, err)
		return nil, err
	}

	updated, err := fn(c, actor, uc.clock().UTC())
	if err != nil {
		recordOperation(op, err)
		return nil, goerr.Wrap(err, "appointment operation rejected",
			goerr.V(AppointmentIDKey, id), goerr.V("operation", op))
	}
	return uc.save(ctx, op, updated)
}

func (uc *AppointmentUseCase) save(ctx context.Context, op string, c *model.Case) (*model.Case, error) {
	saved, err := uc.repo.Case().Put(ctx, c)
	recordOperation(op, err)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save case", goerr.V(CaseIDKey, c.ID))
	}

	logging.From(ctx).Info("appointment updated", "case_id", saved.ID, "operation", op)
	return saved, nil
}
