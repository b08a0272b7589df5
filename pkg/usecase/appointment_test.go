package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

func scheduleHearings(t *testing.T, env *testEnv) (*model.Case, model.AppointmentID, model.AppointmentID) {
	t.Helper()
	ctx := officerCtx(officerID)
	c := env.caseAtStage(t, types.StageHearing)

	first := hearingDraft(types.PartyComplainant)
	first.Date = "2025-04-12"
	_, err := env.uc.Case.AddHearing(ctx, c.ID, first)
	gt.NoError(t, err).Required()
	c, err = env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyRespondent))
	gt.NoError(t, err).Required()

	return c, c.HearingFor(types.PartyComplainant).ID, c.HearingFor(types.PartyRespondent).ID
}

func TestAppointmentUseCase_Attendance(t *testing.T) {
	t.Run("confirm then reschedule is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		c, complainantHearing, _ := scheduleHearings(t, env)
		ctx := context.Background()

		updated, err := env.uc.Appointment.ConfirmAttendance(ctx, complainantHearing,
			usecase.PartyIdentity{Ref: c.ComplainantRefID, Role: types.PartyComplainant})
		gt.NoError(t, err).Required()
		attending := updated.HearingFor(types.PartyComplainant).ComplainantAttending
		gt.Value(t, attending).NotNil()
		gt.Bool(t, *attending).True()

		_, err = env.uc.Appointment.RequestReschedule(ctx, complainantHearing,
			usecase.PartyIdentity{Role: types.PartyComplainant}, "2025-04-15", "09:00")
		gt.Error(t, err).Is(model.ErrAttendanceFinalized)

		_, err = env.uc.Appointment.DeclineAttendance(ctx, complainantHearing,
			usecase.PartyIdentity{Role: types.PartyComplainant})
		gt.Error(t, err).Is(model.ErrAttendanceFinalized)
	})

	t.Run("party cannot act on the other party's hearing", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, respondentHearing := scheduleHearings(t, env)

		_, err := env.uc.Appointment.ConfirmAttendance(context.Background(), respondentHearing,
			usecase.PartyIdentity{Role: types.PartyComplainant})
		gt.Error(t, err).Is(model.ErrNotAttendee)
	})

	t.Run("reference must match the role", func(t *testing.T) {
		env := newTestEnv(t)
		c, complainantHearing, _ := scheduleHearings(t, env)

		_, err := env.uc.Appointment.ConfirmAttendance(context.Background(), complainantHearing,
			usecase.PartyIdentity{Ref: c.RespondentRefID, Role: types.PartyComplainant})
		gt.Error(t, err).Is(usecase.ErrUnauthorized)

		_, err = env.uc.Appointment.ConfirmAttendance(context.Background(), complainantHearing,
			usecase.PartyIdentity{Ref: model.NewRefID()})
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.Appointment.ConfirmAttendance(context.Background(), model.NewAppointmentID(),
			usecase.PartyIdentity{Role: types.PartyComplainant})
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestAppointmentUseCase_Reschedule(t *testing.T) {
	t.Run("request then apply moves the slot", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, respondentHearing := scheduleHearings(t, env)

		requested, err := env.uc.Appointment.RequestReschedule(context.Background(), respondentHearing,
			usecase.PartyIdentity{Role: types.PartyRespondent}, "2025-04-18", "11:30")
		gt.NoError(t, err).Required()
		h := requested.HearingFor(types.PartyRespondent)
		gt.Value(t, h.Date).Equal("2025-04-10")
		gt.Value(t, h.RequestedReschedule).NotNil()

		_, err = env.uc.Appointment.RequestReschedule(context.Background(), respondentHearing,
			usecase.PartyIdentity{Role: types.PartyRespondent}, "2025-04-19", "11:30")
		gt.Error(t, err).Is(model.ErrReschedulePending)

		_, err = env.uc.Appointment.ConfirmAttendance(context.Background(), respondentHearing,
			usecase.PartyIdentity{Role: types.PartyRespondent})
		gt.Error(t, err).Is(model.ErrReschedulePending)

		applied, err := env.uc.Appointment.ApplyReschedule(officerCtx(officerID), respondentHearing)
		gt.NoError(t, err).Required()
		h = applied.HearingFor(types.PartyRespondent)
		gt.Value(t, h.Date).Equal("2025-04-18")
		gt.Value(t, h.Time).Equal("11:30")
		gt.Value(t, h.RequestedReschedule).Nil()
	})

	t.Run("empty date is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, complainantHearing, _ := scheduleHearings(t, env)

		_, err := env.uc.Appointment.RequestReschedule(context.Background(), complainantHearing,
			usecase.PartyIdentity{Role: types.PartyComplainant}, "", "11:30")
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("decline keeps the slot", func(t *testing.T) {
		env := newTestEnv(t)
		_, complainantHearing, _ := scheduleHearings(t, env)

		_, err := env.uc.Appointment.DeclineReschedule(officerCtx(officerID), complainantHearing)
		gt.Error(t, err).Is(model.ErrNoReschedulePending)

		_, err = env.uc.Appointment.RequestReschedule(context.Background(), complainantHearing,
			usecase.PartyIdentity{Role: types.PartyComplainant}, "2025-04-18", "11:30")
		gt.NoError(t, err).Required()

		_, err = env.uc.Appointment.ApplyReschedule(officerCtx(otherID), complainantHearing)
		gt.Error(t, err).Is(usecase.ErrNotCaseOfficer)

		declined, err := env.uc.Appointment.DeclineReschedule(officerCtx(officerID), complainantHearing)
		gt.NoError(t, err).Required()
		h := declined.HearingFor(types.PartyComplainant)
		gt.Value(t, h.Date).Equal("2025-04-12")
		gt.Value(t, h.RequestedReschedule).Nil()
	})
}

func TestAppointmentUseCase_ListAppointments(t *testing.T) {
	env := newTestEnv(t)
	c, complainantHearing, respondentHearing := scheduleHearings(t, env)

	_, err := env.uc.Appointment.ListAppointments(context.Background())
	gt.Error(t, err).Is(usecase.ErrUnauthorized)

	entries, err := env.uc.Appointment.ListAppointments(officerCtx(officerID))
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(2).Required()
	gt.Value(t, entries[0].Appointment.ID).Equal(respondentHearing)
	gt.Value(t, entries[1].Appointment.ID).Equal(complainantHearing)
	gt.Value(t, entries[0].CaseID).Equal(c.ID)

	others, err := env.uc.Appointment.ListAppointments(officerCtx(otherID))
	gt.NoError(t, err).Required()
	gt.Array(t, others).Length(0)
}
