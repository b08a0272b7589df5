package http

import (
	"net/http"

	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

func appointmentForm(r *http.Request) (model.AppointmentID, error) {
	if err := parseForm(r, defaultMaxUploadSize); err != nil {
		return "", err
	}
	id, err := requireValue(r, "appointment_id")
	if err != nil {
		return "", err
	}
	return model.AppointmentID(id), nil
}

// partyIdentity reads the acting party from roleField and the optional ref_id
func partyIdentity(r *http.Request, roleField string) (usecase.PartyIdentity, error) {
	identity := usecase.PartyIdentity{Ref: model.RefID(formValue(r, "ref_id"))}

	raw := formValue(r, roleField)
	if raw == "" && identity.Ref != "" {
		return identity, nil
	}
	role, err := types.ParsePartyRole(raw)
	if err != nil {
		return identity, invalidValue(roleField, err)
	}
	identity.Role = role
	return identity, nil
}

func listAppointmentsHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := appointmentUC.ListAppointments(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := api.AppointmentListResponse{Appointments: make([]api.AppointmentEntry, 0, len(entries))}
		for _, e := range entries {
			resp.Appointments = append(resp.Appointments, api.AppointmentEntry{
				CaseID:      e.CaseID.String(),
				Stage:       e.Stage,
				Appointment: api.NewAppointment(&e.Appointment),
			})
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

type attendanceFunc func(r *http.Request, id model.AppointmentID, party usecase.PartyIdentity) (*model.Case, error)

func attendanceHandler(fn attendanceFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := appointmentForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		party, err := partyIdentity(r, "attendee")
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := fn(r, id, party); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func confirmAttendanceHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return attendanceHandler(func(r *http.Request, id model.AppointmentID, party usecase.PartyIdentity) (*model.Case, error) {
		return appointmentUC.ConfirmAttendance(r.Context(), id, party)
	})
}

func declineAttendanceHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return attendanceHandler(func(r *http.Request, id model.AppointmentID, party usecase.PartyIdentity) (*model.Case, error) {
		return appointmentUC.DeclineAttendance(r.Context(), id, party)
	})
}

func requestRescheduleHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := appointmentForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		party, err := partyIdentity(r, "requester")
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := appointmentUC.RequestReschedule(r.Context(), id, party, formValue(r, "date"), formValue(r, "time")); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func applyRescheduleHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := appointmentForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := appointmentUC.ApplyReschedule(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func declineRescheduleHandler(appointmentUC AppointmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := appointmentForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := appointmentUC.DeclineReschedule(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}
