package http

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/usecase"
	"github.com/secmon-lab/grievance/pkg/utils/errutil"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"github.com/secmon-lab/grievance/pkg/utils/safe"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func writeResult(w http.ResponseWriter, r *http.Request, status types.ResultStatus) {
	writeJSON(w, r, http.StatusOK, api.ResultResponse{Status: status})
}

// errorKind maps an error to the HTTP status and the kind reported to clients.
// Order matters: specific lifecycle errors are checked before generic ones.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, auth.ErrNoToken):
		return http.StatusUnauthorized, api.KindUnauthorized

	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrAppointmentNotFound):
		return http.StatusNotFound, api.KindNotFound

	case errors.Is(err, model.ErrDuplicateHearing):
		return http.StatusConflict, api.KindDuplicateHearing

	case errors.Is(err, model.ErrIncompleteStage):
		return http.StatusUnprocessableEntity, api.KindIncompleteStage

	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict, api.KindInvalidTransition

	case errors.Is(err, model.ErrUnsavedInput):
		return http.StatusBadRequest, api.KindUnsavedInput

	case errors.Is(err, model.ErrValidation),
		errors.Is(err, usecase.ErrVenueNotAllowed),
		errors.Is(err, usecase.ErrNoFiles):
		return http.StatusBadRequest, api.KindValidation

	case errors.Is(err, usecase.ErrNotCaseOfficer),
		errors.Is(err, model.ErrAlreadyExists),
		errors.Is(err, model.ErrCaseClosed),
		errors.Is(err, model.ErrWrongStage),
		errors.Is(err, model.ErrNotAttendee),
		errors.Is(err, model.ErrAttendanceFinalized),
		errors.Is(err, model.ErrReschedulePending),
		errors.Is(err, model.ErrNoReschedulePending):
		return http.StatusConflict, api.KindConflict

	default:
		return http.StatusInternalServerError, api.KindInternal
	}
}

// writeError writes the JSON error document. Server errors are reported and
// their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorKind(err)
	recordError(kind)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		errutil.Handle(r.Context(), err, "request failed")
		msg = http.StatusText(status)
	} else {
		logging.From(r.Context()).Info("request rejected",
			"status", status,
			"kind", kind,
			"error", msg,
		)
	}

	writeJSON(w, r, status, api.ErrorResponse{Error: msg, Kind: kind})
}

// writeFieldErrors writes form errors of sign in and sign up
func writeFieldErrors(w http.ResponseWriter, r *http.Request, err error) bool {
	var fe *usecase.FieldErrors
	if !errors.As(err, &fe) {
		return false
	}

	status := http.StatusBadRequest
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
	}
	writeJSON(w, r, status, api.FieldErrorsResponse{Errors: fe.Fields})
	return true
}
