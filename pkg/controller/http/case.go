package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// caseForm parses the request form and returns the mandatory case_id
func caseForm(r *http.Request, maxMemory int64) (model.CaseID, error) {
	if err := parseForm(r, maxMemory); err != nil {
		return "", err
	}
	id, err := requireValue(r, "case_id")
	if err != nil {
		return "", err
	}
	return model.CaseID(id), nil
}

func unassignedCasesHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := caseUC.ListUnassigned(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := api.CaseListResponse{Cases: make([]api.CaseSummary, 0, len(cases))}
		for _, c := range cases {
			resp.Cases = append(resp.Cases, api.NewCaseSummary(c))
		}
		writeJSON(w, r, http.StatusOK, resp)
	}
}

func getCaseHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := caseUC.GetCase(r.Context(), model.CaseID(chi.URLParam(r, "case_id")))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, api.NewCase(c))
	}
}

func assignCaseHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := caseUC.AssignCase(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func mandateHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		decision, err := types.ParseMandateFlag(formValue(r, "mandate_decision"))
		if err != nil {
			writeError(w, r, invalidValue("mandate_decision", err))
			return
		}

		if _, err := caseUC.DecideMandate(r.Context(), id, decision); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func investigationFilesHandler(caseUC CaseUseCase, maxUploadSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, maxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}

		uploads, closeFiles, err := formUploads(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer closeFiles()

		if _, err := caseUC.UploadInvestigationFiles(r.Context(), id, uploads); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultUploaded)
	}
}

func evidenceRequestHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := caseUC.AddEvidenceRequest(r.Context(), id, formValue(r, "request")); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func hearingHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		attendee, err := types.ParsePartyRole(formValue(r, "attendee"))
		if err != nil {
			writeError(w, r, invalidValue("attendee", err))
			return
		}

		draft := model.HearingDraft{
			Attendee:    attendee,
			Date:        formValue(r, "date"),
			Time:        formValue(r, "time"),
			Venue:       formValue(r, "venue"),
			Purpose:     formValue(r, "purpose"),
			Items:       formList(r, "item"),
			PendingItem: formValue(r, "pending_item"),
		}
		if _, err := caseUC.AddHearing(r.Context(), id, draft); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func mediationHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}

		appt := model.Appointment{
			Date:                formValue(r, "date"),
			Time:                formValue(r, "time"),
			Venue:               formValue(r, "venue"),
			Purpose:             formValue(r, "purpose"),
			ItemsForComplainant: formList(r, "item_complainant"),
			ItemsForRespondent:  formList(r, "item_respondent"),
		}
		if _, err := caseUC.ScheduleMediation(r.Context(), id, appt); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

func decisionHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		outcome, err := types.ParseMediationOutcome(formValue(r, "outcome"))
		if err != nil {
			writeError(w, r, invalidValue("outcome", err))
			return
		}

		if _, err := caseUC.RecordDecision(r.Context(), id, outcome, formList(r, "term"), formValue(r, "final_notes")); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}

// advanceHandler moves the case to the stage given in "status". Stage data is
// submitted beforehand through the dedicated endpoints.
func advanceHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caseForm(r, defaultMaxUploadSize)
		if err != nil {
			writeError(w, r, err)
			return
		}
		target, err := types.ParseStage(formValue(r, "status"))
		if err != nil {
			writeError(w, r, invalidValue("status", err))
			return
		}

		if _, err := caseUC.Advance(r.Context(), id, target, model.StagePayload{}); err != nil {
			writeError(w, r, err)
			return
		}
		writeResult(w, r, types.ResultSaved)
	}
}
