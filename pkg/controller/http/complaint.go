package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

func partyForm(r *http.Request, prefix string) model.Party {
	return model.Party{
		Name:  formValue(r, prefix+"_name"),
		Email: formValue(r, prefix+"_email"),
		Phone: formValue(r, prefix+"_phone"),
	}
}

// fileComplaintHandler files a new case. Identity fields are prefixed with
// complainant_ and respondent_; every file part is attached to the complaint.
func fileComplaintHandler(caseUC CaseUseCase, maxUploadSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r, maxUploadSize); err != nil {
			writeError(w, r, err)
			return
		}

		uploads, closeFiles, err := formUploads(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer closeFiles()

		created, err := caseUC.FileComplaint(r.Context(), usecase.Complaint{
			Complainant: partyForm(r, "complainant"),
			Respondent:  partyForm(r, "respondent"),
			Description: formValue(r, "description"),
			Files:       uploads,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, api.ResultResponse{
			Status:           types.ResultSaved,
			ComplainantRefID: created.ComplainantRefID.String(),
		})
	}
}

func partyCaseHandler(caseUC CaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := model.RefID(chi.URLParam(r, "ref_id"))

		view, err := caseUC.GetCaseByRef(r.Context(), ref)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, api.NewCaseView(view))
	}
}
