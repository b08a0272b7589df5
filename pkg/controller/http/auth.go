package http

import (
	"net/http"

	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

func signUpHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r, defaultMaxUploadSize); err != nil {
			writeError(w, r, err)
			return
		}

		token, err := authUC.SignUp(r.Context(), usecase.SignUpInput{
			StaffID:  formValue(r, "staff_id"),
			Password: r.Form.Get("password"),
			Email:    formValue(r, "email"),
			FullName: formValue(r, "full_name"),
		})
		if err != nil {
			if !writeFieldErrors(w, r, err) {
				writeError(w, r, err)
			}
			return
		}

		writeJSON(w, r, http.StatusOK, api.TokenResponse{Token: token})
	}
}

func signInHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r, defaultMaxUploadSize); err != nil {
			writeError(w, r, err)
			return
		}

		token, err := authUC.SignIn(r.Context(), formValue(r, "staff_id"), r.Form.Get("password"))
		if err != nil {
			if !writeFieldErrors(w, r, err) {
				writeError(w, r, err)
			}
			return
		}

		writeJSON(w, r, http.StatusOK, api.TokenResponse{Token: token})
	}
}
