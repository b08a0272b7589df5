package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/usecase"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
)

// staffAuth validates the bearer token of protected requests
func staffAuth(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				writeError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "bearer token is required"))
				return
			}

			token, err := authUC.ValidateToken(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			ctx = logging.With(ctx, logging.From(ctx).With("staff_id", token.Sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
