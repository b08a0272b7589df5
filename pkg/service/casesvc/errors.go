package casesvc

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
)

var (
	// ErrService is returned for responses the client cannot interpret
	ErrService = goerr.New("unexpected case service response")

	ErrConflict      = goerr.New("request conflicts with the case state")
	ErrUnauthorized  = goerr.New("not authorized by the case service")
	ErrRequestActive = goerr.New("a request for this appointment is in flight")
)

// FieldErrors is the per-field rejection of the sign in and sign up forms
type FieldErrors struct {
	cause  error
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	return e.cause.Error()
}

func (e *FieldErrors) Unwrap() error {
	return e.cause
}

// kindError maps the kind of an error response back to a sentinel so callers
// can use errors.Is regardless of the transport.
func kindError(kind string) error {
	switch kind {
	case api.KindValidation:
		return model.ErrValidation
	case api.KindDuplicateHearing:
		return model.ErrDuplicateHearing
	case api.KindIncompleteStage:
		return model.ErrIncompleteStage
	case api.KindInvalidTransition:
		return model.ErrInvalidTransition
	case api.KindUnsavedInput:
		return model.ErrUnsavedInput
	case api.KindNotFound:
		return model.ErrNotFound
	case api.KindConflict:
		return ErrConflict
	case api.KindUnauthorized:
		return ErrUnauthorized
	default:
		return ErrService
	}
}
