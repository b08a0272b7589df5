package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Access control errors
	ErrUnauthorized       = goerr.New("unauthorized")
	ErrNotCaseOfficer     = goerr.New("case is assigned to another officer")
	ErrInvalidCredentials = goerr.New("invalid staff ID or password")

	// Other errors
	ErrVenueNotAllowed = goerr.New("venue is not allowed")
	ErrNoFiles         = goerr.New("no files submitted")
)

// Context keys for error values
const (
	CaseIDKey        = "case_id"
	RefIDKey         = "ref_id"
	StaffIDKey       = "staff_id"
	AppointmentIDKey = "appointment_id"
)

// FieldErrors carries per-field messages of a rejected form
type FieldErrors struct {
	cause  error
	Fields map[string]string
}

func newFieldErrors(cause error) *FieldErrors {
	return &FieldErrors{cause: cause, Fields: map[string]string{}}
}

func (e *FieldErrors) add(field, msg string) {
	e.Fields[field] = msg
}

func (e *FieldErrors) empty() bool {
	return len(e.Fields) == 0
}

func (e *FieldErrors) Error() string {
	return e.cause.Error()
}

func (e *FieldErrors) Unwrap() error {
	return e.cause
}
