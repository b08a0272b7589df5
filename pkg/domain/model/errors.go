package model

import "github.com/m-mizutani/goerr/v2"

// Lifecycle errors
var (
	ErrValidation        = goerr.New("validation failed")
	ErrDuplicateHearing  = goerr.New("party already has a hearing scheduled")
	ErrIncompleteStage   = goerr.New("stage data is incomplete")
	ErrInvalidTransition = goerr.New("invalid stage transition")
	ErrUnsavedInput      = goerr.New("unsaved item text pending")
	ErrWrongStage        = goerr.New("operation not allowed in current stage")
	ErrCaseClosed        = goerr.New("case is closed")
)

// Negotiation errors
var (
	ErrAppointmentNotFound = goerr.New("appointment not found")
	ErrNotAttendee         = goerr.New("party is not an attendee of the appointment")
	ErrAttendanceFinalized = goerr.New("attendance already finalized")
	ErrReschedulePending   = goerr.New("reschedule request already pending")
	ErrNoReschedulePending = goerr.New("no reschedule request pending")
)

// Repository errors
var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
)

// Context keys for error values
const (
	FieldKey         = "field"
	StageKey         = "stage"
	TargetStageKey   = "target_stage"
	RoleKey          = "role"
	AppointmentIDKey = "appointment_id"
)
