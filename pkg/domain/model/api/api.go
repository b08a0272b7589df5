// Package api defines the JSON documents exchanged between the case service and its clients.
package api

import (
	"time"

	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// Error kinds carried in ErrorResponse.Kind
const (
	KindValidation        = "validation"
	KindDuplicateHearing  = "duplicate_hearing"
	KindIncompleteStage   = "incomplete_stage"
	KindInvalidTransition = "invalid_transition"
	KindUnsavedInput      = "unsaved_input"
	KindNotFound          = "not_found"
	KindConflict          = "conflict"
	KindUnauthorized      = "unauthorized"
	KindInternal          = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type FieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ResultResponse struct {
	Status           types.ResultStatus `json:"status"`
	ComplainantRefID string             `json:"complainant_ref_id,omitempty"`
}

type CaseListResponse struct {
	Cases []CaseSummary `json:"cases"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentEntry `json:"appointments"`
}

type Party struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Document struct {
	Name        string    `json:"name"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type RescheduleRequest struct {
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	RequestedBy types.PartyRole `json:"requested_by"`
	RequestedAt time.Time       `json:"requested_at"`
}

type Appointment struct {
	ID                   string                `json:"id"`
	Kind                 types.AppointmentKind `json:"kind"`
	Date                 string                `json:"date"`
	Time                 string                `json:"time"`
	Venue                string                `json:"venue"`
	Purpose              string                `json:"purpose,omitempty"`
	Attendee             types.PartyRole       `json:"attendee,omitempty"`
	ComplainantAttending *bool                 `json:"complainant_attending"`
	RespondentAttending  *bool                 `json:"respondent_attending"`
	RequestedReschedule  *RescheduleRequest    `json:"requested_reschedule"`
	ItemsForComplainant  []string              `json:"items_for_complainant"`
	ItemsForRespondent   []string              `json:"items_for_respondent"`
}

type AppointmentEntry struct {
	CaseID      string      `json:"case_id"`
	Stage       types.Stage `json:"stage"`
	Appointment Appointment `json:"appointment"`
}

type HistoryEntry struct {
	At     time.Time           `json:"at"`
	Actor  string              `json:"actor,omitempty"`
	Action types.HistoryAction `json:"action"`
	From   types.Stage         `json:"from,omitempty"`
	To     types.Stage         `json:"to,omitempty"`
	Note   string              `json:"note,omitempty"`
}

type CaseSummary struct {
	ID          string      `json:"id"`
	Complainant string      `json:"complainant"`
	Respondent  string      `json:"respondent"`
	Description string      `json:"description"`
	Stage       types.Stage `json:"stage"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Case is the officer document when Role is empty and a party view otherwise
type Case struct {
	ID               string                 `json:"id"`
	Role             types.PartyRole        `json:"role,omitempty"`
	RefID            string                 `json:"ref_id,omitempty"`
	ComplainantRefID string                 `json:"complainant_ref_id,omitempty"`
	RespondentRefID  string                 `json:"respondent_ref_id,omitempty"`
	Complainant      Party                  `json:"complainant"`
	Respondent       Party                  `json:"respondent"`
	Description      string                 `json:"description"`
	AssignedOfficer  string                 `json:"assigned_officer,omitempty"`
	Stage            types.Stage            `json:"stage"`
	MandateDecision  types.MandateDecision  `json:"mandate_decision"`
	ClosedReason     types.ClosedReason     `json:"closed_reason,omitempty"`
	Documents        []Document             `json:"documents"`
	EvidenceRequests []string               `json:"evidence_requests"`
	Hearings         []Appointment          `json:"hearings"`
	Mediation        *Appointment           `json:"mediation"`
	Terms            []string               `json:"terms"`
	MediationOutcome types.MediationOutcome `json:"mediation_outcome"`
	FinalNotes       string                 `json:"final_notes,omitempty"`
	History          []HistoryEntry         `json:"history"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
