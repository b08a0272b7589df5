package http

import (
	"context"

	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

// CaseUseCase is the case service surface used by the handlers
type CaseUseCase interface {
	FileComplaint(ctx context.Context, complaint usecase.Complaint) (*model.Case, error)
	GetCase(ctx context.Context, id model.CaseID) (*model.Case, error)
	GetCaseByRef(ctx context.Context, ref model.RefID) (*model.CaseView, error)
	ListUnassigned(ctx context.Context) ([]*model.Case, error)
	AssignCase(ctx context.Context, id model.CaseID) (*model.Case, error)
	DecideMandate(ctx context.Context, id model.CaseID, decision types.MandateDecision) (*model.Case, error)
	UploadInvestigationFiles(ctx context.Context, id model.CaseID, uploads []usecase.Upload) (*model.Case, error)
	AddEvidenceRequest(ctx context.Context, id model.CaseID, request string) (*model.Case, error)
	AddHearing(ctx context.Context, id model.CaseID, draft model.HearingDraft) (*model.Case, error)
	ScheduleMediation(ctx context.Context, id model.CaseID, appt model.Appointment) (*model.Case, error)
	RecordDecision(ctx context.Context, id model.CaseID, outcome types.MediationOutcome, terms []string, notes string) (*model.Case, error)
	Advance(ctx context.Context, id model.CaseID, target types.Stage, payload model.StagePayload) (*model.Case, error)
}

// AppointmentUseCase is the negotiation surface used by the handlers
type AppointmentUseCase interface {
	ListAppointments(ctx context.Context) ([]usecase.AppointmentEntry, error)
	ConfirmAttendance(ctx context.Context, id model.AppointmentID, party usecase.PartyIdentity) (*model.Case, error)
	DeclineAttendance(ctx context.Context, id model.AppointmentID, party usecase.PartyIdentity) (*model.Case, error)
	RequestReschedule(ctx context.Context, id model.AppointmentID, party usecase.PartyIdentity, date, tm string) (*model.Case, error)
	ApplyReschedule(ctx context.Context, id model.AppointmentID) (*model.Case, error)
	DeclineReschedule(ctx context.Context, id model.AppointmentID) (*model.Case, error)
}

// AuthUseCase is the staff authentication surface used by the handlers
type AuthUseCase interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (string, error)
	SignIn(ctx context.Context, staffID, password string) (string, error)
	ValidateToken(ctx context.Context, raw string) (*auth.Token, error)
}

var (
	_ CaseUseCase        = &usecase.CaseUseCase{}
	_ AppointmentUseCase = &usecase.AppointmentUseCase{}
	_ AuthUseCase        = &usecase.AuthUseCase{}
)
