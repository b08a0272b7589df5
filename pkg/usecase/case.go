package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/domain/model/config"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/utils/errutil"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Upload is one submitted file part
type Upload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Complaint is the filing form of a new case
type Complaint struct {
	Complainant model.Party
	Respondent  model.Party
	Description string
	Files       []Upload
}

type CaseUseCase struct {
	repo     interfaces.Repository
	storage  interfaces.FileStorage
	workflow *config.Workflow
	clock    func() time.Time
}

func NewCaseUseCase(repo interfaces.Repository, storage interfaces.FileStorage, workflow *config.Workflow, clock func() time.Time) *CaseUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &CaseUseCase{
		repo:     repo,
		storage:  storage,
		workflow: workflow,
		clock:    clock,
	}
}

func (uc *CaseUseCase) now() time.Time {
	return uc.clock().UTC()
}

// FileComplaint creates a new case in the initial stage. Attached files are stored
// before the case is created so a failed upload leaves nothing behind in the repository.
func (uc *CaseUseCase) FileComplaint(ctx context.Context, complaint Complaint) (*model.Case, error) {
	if err := validateComplaint(complaint); err != nil {
		return nil, err
	}

	c := model.NewCase(trimParty(complaint.Complainant), trimParty(complaint.Respondent),
		strings.TrimSpace(complaint.Description), uc.now())

	if len(complaint.Files) > 0 {
		docs, err := uc.storeFiles(ctx, c.ID, complaint.Files, types.PartyComplainant.String())
		if err != nil {
			return nil, err
		}
		c.Documents = docs
	}

	created, err := uc.repo.Case().Create(ctx, c)
	recordOperation("file_complaint", err)
	if err != nil {
		uc.removeFiles(ctx, c.Documents)
		return nil, goerr.Wrap(err, "failed to create case")
	}

	logging.From(ctx).Info("complaint filed",
		"case_id", created.ID,
		"documents", len(created.Documents))

	return created, nil
}

func validateComplaint(complaint Complaint) error {
	switch {
	case strings.TrimSpace(complaint.Complainant.Name) == "":
		return goerr.Wrap(model.ErrValidation, "complainant name is required", goerr.V(model.FieldKey, "complainant_name"))
	case strings.TrimSpace(complaint.Respondent.Name) == "":
		return goerr.Wrap(model.ErrValidation, "respondent name is required", goerr.V(model.FieldKey, "respondent_name"))
	case strings.TrimSpace(complaint.Description) == "":
		return goerr.Wrap(model.ErrValidation, "description is required", goerr.V(model.FieldKey, "description"))
	}
	return nil
}

func trimParty(p model.Party) model.Party {
	return model.Party{
		Name:  strings.TrimSpace(p.Name),
		Email: strings.TrimSpace(p.Email),
		Phone: strings.TrimSpace(p.Phone),
	}
}

// storeFiles writes all uploads concurrently and returns their document references
// in submission order. Every upload is checked before anything is written, and a
// failed batch removes the files it already stored.
func (uc *CaseUseCase) storeFiles(ctx context.Context, caseID model.CaseID, uploads []Upload, uploadedBy string) ([]model.Document, error) {
	if uc.storage == nil {
		return nil, goerr.New("file storage is not configured")
	}

	names := make([]string, len(uploads))
	for i, up := range uploads {
		name := path.Base(strings.ReplaceAll(strings.TrimSpace(up.Name), "\\", "/"))
		if name == "" || name == "." || name == "/" {
			return nil, goerr.Wrap(model.ErrValidation, "file name is required", goerr.V(model.FieldKey, "files"))
		}
		if up.Content == nil {
			return nil, goerr.Wrap(model.ErrValidation, "file content is missing", goerr.V(model.FieldKey, "files"), goerr.V("name", name))
		}
		names[i] = name
	}

	now := uc.now()
	docs := make([]model.Document, len(uploads))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		storagePath := fmt.Sprintf("cases/%s/%s_%s", caseID, uuid.New().String(), names[i])
		eg.Go(func() error {
			size, err := uc.storage.Put(egCtx, storagePath, up.ContentType, up.Content)
			if err != nil {
				return goerr.Wrap(err, "failed to store file", goerr.V(CaseIDKey, caseID), goerr.V("name", names[i]))
			}
			docs[i] = model.Document{
				Name:        names[i],
				StoragePath: storagePath,
				ContentType: up.ContentType,
				Size:        size,
				UploadedBy:  uploadedBy,
				UploadedAt:  now,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		uc.removeFiles(ctx, docs)
		return nil, err
	}
	return docs, nil
}

// removeFiles deletes stored documents of a rejected operation. Failures are
// logged since the operation already failed.
func (uc *CaseUseCase) removeFiles(ctx context.Context, docs []model.Document) {
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	for _, doc := range docs {
		if doc.StoragePath == "" {
			continue
		}
		if err := uc.storage.Delete(ctx, doc.StoragePath); err != nil {
			_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to remove orphaned file",
				goerr.V("path", doc.StoragePath)), "cleanup failed")
		}
	}
}

// GetCase returns the full case for staff
func (uc *CaseUseCase) GetCase(ctx context.Context, id model.CaseID) (*model.Case, error) {
	if _, err := staffID(ctx); err != nil {
		return nil, err
	}
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

// GetCaseByRef returns the case as seen by the party owning the reference ID
func (uc *CaseUseCase) GetCaseByRef(ctx context.Context, ref model.RefID) (*model.CaseView, error) {
	c, err := uc.repo.Case().GetByRefID(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case by reference", goerr.V(RefIDKey, ref))
	}
	role, ok := c.RoleOf(ref)
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "reference does not belong to case", goerr.V(RefIDKey, ref))
	}
	return c.Project(role), nil
}

// ListUnassigned returns open cases no officer has claimed, newest first
func (uc *CaseUseCase) ListUnassigned(ctx context.Context) ([]*model.Case, error) {
	if _, err := staffID(ctx); err != nil {
		return nil, err
	}
	cases, err := uc.repo.Case().List(ctx, interfaces.WithUnassigned())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list unassigned cases")
	}

	open := make([]*model.Case, 0, len(cases))
	for _, c := range cases {
		if !c.IsClosed() {
			open = append(open, c)
		}
	}
	return open, nil
}

// ListCases returns cases matching the filters
func (uc *CaseUseCase) ListCases(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	if _, err := staffID(ctx); err != nil {
		return nil, err
	}
	cases, err := uc.repo.Case().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

// AssignCase lets the signed-in officer claim the case
func (uc *CaseUseCase) AssignCase(ctx context.Context, id model.CaseID) (*model.Case, error) {
	actor, err := staffID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	if c.AssignedOfficer == actor {
		return c, nil
	}
	if c.IsAssigned() {
		return nil, goerr.Wrap(ErrNotCaseOfficer, "case already claimed",
			goerr.V(CaseIDKey, id), goerr.V("assigned_officer", c.AssignedOfficer))
	}

	assigned, err := model.AssignOfficer(c, actor, uc.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign case", goerr.V(CaseIDKey, id))
	}
	return uc.save(ctx, "assign", c, assigned)
}

// DecideMandate records the jurisdiction ruling
func (uc *CaseUseCase) DecideMandate(ctx context.Context, id model.CaseID, decision types.MandateDecision) (*model.Case, error) {
	return uc.mutate(ctx, "decide_mandate", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.DecideMandate(c, decision, actor, now)
	})
}

// UploadInvestigationFiles stores the files and appends them to the case documents.
// Nothing is appended unless every file was stored.
func (uc *CaseUseCase) UploadInvestigationFiles(ctx context.Context, id model.CaseID, uploads []Upload) (*model.Case, error) {
	if len(uploads) == 0 {
		return nil, goerr.Wrap(ErrNoFiles, "at least one file is required", goerr.V(CaseIDKey, id))
	}

	var stored []model.Document
	updated, err := uc.mutate(ctx, "upload_investigation_files", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		// nothing is written to storage for a case outside investigation
		if err := model.CheckStage(c, types.StageInvestigation); err != nil {
			return nil, err
		}
		docs, err := uc.storeFiles(ctx, c.ID, uploads, actor)
		if err != nil {
			return nil, err
		}
		stored = docs
		return model.AddDocuments(c, docs, actor, now)
	})
	if err != nil {
		uc.removeFiles(ctx, stored)
		return nil, err
	}
	return updated, nil
}

// AddEvidenceRequest appends an evidence request during investigation
func (uc *CaseUseCase) AddEvidenceRequest(ctx context.Context, id model.CaseID, request string) (*model.Case, error) {
	return uc.mutate(ctx, "add_evidence_request", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.AddEvidenceRequest(c, request, actor, now)
	})
}

// AddHearing schedules the hearing of one party
func (uc *CaseUseCase) AddHearing(ctx context.Context, id model.CaseID, draft model.HearingDraft) (*model.Case, error) {
	if err := uc.checkVenue(draft.Venue); err != nil {
		return nil, err
	}
	draft.Items = uc.workflow.WithDefaultItems(draft.Attendee, draft.Items)

	return uc.mutate(ctx, "add_hearing", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.AddHearing(c, draft, actor, now)
	})
}

// ScheduleMediation sets or replaces the mediation session
func (uc *CaseUseCase) ScheduleMediation(ctx context.Context, id model.CaseID, appt model.Appointment) (*model.Case, error) {
	if err := uc.checkVenue(appt.Venue); err != nil {
		return nil, err
	}
	appt.ItemsForComplainant = uc.workflow.WithDefaultItems(types.PartyComplainant, appt.ItemsForComplainant)
	appt.ItemsForRespondent = uc.workflow.WithDefaultItems(types.PartyRespondent, appt.ItemsForRespondent)

	return uc.mutate(ctx, "schedule_mediation", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.ScheduleMediation(c, appt, actor, now)
	})
}

// RecordDecision stages the outcome, terms and final notes
func (uc *CaseUseCase) RecordDecision(ctx context.Context, id model.CaseID, outcome types.MediationOutcome, terms []string, notes string) (*model.Case, error) {
	return uc.mutate(ctx, "record_decision", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.RecordDecision(c, outcome, terms, notes, actor, now)
	})
}

// Advance moves the case to the next stage
func (uc *CaseUseCase) Advance(ctx context.Context, id model.CaseID, target types.Stage, payload model.StagePayload) (*model.Case, error) {
	if payload.Mediation != nil {
		if err := uc.checkVenue(payload.Mediation.Venue); err != nil {
			return nil, err
		}
	}

	return uc.mutate(ctx, "advance", id, func(c *model.Case, actor string, now time.Time) (*model.Case, error) {
		return model.Advance(c, target, payload, actor, now)
	})
}

func (uc *CaseUseCase) checkVenue(venue string) error {
	if strings.TrimSpace(venue) == "" || uc.workflow.IsVenueAllowed(venue) {
		return nil
	}
	return goerr.Wrap(ErrVenueNotAllowed, "venue is not in the configured list",
		goerr.V(model.FieldKey, "venue"), goerr.V("venue", venue), goerr.V("allowed", uc.workflow.VenueNames()))
}

type transition func(c *model.Case, actor string, now time.Time) (*model.Case, error)

// mutate runs one officer operation as load, pure transition, save. An unassigned
// case is claimed by the acting officer first.
func (uc *CaseUseCase) mutate(ctx context.Context, op string, id model.CaseID, fn transition) (*model.Case, error) {
	actor, err := staffID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}

	now := uc.now()
	current, err := claim(c, actor, now)
	if err != nil {
		recordOperation(op, err)
		return nil, err
	}

	updated, err := fn(current, actor, now)
	if err != nil {
		recordOperation(op, err)
		return nil, goerr.Wrap(err, "case operation rejected",
			goerr.V(CaseIDKey, id), goerr.V("operation", op), goerr.V(model.StageKey, c.Stage))
	}

	return uc.save(ctx, op, c, updated)
}

func claim(c *model.Case, actor string, now time.Time) (*model.Case, error) {
	switch {
	case c.AssignedOfficer == actor:
		return c, nil
	case c.IsAssigned():
		return nil, goerr.Wrap(ErrNotCaseOfficer, "case is handled by another officer",
			goerr.V(CaseIDKey, c.ID), goerr.V("assigned_officer", c.AssignedOfficer))
	default:
		return model.AssignOfficer(c, actor, now)
	}
}

func (uc *CaseUseCase) save(ctx context.Context, op string, before, after *model.Case) (*model.Case, error) {
	saved, err := uc.repo.Case().Put(ctx, after)
	recordOperation(op, err)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save case", goerr.V(CaseIDKey, after.ID))
	}
	recordTransition(before.Stage, saved.Stage)

	logging.From(ctx).Info("case updated",
		"case_id", saved.ID,
		"operation", op,
		"from", before.Stage,
		"to", saved.Stage)

	return saved, nil
}

func staffID(ctx context.Context) (string, error) {
	token, err := auth.TokenFromContext(ctx)
	if err != nil {
		return "", goerr.Wrap(ErrUnauthorized, "staff token is required")
	}
	return token.Sub, nil
}
