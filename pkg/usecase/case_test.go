package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/interfaces"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/config"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/repository/memory"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

type failingStorage struct{}

func (failingStorage) Put(ctx context.Context, path, contentType string, r io.Reader) (int64, error) {
	return 0, errors.New("bucket unavailable")
}

func (failingStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unavailable")
}

func (failingStorage) Delete(ctx context.Context, path string) error {
	return nil
}

var _ interfaces.FileStorage = failingStorage{}

// countingStorage keeps stored paths and fails Put for paths ending in failSuffix
type countingStorage struct {
	mu         sync.Mutex
	puts       int
	files      map[string]struct{}
	failSuffix string
}

func newCountingStorage(failSuffix string) *countingStorage {
	return &countingStorage{files: map[string]struct{}{}, failSuffix: failSuffix}
}

func (s *countingStorage) Put(ctx context.Context, path, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failSuffix != "" && strings.HasSuffix(path, s.failSuffix) {
		return 0, errors.New("write rejected")
	}
	s.files[path] = struct{}{}
	return int64(len(data)), nil
}

func (s *countingStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, model.ErrNotFound
}

func (s *countingStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *countingStorage) counts() (puts, files int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts, len(s.files)
}

var _ interfaces.FileStorage = &countingStorage{}

func TestCaseUseCase_FileComplaint(t *testing.T) {
	t.Run("creates case with stored documents", func(t *testing.T) {
		env := newTestEnv(t)

		c, err := env.uc.Case.FileComplaint(context.Background(), usecase.Complaint{
			Complainant: model.Party{Name: " Alice ", Email: "alice@example.com"},
			Respondent:  model.Party{Name: "Bob Corp"},
			Description: "Unpaid deposit",
			Files:       []usecase.Upload{upload("lease.txt", "lease"), upload("../../receipt.txt", "paid")},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, c.Stage).Equal(types.StageInitial)
		gt.Value(t, c.Complainant.Name).Equal("Alice")
		gt.Value(t, c.ComplainantRefID).NotEqual(model.RefID(""))
		gt.Array(t, c.Documents).Length(2).Required()
		gt.Value(t, c.Documents[0].Name).Equal("lease.txt")
		gt.Value(t, c.Documents[1].Name).Equal("receipt.txt")
		gt.Value(t, c.Documents[0].UploadedBy).Equal("complainant")

		r, err := env.storage.Get(context.Background(), c.Documents[1].StoragePath)
		gt.NoError(t, err).Required()
		data, err := io.ReadAll(r)
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("paid")

		stored := env.stored(t, c.ID)
		gt.Array(t, stored.Documents).Length(2)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		testCases := []struct {
			name      string
			complaint usecase.Complaint
		}{
			{"no complainant", usecase.Complaint{Respondent: model.Party{Name: "B"}, Description: "d"}},
			{"no respondent", usecase.Complaint{Complainant: model.Party{Name: "A"}, Description: "d"}},
			{"no description", usecase.Complaint{Complainant: model.Party{Name: "A"}, Respondent: model.Party{Name: "B"}, Description: "  "}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.uc.Case.FileComplaint(context.Background(), tc.complaint)
				gt.Error(t, err).Is(model.ErrValidation)
			})
		}

		cases, err := env.repo.Case().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(0)
	})

	t.Run("failed upload creates nothing", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithFileStorage(failingStorage{}))

		_, err := uc.Case.FileComplaint(context.Background(), usecase.Complaint{
			Complainant: model.Party{Name: "A"},
			Respondent:  model.Party{Name: "B"},
			Description: "d",
			Files:       []usecase.Upload{upload("a.txt", "a")},
		})
		gt.Value(t, err).NotNil()

		cases, err := repo.Case().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(0)
	})

	t.Run("invalid file in batch stores nothing", func(t *testing.T) {
		for _, bad := range []usecase.Upload{
			{Name: "", Content: strings.NewReader("x")},
			{Name: ".", Content: strings.NewReader("x")},
			{Name: "empty.txt"},
		} {
			repo := memory.New()
			fs := newCountingStorage("")
			uc := usecase.New(repo, usecase.WithFileStorage(fs))

			_, err := uc.Case.FileComplaint(context.Background(), usecase.Complaint{
				Complainant: model.Party{Name: "A"},
				Respondent:  model.Party{Name: "B"},
				Description: "d",
				Files:       []usecase.Upload{upload("ok.pdf", "ok"), bad},
			})
			gt.Error(t, err).Is(model.ErrValidation)

			puts, files := fs.counts()
			gt.Number(t, puts).Equal(0)
			gt.Number(t, files).Equal(0)

			cases, err := repo.Case().List(context.Background())
			gt.NoError(t, err).Required()
			gt.Array(t, cases).Length(0)
		}
	})
}

func TestCaseUseCase_Access(t *testing.T) {
	env := newTestEnv(t)
	c := env.fileCase(t)

	t.Run("officer operations require a token", func(t *testing.T) {
		_, err := env.uc.Case.DecideMandate(context.Background(), c.ID, types.MandateWithin)
		gt.Error(t, err).Is(usecase.ErrUnauthorized)

		_, err = env.uc.Case.ListUnassigned(context.Background())
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})

	t.Run("first mutation claims the case", func(t *testing.T) {
		updated, err := env.uc.Case.DecideMandate(officerCtx(officerID), c.ID, types.MandateWithin)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AssignedOfficer).Equal(officerID)
		gt.Value(t, updated.Stage).Equal(types.StageInvestigation)
	})

	t.Run("another officer is rejected and nothing is saved", func(t *testing.T) {
		before := env.stored(t, c.ID)

		_, err := env.uc.Case.AddEvidenceRequest(officerCtx(otherID), c.ID, "bank statement")
		gt.Error(t, err).Is(usecase.ErrNotCaseOfficer)

		_, err = env.uc.Case.AssignCase(officerCtx(otherID), c.ID)
		gt.Error(t, err).Is(usecase.ErrNotCaseOfficer)

		after := env.stored(t, c.ID)
		gt.Array(t, after.EvidenceRequests).Length(0)
		gt.Array(t, after.History).Length(len(before.History))
	})

	t.Run("unknown case is not found", func(t *testing.T) {
		_, err := env.uc.Case.GetCase(officerCtx(officerID), model.NewCaseID())
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestCaseUseCase_ListUnassigned(t *testing.T) {
	env := newTestEnv(t)
	ctx := officerCtx(officerID)

	open := env.fileCase(t)
	claimed := env.fileCase(t)
	closed := env.fileCase(t)

	_, err := env.uc.Case.AssignCase(ctx, claimed.ID)
	gt.NoError(t, err).Required()

	// closed without an assigned officer
	closedOut, err := model.DecideMandate(closed, types.MandateOutside, officerID, fixedNow)
	gt.NoError(t, err).Required()
	_, err = env.repo.Case().Put(context.Background(), closedOut)
	gt.NoError(t, err).Required()

	cases, err := env.uc.Case.ListUnassigned(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, cases).Length(1).Required()
	gt.Value(t, cases[0].ID).Equal(open.ID)

	mine, err := env.uc.Case.ListCases(ctx, interfaces.WithOfficer(officerID))
	gt.NoError(t, err).Required()
	gt.Array(t, mine).Length(1)
}

func TestCaseUseCase_OutsideMandate(t *testing.T) {
	env := newTestEnv(t)
	ctx := officerCtx(officerID)
	c := env.fileCase(t)

	updated, err := env.uc.Case.DecideMandate(ctx, c.ID, types.MandateOutside)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Stage).Equal(types.StageResolved)
	gt.Value(t, updated.ClosedReason).Equal(types.ClosedReasonOutsideMandate)

	_, err = env.uc.Case.AddEvidenceRequest(ctx, c.ID, "too late")
	gt.Error(t, err).Is(model.ErrCaseClosed)
}

func TestCaseUseCase_FullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := officerCtx(officerID)
	c := env.caseAtStage(t, types.StageInvestigation)

	updated, err := env.uc.Case.UploadInvestigationFiles(ctx, c.ID, []usecase.Upload{
		upload("photo1.jpg", "1"), upload("photo2.jpg", "2"), upload("photo3.jpg", "3"),
	})
	gt.NoError(t, err).Required()
	gt.Array(t, updated.Documents).Length(3).Required()
	gt.Value(t, updated.Documents[2].Name).Equal("photo3.jpg")
	gt.Value(t, updated.Documents[0].UploadedBy).Equal(officerID)

	_, err = env.uc.Case.AddEvidenceRequest(ctx, c.ID, "bank statement")
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.Advance(ctx, c.ID, types.StageHearing, model.StagePayload{})
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyComplainant, "ID card", "lease"))
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.Advance(ctx, c.ID, types.StageMediation, model.StagePayload{})
	gt.Error(t, err).Is(model.ErrIncompleteStage)

	_, err = env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyRespondent))
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.Advance(ctx, c.ID, types.StageMediation, model.StagePayload{})
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.Advance(ctx, c.ID, types.StageDecision, model.StagePayload{
		Mediation: &model.Appointment{Date: "2025-04-20", Time: "14:00", Venue: "Room B"},
	})
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.RecordDecision(ctx, c.ID, types.MediationSucceeded, nil, "agreed")
	gt.NoError(t, err).Required()

	_, err = env.uc.Case.Advance(ctx, c.ID, types.StageResolved, model.StagePayload{})
	gt.Error(t, err).Is(model.ErrIncompleteStage)

	resolved, err := env.uc.Case.Advance(ctx, c.ID, types.StageResolved, model.StagePayload{
		Terms: []string{"refund deposit"},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, resolved.Stage).Equal(types.StageResolved)
	gt.Value(t, resolved.ClosedReason).Equal(types.ClosedReasonDecided)
	gt.Value(t, resolved.Terms).Equal([]string{"refund deposit"})

	stored := env.stored(t, c.ID)
	gt.Value(t, stored.Stage).Equal(types.StageResolved)
	gt.Value(t, stored.Hearings[0].ItemsForComplainant).Equal([]string{"ID card", "lease"})
}

func TestCaseUseCase_AddHearing(t *testing.T) {
	t.Run("duplicate hearing keeps the existing one", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := officerCtx(officerID)
		c := env.caseAtStage(t, types.StageHearing)

		_, err := env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyRespondent, "contract"))
		gt.NoError(t, err).Required()

		second := hearingDraft(types.PartyRespondent)
		second.Venue = "Room Z"
		_, err = env.uc.Case.AddHearing(ctx, c.ID, second)
		gt.Error(t, err).Is(model.ErrDuplicateHearing)

		stored := env.stored(t, c.ID)
		gt.Array(t, stored.Hearings).Length(1).Required()
		gt.Value(t, stored.Hearings[0].Venue).Equal("Room A")
		gt.Value(t, stored.Hearings[0].ItemsForRespondent).Equal([]string{"contract"})
	})

	t.Run("empty date is rejected and nothing is saved", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := officerCtx(officerID)
		c := env.caseAtStage(t, types.StageHearing)

		draft := hearingDraft(types.PartyRespondent)
		draft.Date = ""
		_, err := env.uc.Case.AddHearing(ctx, c.ID, draft)
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Array(t, env.stored(t, c.ID).Hearings).Length(0)
	})

	t.Run("pending item text is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := officerCtx(officerID)
		c := env.caseAtStage(t, types.StageHearing)

		draft := hearingDraft(types.PartyComplainant)
		draft.PendingItem = "passport"
		_, err := env.uc.Case.AddHearing(ctx, c.ID, draft)
		gt.Error(t, err).Is(model.ErrUnsavedInput)
	})

	t.Run("venue allow-list and default items from workflow", func(t *testing.T) {
		env := newTestEnv(t, usecase.WithWorkflow(&config.Workflow{
			Venues: []config.Venue{{ID: "room-a", Name: "Room A"}},
			DefaultItems: map[types.PartyRole][]string{
				types.PartyComplainant: {"photo ID"},
			},
		}))
		ctx := officerCtx(officerID)
		c := env.caseAtStage(t, types.StageHearing)

		bad := hearingDraft(types.PartyComplainant)
		bad.Venue = "Parking lot"
		_, err := env.uc.Case.AddHearing(ctx, c.ID, bad)
		gt.Error(t, err).Is(usecase.ErrVenueNotAllowed)

		updated, err := env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyComplainant, "receipt"))
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Hearings[0].ItemsForComplainant).Equal([]string{"photo ID", "receipt"})
	})
}

func TestCaseUseCase_UploadInvestigationFiles(t *testing.T) {
	t.Run("wrong stage", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.fileCase(t)

		_, err := env.uc.Case.UploadInvestigationFiles(officerCtx(officerID), c.ID, []usecase.Upload{upload("a.txt", "a")})
		gt.Error(t, err).Is(model.ErrWrongStage)
		gt.Array(t, env.stored(t, c.ID).Documents).Length(0)
	})

	t.Run("no files", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.caseAtStage(t, types.StageInvestigation)

		_, err := env.uc.Case.UploadInvestigationFiles(officerCtx(officerID), c.ID, nil)
		gt.Error(t, err).Is(usecase.ErrNoFiles)
	})

	t.Run("storage failure appends nothing", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithFileStorage(failingStorage{}))
		ctx := officerCtx(officerID)

		c, err := uc.Case.FileComplaint(context.Background(), usecase.Complaint{
			Complainant: model.Party{Name: "A"}, Respondent: model.Party{Name: "B"}, Description: "d",
		})
		gt.NoError(t, err).Required()
		_, err = uc.Case.DecideMandate(ctx, c.ID, types.MandateWithin)
		gt.NoError(t, err).Required()

		_, err = uc.Case.UploadInvestigationFiles(ctx, c.ID, []usecase.Upload{upload("a.txt", "a"), upload("b.txt", "b")})
		gt.Value(t, err).NotNil()

		stored, err := repo.Case().Get(context.Background(), c.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored.Documents).Length(0)
	})

	t.Run("partial storage failure removes stored files", func(t *testing.T) {
		repo := memory.New()
		fs := newCountingStorage("_b.txt")
		uc := usecase.New(repo, usecase.WithFileStorage(fs))
		ctx := officerCtx(officerID)

		c, err := uc.Case.FileComplaint(context.Background(), usecase.Complaint{
			Complainant: model.Party{Name: "A"}, Respondent: model.Party{Name: "B"}, Description: "d",
		})
		gt.NoError(t, err).Required()
		_, err = uc.Case.DecideMandate(ctx, c.ID, types.MandateWithin)
		gt.NoError(t, err).Required()

		_, err = uc.Case.UploadInvestigationFiles(ctx, c.ID, []usecase.Upload{
			upload("a.txt", "a"), upload("b.txt", "b"), upload("c.txt", "c"),
		})
		gt.Value(t, err).NotNil()

		_, files := fs.counts()
		gt.Number(t, files).Equal(0)

		stored, err := repo.Case().Get(context.Background(), c.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, stored.Documents).Length(0)
	})
}

func TestCaseUseCase_GetCaseByRef(t *testing.T) {
	env := newTestEnv(t)
	c := env.caseAtStage(t, types.StageHearing)
	ctx := officerCtx(officerID)

	_, err := env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyComplainant, "lease"))
	gt.NoError(t, err).Required()
	_, err = env.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyRespondent, "contract"))
	gt.NoError(t, err).Required()

	view, err := env.uc.Case.GetCaseByRef(context.Background(), c.RespondentRefID)
	gt.NoError(t, err).Required()
	gt.Value(t, view.Role).Equal(types.PartyRespondent)
	gt.Value(t, view.RefID).Equal(c.RespondentRefID)
	gt.Value(t, view.AssignedOfficer).Equal("")
	gt.Array(t, view.Hearings).Length(1).Required()
	gt.Value(t, view.Hearings[0].Attendee).Equal(types.PartyRespondent)

	_, err = env.uc.Case.GetCaseByRef(context.Background(), model.NewRefID())
	gt.Error(t, err).Is(model.ErrNotFound)
}
