package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/auth"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/repository/memory"
	"github.com/secmon-lab/grievance/pkg/service/storage"
	"github.com/secmon-lab/grievance/pkg/usecase"
)

const (
	officerID = "S001"
	otherID   = "S002"
)

var fixedNow = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	uc      *usecase.UseCases
	repo    *memory.Memory
	storage *storage.Memory
}

func newTestEnv(t *testing.T, opts ...usecase.Option) *testEnv {
	t.Helper()
	repo := memory.New()
	fs := storage.NewMemory()

	base := []usecase.Option{
		usecase.WithFileStorage(fs),
		usecase.WithClock(func() time.Time { return fixedNow }),
		usecase.WithAuthSecret([]byte("test-secret"), usecase.WithBcryptCost(4)),
	}
	return &testEnv{
		uc:      usecase.New(repo, append(base, opts...)...),
		repo:    repo,
		storage: fs,
	}
}

func officerCtx(id string) context.Context {
	return auth.ContextWithToken(context.Background(), &auth.Token{Sub: id, ExpiresAt: time.Now().Add(time.Hour)})
}

func (e *testEnv) fileCase(t *testing.T) *model.Case {
	t.Helper()
	c, err := e.uc.Case.FileComplaint(context.Background(), usecase.Complaint{
		Complainant: model.Party{Name: "Alice", Email: "alice@example.com"},
		Respondent:  model.Party{Name: "Bob Corp"},
		Description: "Unpaid deposit",
	})
	gt.NoError(t, err).Required()
	return c
}

func (e *testEnv) stored(t *testing.T, id model.CaseID) *model.Case {
	t.Helper()
	c, err := e.repo.Case().Get(context.Background(), id)
	gt.NoError(t, err).Required()
	return c
}

func hearingDraft(role types.PartyRole, items ...string) model.HearingDraft {
	return model.HearingDraft{
		Attendee: role,
		Date:     "2025-04-10",
		Time:     "10:00",
		Venue:    "Room A",
		Purpose:  "statement",
		Items:    items,
	}
}

// caseAtStage files a case and drives it to the stage through the use cases
func (e *testEnv) caseAtStage(t *testing.T, stage types.Stage) *model.Case {
	t.Helper()
	ctx := officerCtx(officerID)
	c := e.fileCase(t)

	steps := []func() (*model.Case, error){
		func() (*model.Case, error) {
			return e.uc.Case.DecideMandate(ctx, c.ID, types.MandateWithin)
		},
		func() (*model.Case, error) {
			return e.uc.Case.Advance(ctx, c.ID, types.StageHearing, model.StagePayload{})
		},
		func() (*model.Case, error) {
			if _, err := e.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyComplainant)); err != nil {
				return nil, err
			}
			if _, err := e.uc.Case.AddHearing(ctx, c.ID, hearingDraft(types.PartyRespondent)); err != nil {
				return nil, err
			}
			return e.uc.Case.Advance(ctx, c.ID, types.StageMediation, model.StagePayload{})
		},
		func() (*model.Case, error) {
			if _, err := e.uc.Case.ScheduleMediation(ctx, c.ID, model.Appointment{
				Date: "2025-04-20", Time: "14:00", Venue: "Room B",
			}); err != nil {
				return nil, err
			}
			return e.uc.Case.Advance(ctx, c.ID, types.StageDecision, model.StagePayload{})
		},
	}

	for _, step := range steps {
		if c.Stage == stage {
			return c
		}
		next, err := step()
		gt.NoError(t, err).Required()
		c = next
	}
	gt.Value(t, c.Stage).Equal(stage)
	return c
}

func upload(name, content string) usecase.Upload {
	return usecase.Upload{Name: name, ContentType: "text/plain", Content: strings.NewReader(content)}
}
