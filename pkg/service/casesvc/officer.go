package casesvc

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// OfficerClient exposes the operations available to signed-in staff
type OfficerClient struct {
	client *Client
}

// Officer returns the staff projection of the client. The client must carry a token.
func (c *Client) Officer() *OfficerClient {
	return &OfficerClient{client: c}
}

func (o *OfficerClient) ListUnassigned(ctx context.Context) ([]api.CaseSummary, error) {
	return o.client.ListUnassigned(ctx)
}

func (o *OfficerClient) ListAppointments(ctx context.Context) ([]api.AppointmentEntry, error) {
	return o.client.ListAppointments(ctx)
}

func (o *OfficerClient) ApplyReschedule(ctx context.Context, id model.AppointmentID) error {
	return o.client.ApplyReschedule(ctx, id)
}

func (o *OfficerClient) DeclineReschedule(ctx context.Context, id model.AppointmentID) error {
	return o.client.DeclineReschedule(ctx, id)
}

// Open fetches the case and returns a handle caching it
func (o *OfficerClient) Open(ctx context.Context, id model.CaseID) (*CaseHandle, error) {
	c, err := o.client.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CaseHandle{client: o.client, current: c}, nil
}

// CaseHandle runs officer operations against one case. Each operation is first
// checked against the cached case with the same rules the service applies, and
// the cache is replaced only after the service acknowledged the change.
type CaseHandle struct {
	client  *Client
	mu      sync.Mutex
	current *model.Case
}

// Case returns a copy of the cached case
func (h *CaseHandle) Case() *model.Case {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.Clone()
}

func (h *CaseHandle) Refresh(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refresh(ctx)
}

func (h *CaseHandle) refresh(ctx context.Context) error {
	c, err := h.client.GetCase(ctx, h.current.ID)
	if err != nil {
		return err
	}
	h.current = c
	return nil
}

func (h *CaseHandle) run(ctx context.Context, check func(c *model.Case, now time.Time) (*model.Case, error), call func(id model.CaseID) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if check != nil {
		if _, err := check(h.current, time.Now().UTC()); err != nil {
			return goerr.Wrap(err, "rejected before sending", goerr.V("case_id", h.current.ID))
		}
	}
	if err := call(h.current.ID); err != nil {
		return err
	}
	return h.refresh(ctx)
}

func (h *CaseHandle) Assign(ctx context.Context) error {
	return h.run(ctx, nil, func(id model.CaseID) error {
		return h.client.AssignCase(ctx, id)
	})
}

func (h *CaseHandle) DecideMandate(ctx context.Context, decision types.MandateDecision) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.DecideMandate(c, decision, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.DecideMandate(ctx, id, decision)
	})
}

func (h *CaseHandle) UploadFiles(ctx context.Context, files []File) error {
	return h.run(ctx, func(c *model.Case, _ time.Time) (*model.Case, error) {
		if len(files) == 0 {
			return nil, goerr.Wrap(model.ErrValidation, "at least one file is required")
		}
		return c, model.CheckStage(c, types.StageInvestigation)
	}, func(id model.CaseID) error {
		return h.client.UploadInvestigationFiles(ctx, id, files)
	})
}

func (h *CaseHandle) AddEvidenceRequest(ctx context.Context, request string) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.AddEvidenceRequest(c, request, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.AddEvidenceRequest(ctx, id, request)
	})
}

// AddHearing rejects a duplicate party, a missing slot or an unsaved pending
// item without contacting the service.
func (h *CaseHandle) AddHearing(ctx context.Context, draft model.HearingDraft) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.AddHearing(c, draft, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.AddHearing(ctx, id, draft)
	})
}

func (h *CaseHandle) ScheduleMediation(ctx context.Context, appt model.Appointment) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.ScheduleMediation(c, appt, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.ScheduleMediation(ctx, id, appt)
	})
}

func (h *CaseHandle) RecordDecision(ctx context.Context, outcome types.MediationOutcome, terms []string, notes string) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.RecordDecision(c, outcome, terms, notes, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.RecordDecision(ctx, id, outcome, terms, notes)
	})
}

func (h *CaseHandle) Advance(ctx context.Context, target types.Stage) error {
	return h.run(ctx, func(c *model.Case, now time.Time) (*model.Case, error) {
		return model.Advance(c, target, model.StagePayload{}, c.AssignedOfficer, now)
	}, func(id model.CaseID) error {
		return h.client.Advance(ctx, id, target)
	})
}
