package casesvc

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
)

// PartyClient exposes the operations of a complainant or respondent identified
// by a reference ID.
type PartyClient struct {
	client      *Client
	ref         model.RefID
	negotiation *Negotiation

	mu   sync.Mutex
	view *model.CaseView
}

// Party returns the projection of the client for the party owning ref
func (c *Client) Party(ref model.RefID) *PartyClient {
	return &PartyClient{
		client:      c,
		ref:         ref,
		negotiation: NewNegotiation(),
	}
}

func (p *PartyClient) Ref() model.RefID {
	return p.ref
}

// View fetches the role-scoped case and synchronises the negotiation tracker
func (p *PartyClient) View(ctx context.Context) (*model.CaseView, error) {
	view, err := p.client.GetPartyCase(ctx, p.ref)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.view = view
	p.mu.Unlock()

	p.negotiation.Sync(view)
	return view, nil
}

// Cached returns the last fetched view, or nil before the first View call
func (p *PartyClient) Cached() *model.CaseView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// State returns the negotiation state of an appointment
func (p *PartyClient) State(id model.AppointmentID) NegotiationState {
	return p.negotiation.State(id)
}

func (p *PartyClient) role() types.PartyRole {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == nil {
		return ""
	}
	return p.view.Role
}

func (p *PartyClient) identity() PartyRef {
	return PartyRef{Ref: p.ref, Role: p.role()}
}

func (p *PartyClient) negotiate(ctx context.Context, id model.AppointmentID, action Action, call func() error) error {
	if err := p.negotiation.Begin(id, action); err != nil {
		return err
	}
	if err := call(); err != nil {
		p.negotiation.Abort(id)
		return err
	}
	p.negotiation.Complete(id)

	if _, err := p.View(ctx); err != nil {
		logging.From(ctx).Warn("failed to refresh case view", "error", err.Error(), "appointment_id", id)
	}
	return nil
}

func (p *PartyClient) ConfirmAttendance(ctx context.Context, id model.AppointmentID) error {
	return p.negotiate(ctx, id, ActionConfirm, func() error {
		return p.client.ConfirmAttendance(ctx, id, p.identity())
	})
}

func (p *PartyClient) DeclineAttendance(ctx context.Context, id model.AppointmentID) error {
	return p.negotiate(ctx, id, ActionDecline, func() error {
		return p.client.DeclineAttendance(ctx, id, p.identity())
	})
}

// RequestReschedule proposes a new slot. Empty date or time is rejected before
// the tracker or the service is involved.
func (p *PartyClient) RequestReschedule(ctx context.Context, id model.AppointmentID, date, tm string) error {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(tm) == "" {
		return goerr.Wrap(model.ErrValidation, "date and time are required",
			goerr.V(model.AppointmentIDKey, id))
	}
	return p.negotiate(ctx, id, ActionReschedule, func() error {
		return p.client.RequestReschedule(ctx, id, p.identity(), date, tm)
	})
}
