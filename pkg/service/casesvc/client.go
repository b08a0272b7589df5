package casesvc

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/model/api"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"github.com/secmon-lab/grievance/pkg/utils/safe"
)

const (
	formContentType = "application/x-www-form-urlencoded"
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 8 << 20
)

// Client talks to the case service over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sets the staff bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid case service URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("case service URL must be http or https", goerr.V("url", baseURL))
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authenticated returns a copy of the client sending the given token
func (c *Client) Authenticated(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

// PartyRef identifies the party acting on an appointment. Either field may be
// empty but not both.
type PartyRef struct {
	Ref  model.RefID
	Role types.PartyRole
}

func (p PartyRef) encode(form url.Values, roleField string) {
	if p.Ref != "" {
		form.Set("ref_id", p.Ref.String())
	}
	if p.Role != "" {
		form.Set(roleField, p.Role.String())
	}
}

// File is one document submitted with a complaint or an investigation upload
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Registration is the staff sign up form
type Registration struct {
	StaffID  string
	Password string
	Email    string
	FullName string
}

// Complaint is the public filing form
type Complaint struct {
	Complainant model.Party
	Respondent  model.Party
	Description string
	Files       []File
}

func (c *Client) send(ctx context.Context, method string, u *url.URL, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("url", u.String()))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send request", goerr.V("method", method), goerr.V("path", u.Path))
	}
	defer safe.Close(ctx, resp.Body)

	data, err := safe.ReadAll(resp.Body, maxResponseSize)
	if err != nil {
		return goerr.Wrap(err, "failed to read response", goerr.V("path", u.Path))
	}

	logging.From(ctx).Debug("case service response",
		"method", method,
		"path", u.Path,
		"status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, u.Path, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return goerr.Wrap(ErrService, "failed to decode response",
			goerr.V("path", u.Path), goerr.V("error", err.Error()))
	}
	return nil
}

func decodeError(status int, path string, data []byte) error {
	var fields api.FieldErrorsResponse
	if err := json.Unmarshal(data, &fields); err == nil && len(fields.Errors) > 0 {
		cause := model.ErrValidation
		if status == http.StatusUnauthorized {
			cause = ErrUnauthorized
		}
		return goerr.Wrap(&FieldErrors{cause: cause, Fields: fields.Errors}, "form rejected",
			goerr.V("status", status), goerr.V("path", path))
	}

	var resp api.ErrorResponse
	if err := json.Unmarshal(data, &resp); err != nil || resp.Kind == "" {
		return goerr.Wrap(ErrService, "unexpected error response",
			goerr.V("status", status), goerr.V("path", path), goerr.V("body", string(data)))
	}
	return goerr.Wrap(kindError(resp.Kind), resp.Error,
		goerr.V("status", status), goerr.V("kind", resp.Kind), goerr.V("path", path))
}

func (c *Client) get(ctx context.Context, out any, elem ...string) error {
	return c.send(ctx, http.MethodGet, c.baseURL.JoinPath(elem...), nil, "", out)
}

func (c *Client) postForm(ctx context.Context, form url.Values, out any, elem ...string) error {
	return c.send(ctx, http.MethodPost, c.baseURL.JoinPath(elem...), strings.NewReader(form.Encode()), formContentType, out)
}

// submit posts a mutation and checks the acknowledgement
func (c *Client) submit(ctx context.Context, form url.Values, want types.ResultStatus, elem ...string) error {
	var resp api.ResultResponse
	if err := c.postForm(ctx, form, &resp, elem...); err != nil {
		return err
	}
	return expectStatus(resp.Status, want)
}

func (c *Client) submitMultipart(ctx context.Context, fields url.Values, files []File, out any, elem ...string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				return goerr.Wrap(err, "failed to write form field", goerr.V("field", key))
			}
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
			"name":     "files",
			"filename": f.Name,
		}))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return goerr.Wrap(err, "failed to create file part", goerr.V("filename", f.Name))
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return goerr.Wrap(err, "failed to write file part", goerr.V("filename", f.Name))
		}
	}
	if err := mw.Close(); err != nil {
		return goerr.Wrap(err, "failed to close multipart body")
	}

	return c.send(ctx, http.MethodPost, c.baseURL.JoinPath(elem...), &buf, mw.FormDataContentType(), out)
}

func expectStatus(got, want types.ResultStatus) error {
	if _, err := types.ParseResultStatus(got.String()); err != nil || got != want {
		return goerr.Wrap(ErrService, "unexpected acknowledgement",
			goerr.V("status", got), goerr.V("expected", want))
	}
	return nil
}

// SignUp registers a staff member and returns the issued token
func (c *Client) SignUp(ctx context.Context, reg Registration) (string, error) {
	form := url.Values{
		"staff_id":  {reg.StaffID},
		"password":  {reg.Password},
		"email":     {reg.Email},
		"full_name": {reg.FullName},
	}
	var resp api.TokenResponse
	if err := c.postForm(ctx, form, &resp, "api", "auth", "signup"); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) SignIn(ctx context.Context, staffID, password string) (string, error) {
	form := url.Values{
		"staff_id": {staffID},
		"password": {password},
	}
	var resp api.TokenResponse
	if err := c.postForm(ctx, form, &resp, "api", "auth", "signin"); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// FileComplaint files a case and returns the complainant reference ID
func (c *Client) FileComplaint(ctx context.Context, complaint Complaint) (model.RefID, error) {
	fields := url.Values{"description": {complaint.Description}}
	for prefix, p := range map[string]model.Party{
		"complainant": complaint.Complainant,
		"respondent":  complaint.Respondent,
	} {
		fields.Set(prefix+"_name", p.Name)
		fields.Set(prefix+"_email", p.Email)
		fields.Set(prefix+"_phone", p.Phone)
	}

	var resp api.ResultResponse
	if err := c.submitMultipart(ctx, fields, complaint.Files, &resp, "api", "complaints"); err != nil {
		return "", err
	}
	if err := expectStatus(resp.Status, types.ResultSaved); err != nil {
		return "", err
	}
	if resp.ComplainantRefID == "" {
		return "", goerr.Wrap(ErrService, "complainant reference is missing")
	}
	return model.RefID(resp.ComplainantRefID), nil
}

// GetPartyCase returns the case as seen by the party owning the reference ID
func (c *Client) GetPartyCase(ctx context.Context, ref model.RefID) (*model.CaseView, error) {
	var resp api.Case
	if err := c.get(ctx, &resp, "api", "party", "cases", ref.String()); err != nil {
		return nil, err
	}
	return resp.View(), nil
}

func (c *Client) ListUnassigned(ctx context.Context) ([]api.CaseSummary, error) {
	var resp api.CaseListResponse
	if err := c.get(ctx, &resp, "api", "cases", "unassigned"); err != nil {
		return nil, err
	}
	return resp.Cases, nil
}

func (c *Client) GetCase(ctx context.Context, id model.CaseID) (*model.Case, error) {
	var resp api.Case
	if err := c.get(ctx, &resp, "api", "cases", id.String()); err != nil {
		return nil, err
	}
	return resp.Model(), nil
}

func (c *Client) ListAppointments(ctx context.Context) ([]api.AppointmentEntry, error) {
	var resp api.AppointmentListResponse
	if err := c.get(ctx, &resp, "api", "appointments"); err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

func (c *Client) AssignCase(ctx context.Context, id model.CaseID) error {
	return c.submit(ctx, url.Values{"case_id": {id.String()}}, types.ResultSaved, "api", "cases", "assign")
}

// DecideMandate sends a within or outside ruling. Undecided cannot be expressed
// on the wire and is rejected locally.
func (c *Client) DecideMandate(ctx context.Context, id model.CaseID, decision types.MandateDecision) error {
	if decision != types.MandateWithin && decision != types.MandateOutside {
		return goerr.Wrap(model.ErrValidation, "mandate decision must be within or outside",
			goerr.V(model.FieldKey, "mandate_decision"), goerr.V("decision", decision))
	}
	form := url.Values{
		"case_id":          {id.String()},
		"mandate_decision": {decision.Flag()},
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "mandate")
}

func (c *Client) UploadInvestigationFiles(ctx context.Context, id model.CaseID, files []File) error {
	var resp api.ResultResponse
	if err := c.submitMultipart(ctx, url.Values{"case_id": {id.String()}}, files, &resp,
		"api", "cases", "investigation", "files"); err != nil {
		return err
	}
	return expectStatus(resp.Status, types.ResultUploaded)
}

func (c *Client) AddEvidenceRequest(ctx context.Context, id model.CaseID, request string) error {
	form := url.Values{
		"case_id": {id.String()},
		"request": {request},
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "investigation", "requests")
}

func (c *Client) AddHearing(ctx context.Context, id model.CaseID, draft model.HearingDraft) error {
	form := url.Values{
		"case_id":  {id.String()},
		"attendee": {draft.Attendee.String()},
		"date":     {draft.Date},
		"time":     {draft.Time},
		"venue":    {draft.Venue},
		"purpose":  {draft.Purpose},
		"item[]":   draft.Items,
	}
	if draft.PendingItem != "" {
		form.Set("pending_item", draft.PendingItem)
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "hearings")
}

func (c *Client) ScheduleMediation(ctx context.Context, id model.CaseID, appt model.Appointment) error {
	form := url.Values{
		"case_id":            {id.String()},
		"date":               {appt.Date},
		"time":               {appt.Time},
		"venue":              {appt.Venue},
		"purpose":            {appt.Purpose},
		"item_complainant[]": appt.ItemsForComplainant,
		"item_respondent[]":  appt.ItemsForRespondent,
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "mediation")
}

func (c *Client) RecordDecision(ctx context.Context, id model.CaseID, outcome types.MediationOutcome, terms []string, notes string) error {
	form := url.Values{
		"case_id":     {id.String()},
		"outcome":     {outcome.String()},
		"term[]":      terms,
		"final_notes": {notes},
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "decision")
}

func (c *Client) Advance(ctx context.Context, id model.CaseID, target types.Stage) error {
	form := url.Values{
		"case_id": {id.String()},
		"status":  {target.String()},
	}
	return c.submit(ctx, form, types.ResultSaved, "api", "cases", "status")
}

func (c *Client) ConfirmAttendance(ctx context.Context, id model.AppointmentID, party PartyRef) error {
	form := url.Values{"appointment_id": {id.String()}}
	party.encode(form, "attendee")
	return c.submit(ctx, form, types.ResultSaved, "api", "appointments", "attendance")
}

func (c *Client) DeclineAttendance(ctx context.Context, id model.AppointmentID, party PartyRef) error {
	form := url.Values{"appointment_id": {id.String()}}
	party.encode(form, "attendee")
	return c.submit(ctx, form, types.ResultSaved, "api", "appointments", "attendance", "decline")
}

// RequestReschedule proposes a new slot. Empty date or time never reaches the service.
func (c *Client) RequestReschedule(ctx context.Context, id model.AppointmentID, party PartyRef, date, tm string) error {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(tm) == "" {
		return goerr.Wrap(model.ErrValidation, "date and time are required",
			goerr.V(model.AppointmentIDKey, id), goerr.V("date", date), goerr.V("time", tm))
	}
	form := url.Values{
		"appointment_id": {id.String()},
		"date":           {date},
		"time":           {tm},
	}
	party.encode(form, "requester")
	return c.submit(ctx, form, types.ResultSaved, "api", "appointments", "reschedule")
}

func (c *Client) ApplyReschedule(ctx context.Context, id model.AppointmentID) error {
	return c.submit(ctx, url.Values{"appointment_id": {id.String()}}, types.ResultSaved,
		"api", "appointments", "reschedule", "apply")
}

func (c *Client) DeclineReschedule(ctx context.Context, id model.AppointmentID) error {
	return c.submit(ctx, url.Values{"appointment_id": {id.String()}}, types.ResultSaved,
		"api", "appointments", "reschedule", "decline")
}
