package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grievance/pkg/domain/model"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/service/casesvc"
	"github.com/secmon-lab/grievance/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// clientConfig holds flags shared by the case client commands
type clientConfig struct {
	serverURL string
	token     string
}

func (x *clientConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server-url",
			Usage:       "Base URL of the grievance server",
			Value:       "http://localhost:8080",
			Category:    "Client",
			Sources:     cli.EnvVars("GRIEVANCE_SERVER_URL"),
			Destination: &x.serverURL,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Staff bearer token issued by signin",
			Category:    "Client",
			Sources:     cli.EnvVars("GRIEVANCE_TOKEN"),
			Destination: &x.token,
		},
	}
}

func (x *clientConfig) client() (*casesvc.Client, error) {
	var opts []casesvc.Option
	if x.token != "" {
		opts = append(opts, casesvc.WithToken(x.token))
	}
	return casesvc.New(x.serverURL, opts...)
}

func (x *clientConfig) officer() (*casesvc.OfficerClient, error) {
	if x.token == "" {
		return nil, goerr.New("--token is required for staff commands")
	}
	client, err := x.client()
	if err != nil {
		return nil, err
	}
	return client.Officer(), nil
}

func cmdCase() *cli.Command {
	var cfg clientConfig

	return &cli.Command{
		Name:    "case",
		Aliases: []string{"c"},
		Usage:   "Operate on cases through a running server",
		Flags:   cfg.Flags(),
		Commands: []*cli.Command{
			cmdCaseSignIn(&cfg),
			cmdCaseFile(&cfg),
			cmdCaseView(&cfg),
			cmdCaseList(&cfg),
			cmdCaseShow(&cfg),
			cmdCaseAppointments(&cfg),
		},
	}
}

func cmdCaseSignIn(cfg *clientConfig) *cli.Command {
	var staffID, password string

	return &cli.Command{
		Name:  "signin",
		Usage: "Sign in as staff and print a bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "staff-id",
				Required:    true,
				Destination: &staffID,
			},
			&cli.StringFlag{
				Name:        "password",
				Required:    true,
				Sources:     cli.EnvVars("GRIEVANCE_PASSWORD"),
				Destination: &password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			token, err := client.SignIn(ctx, staffID, password)
			if err != nil {
				return goerr.Wrap(err, "failed to sign in", goerr.V("staff_id", staffID))
			}
			_, err = fmt.Fprintln(c.Root().Writer, token)
			return err
		},
	}
}

func cmdCaseFile(cfg *clientConfig) *cli.Command {
	var complaint casesvc.Complaint
	var paths []string

	return &cli.Command{
		Name:  "file",
		Usage: "File a complaint and print the complainant reference ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "complainant-name", Required: true, Destination: &complaint.Complainant.Name},
			&cli.StringFlag{Name: "complainant-email", Destination: &complaint.Complainant.Email},
			&cli.StringFlag{Name: "complainant-phone", Destination: &complaint.Complainant.Phone},
			&cli.StringFlag{Name: "respondent-name", Required: true, Destination: &complaint.Respondent.Name},
			&cli.StringFlag{Name: "respondent-email", Destination: &complaint.Respondent.Email},
			&cli.StringFlag{Name: "respondent-phone", Destination: &complaint.Respondent.Phone},
			&cli.StringFlag{Name: "description", Required: true, Destination: &complaint.Description},
			&cli.StringSliceFlag{Name: "attach", Usage: "Path of a supporting document, repeatable", Destination: &paths},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			files, closeFiles, err := openFiles(paths)
			if err != nil {
				return err
			}
			defer closeFiles()
			complaint.Files = files

			client, err := cfg.client()
			if err != nil {
				return err
			}
			ref, err := client.FileComplaint(ctx, complaint)
			if err != nil {
				return goerr.Wrap(err, "failed to file complaint")
			}
			_, err = fmt.Fprintln(c.Root().Writer, ref)
			return err
		},
	}
}

func cmdCaseView(cfg *clientConfig) *cli.Command {
	var ref string

	return &cli.Command{
		Name:  "view",
		Usage: "Show a party's view of its case",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ref", Usage: "Party reference ID", Required: true, Destination: &ref},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			view, err := client.Party(model.RefID(ref)).View(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get case", goerr.V("ref_id", ref))
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Case:        %s (%s)\n", view.ID, view.Role)
			fmt.Fprintf(w, "Stage:       %s\n", stageLabel(view.Stage))
			fmt.Fprintf(w, "Description: %s\n", view.Description)
			writeAppointments(w, view.Hearings, view.Mediation)
			return nil
		},
	}
}

func cmdCaseList(cfg *clientConfig) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List unassigned cases",
		Action: func(ctx context.Context, c *cli.Command) error {
			officer, err := cfg.officer()
			if err != nil {
				return err
			}
			cases, err := officer.ListUnassigned(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list cases")
			}

			w := c.Root().Writer
			if len(cases) == 0 {
				fmt.Fprintln(w, "No unassigned cases")
				return nil
			}
			for _, cs := range cases {
				fmt.Fprintf(w, "%s  %s  %s vs %s  %s\n",
					cs.ID, cs.CreatedAt.Format("2006-01-02"),
					cs.Complainant, cs.Respondent, stageLabel(cs.Stage))
			}
			return nil
		},
	}
}

func cmdCaseShow(cfg *clientConfig) *cli.Command {
	var id string

	return &cli.Command{
		Name:  "show",
		Usage: "Show the full case document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Case ID", Required: true, Destination: &id},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			officer, err := cfg.officer()
			if err != nil {
				return err
			}
			handle, err := officer.Open(ctx, model.CaseID(id))
			if err != nil {
				return goerr.Wrap(err, "failed to open case", goerr.V("case_id", id))
			}
			writeCase(c.Root().Writer, handle.Case())
			return nil
		},
	}
}

func cmdCaseAppointments(cfg *clientConfig) *cli.Command {
	return &cli.Command{
		Name:  "appointments",
		Usage: "List appointments of the cases assigned to you",
		Action: func(ctx context.Context, c *cli.Command) error {
			officer, err := cfg.officer()
			if err != nil {
				return err
			}
			entries, err := officer.ListAppointments(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list appointments")
			}

			w := c.Root().Writer
			for _, e := range entries {
				a := e.Appointment
				fmt.Fprintf(w, "%s %s  %-9s %s  case %s  %s\n",
					a.Date, a.Time, a.Kind, a.Venue, e.CaseID, stageLabel(e.Stage))
			}
			return nil
		},
	}
}

var (
	stageDone    = color.New(color.FgGreen).SprintFunc()
	stageNew     = color.New(color.FgYellow).SprintFunc()
	stageOngoing = color.New(color.FgCyan).SprintFunc()
)

func stageLabel(s types.Stage) string {
	switch s {
	case types.StageResolved:
		return stageDone(s.String())
	case types.StageInitial:
		return stageNew(s.String())
	default:
		return stageOngoing(s.String())
	}
}

func writeCase(w io.Writer, cs *model.Case) {
	officer := cs.AssignedOfficer
	if officer == "" {
		officer = "(unassigned)"
	}
	fmt.Fprintf(w, "Case:        %s\n", cs.ID)
	fmt.Fprintf(w, "Stage:       %s\n", stageLabel(cs.Stage))
	fmt.Fprintf(w, "Officer:     %s\n", officer)
	fmt.Fprintf(w, "Complainant: %s <%s>\n", cs.Complainant.Name, cs.Complainant.Email)
	fmt.Fprintf(w, "Respondent:  %s <%s>\n", cs.Respondent.Name, cs.Respondent.Email)
	fmt.Fprintf(w, "Description: %s\n", cs.Description)
	if cs.MandateDecision != "" {
		fmt.Fprintf(w, "Mandate:     %s\n", cs.MandateDecision)
	}
	if cs.ClosedReason != "" {
		fmt.Fprintf(w, "Closed:      %s\n", cs.ClosedReason)
	}
	for _, d := range cs.Documents {
		fmt.Fprintf(w, "Document:    %s (%s, %d bytes, by %s)\n", d.Name, d.ContentType, d.Size, d.UploadedBy)
	}
	for _, req := range cs.EvidenceRequests {
		fmt.Fprintf(w, "Evidence:    %s\n", req)
	}
	writeAppointments(w, cs.Hearings, cs.Mediation)
	if cs.MediationOutcome != "" {
		fmt.Fprintf(w, "Outcome:     %s\n", cs.MediationOutcome)
		for _, term := range cs.Terms {
			fmt.Fprintf(w, "  term: %s\n", term)
		}
	}
	if cs.FinalNotes != "" {
		fmt.Fprintf(w, "Notes:       %s\n", cs.FinalNotes)
	}
}

func writeAppointments(w io.Writer, hearings []model.Appointment, mediation *model.Appointment) {
	for _, h := range hearings {
		fmt.Fprintf(w, "Hearing:     %s %s at %s with %s (%s)\n", h.Date, h.Time, h.Venue, h.Attendee, h.ID)
	}
	if mediation != nil {
		fmt.Fprintf(w, "Mediation:   %s %s at %s (%s)\n", mediation.Date, mediation.Time, mediation.Venue, mediation.ID)
	}
}

func openFiles(paths []string) ([]casesvc.File, func(), error) {
	var files []casesvc.File
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			safe.Close(context.Background(), c)
		}
	}

	for _, p := range paths {
		// #nosec G304 - path is provided by CLI flag
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, goerr.Wrap(err, "failed to open attachment", goerr.V("path", p))
		}
		closers = append(closers, f)

		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		files = append(files, casesvc.File{
			Name:        filepath.Base(p),
			ContentType: contentType,
			Content:     f,
		})
	}

	return files, closeAll, nil
}
