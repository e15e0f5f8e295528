package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/axellelanca/itrules/cmd"
	"github.com/axellelanca/itrules/internal/app"
	"github.com/axellelanca/itrules/internal/client"
	"github.com/axellelanca/itrules/internal/config"
	"github.com/axellelanca/itrules/internal/download"
	"github.com/axellelanca/itrules/internal/status"
	"github.com/sirupsen/logrus"
)

// session wires a Controller to the configured service and prints every
// status message as it is shown.
type session struct {
	ctrl *app.Controller
	out  io.Writer
}

func newSession(cfg *config.Config, out, errOut io.Writer) (*session, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	api := client.NewClient(cfg.Client.BaseURL, &http.Client{Timeout: cfg.Client.Timeout}, logrus.StandardLogger()).
		WithUserAgent(cfg.Client.UserAgent)

	notifier := status.NewNotifier(cfg.Status.TTL)
	notifier.OnShow(func(m status.Message) {
		w := out
		if m.Kind == status.Error {
			w = errOut
		}
		fmt.Fprintf(w, "[%s] %s\n", m.Kind, m.Text)
	})

	ctrl := app.NewController(api, download.NewDir(cfg.Download.Dir), notifier, app.Options{
		Location: loc,
		Logger:   logrus.StandardLogger(),
	})
	return &session{ctrl: ctrl, out: out}, nil
}

// mustSession builds a session from the global configuration or exits.
func mustSession() *session {
	s, err := newSession(cmd.Cfg, os.Stdout, os.Stderr)
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up client")
	}
	return s
}

// exitOnError exits with status 1; the failure was already printed as a
// status message.
func exitOnError(err error) {
	if err != nil {
		os.Exit(1)
	}
}

func (s *session) printRecords() {
	st := s.ctrl.Snapshot()
	if len(st.Records) == 0 {
		fmt.Fprintln(s.out, "No records.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tURL\tPLATFORM\tRULE VIOLATION\tACTION STATUS\tTIMESTAMP\tCOMMENTS")
	for i, r := range st.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, r.URL, r.Platform, r.RuleViolation, r.ActionStatus, r.Timestamp, r.Comments)
	}
	tw.Flush()
}

func (s *session) printLogs() {
	st := s.ctrl.Snapshot()
	if len(st.Logs) == 0 {
		fmt.Fprintln(s.out, "No download logs.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tCOUNT\tUSER\tTIMESTAMP")
	for _, l := range st.Logs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.FromDate, l.ToDate, l.Count, l.User, l.Timestamp)
	}
	tw.Flush()
}

// render prints the active view.
func (s *session) render() {
	st := s.ctrl.Snapshot()
	fmt.Fprintf(s.out, "== %s ==\n", st.View)
	switch st.View {
	case app.ViewAdd:
		fmt.Fprintf(s.out, "URL:      %s\n", st.URL)
		fmt.Fprintf(s.out, "Platform: %s\n", st.Platform)
		fmt.Fprintf(s.out, "Comments: %s\n", st.Comments)
	case app.ViewRecords:
		fmt.Fprintf(s.out, "From: %s  To: %s\n", st.Range.From, st.Range.To)
		s.printRecords()
	case app.ViewExport:
		fmt.Fprintf(s.out, "From: %s  To: %s\n", st.Range.From, st.Range.To)
	case app.ViewLogs:
		fmt.Fprintf(s.out, "From: %s  To: %s  Count: %s  User: %s\n", st.Range.From, st.Range.To, st.DownloadCount, st.DownloadUser)
		s.printLogs()
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}
