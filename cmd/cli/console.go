package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/axellelanca/itrules/cmd"
	"github.com/axellelanca/itrules/internal/app"
	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/spf13/cobra"
)

const consoleHelp = `Commands:
  view <add|view|export|logs>   switch view
  show                          print the current view
  url <link>                    set the link to report
  comments <text>               set the comments
  from <date-time>              set the start of the range
  to <date-time>                set the end of the range
  count <n>                     set the downloaded record count
  user <name>                   set who downloaded the report
  add                           submit the link
  fetch                         list records of the range
  export <pdf|docx>             download a report of the range
  log                           record a download in the audit log
  logs                          reload the audit log
  help                          show this help
  quit                          leave the console`

// ConsoleCmd runs an interactive session that keeps its state between
// commands, one line at a time.
var ConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive session against the logger service.",
	Run: func(c *cobra.Command, args []string) {
		s := mustSession()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := runConsole(ctx, s, os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runConsole(ctx context.Context, s *session, in io.Reader) error {
	s.ctrl.Start(ctx)
	fmt.Fprintln(s.out, "Type 'help' for commands.")
	s.render()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)
		if name == "quit" || name == "exit" {
			return nil
		}
		execLine(ctx, s, name, arg)
	}
}

// execLine runs one console command. Operation failures are already shown
// as status messages, so only usage errors are printed here.
func execLine(ctx context.Context, s *session, name, arg string) {
	ctrl := s.ctrl
	var err error

	switch name {
	case "":
	case "help":
		fmt.Fprintln(s.out, consoleHelp)
	case "show":
		s.render()
	case "view":
		var v app.View
		if v, err = app.ParseView(arg); err == nil {
			ctrl.Navigate(v)
			s.render()
		}
	case "url":
		ctrl.SetURL(arg)
		fmt.Fprintf(s.out, "Platform: %s\n", ctrl.Snapshot().Platform)
	case "comments":
		ctrl.SetComments(arg)
	case "from":
		ctrl.SetRange(arg, ctrl.Snapshot().Range.To)
	case "to":
		ctrl.SetRange(ctrl.Snapshot().Range.From, arg)
	case "count":
		ctrl.SetDownloadCount(arg)
	case "user":
		ctrl.SetDownloadUser(arg)
	case "add":
		if err = ctrl.AddLink(ctx); errors.Is(err, customerrors.ErrEmptyURL) {
			err = errors.New("set a url first")
		} else {
			err = busyOnly(err)
		}
	case "fetch":
		if err = ctrl.FetchRecords(ctx); err == nil {
			s.render()
		}
		err = busyOnly(err)
	case "export":
		var ft codec.FileType
		if ft, err = codec.ParseFileType(arg); err == nil {
			var path string
			if path, err = ctrl.Export(ctx, ft); err == nil {
				fmt.Fprintf(s.out, "Saved %s\n", path)
			}
			err = busyOnly(err)
		}
	case "log":
		if err = ctrl.LogDownload(ctx); err == nil && ctrl.Snapshot().View == app.ViewLogs {
			s.printLogs()
		}
		err = nil
	case "logs":
		ctrl.LoadLogs(ctx)
		s.printLogs()
	default:
		err = fmt.Errorf("unknown command %q, type 'help'", name)
	}

	if err != nil {
		fmt.Fprintf(s.out, "! %v\n", err)
	}
}

// busyOnly keeps the errors the status line does not already report.
func busyOnly(err error) error {
	if errors.Is(err, customerrors.ErrBusy) {
		return err
	}
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(ConsoleCmd)
}
