package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/axellelanca/itrules/cmd"
	"github.com/axellelanca/itrules/internal/codec"
	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/spf13/cobra"
)

var (
	urlFlag      string
	commentsFlag string
	fromFlag     string
	toFlag       string
	typeFlag     string
	countFlag    string
	userFlag     string
)

// AddCmd submits one link.
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Report a social media link.",
	Long: `Submits a link to the logger service. The platform is detected from the URL.

Example:
  itrules add --url="https://x.com/someone/status/1" --comments="deepfake"`,
	Run: func(c *cobra.Command, args []string) {
		s := mustSession()
		s.ctrl.SetURL(urlFlag)
		s.ctrl.SetComments(commentsFlag)
		fmt.Printf("Detected platform: %s\n", s.ctrl.Snapshot().Platform)

		ctx, cancel := commandContext()
		defer cancel()
		err := s.ctrl.AddLink(ctx)
		if errors.Is(err, customerrors.ErrEmptyURL) {
			fmt.Fprintln(os.Stderr, "Error: --url must not be empty")
		}
		exitOnError(err)
	},
}

// FetchCmd lists the records of a date range.
var FetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List reported links between two dates.",
	Long: `Dates are local date-times (2006-01-02T15:04) or RFC 3339 values.

Example:
  itrules fetch --from=2024-01-01T00:00 --to=2024-01-31T23:59`,
	Run: func(c *cobra.Command, args []string) {
		s := mustSession()
		s.ctrl.SetRange(fromFlag, toFlag)

		ctx, cancel := commandContext()
		defer cancel()
		exitOnError(s.ctrl.FetchRecords(ctx))
		s.printRecords()
	},
}

// ExportCmd downloads a PDF or DOCX report of a date range.
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a PDF or DOCX report for a date range.",
	Long: `Writes violations_<from>_<to>.<type> into download.dir.

Example:
  itrules export --from=2024-01-01T00:00 --to=2024-01-31T23:59 --type=docx`,
	Run: func(c *cobra.Command, args []string) {
		fileType, err := codec.ParseFileType(typeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		s := mustSession()
		s.ctrl.SetRange(fromFlag, toFlag)

		ctx, cancel := commandContext()
		defer cancel()
		path, err := s.ctrl.Export(ctx, fileType)
		exitOnError(err)
		fmt.Printf("Saved %s\n", path)
	},
}

// LogDownloadCmd records a report download in the audit log.
var LogDownloadCmd = &cobra.Command{
	Use:   "log-download",
	Short: "Record a report download in the audit log.",
	Long: `An unparsable --count is logged as 0 and an empty --user as "unknown".

Example:
  itrules log-download --from=2024-01-01T00:00 --to=2024-01-31T23:59 --count=12 --user=analyst`,
	Run: func(c *cobra.Command, args []string) {
		s := mustSession()
		s.ctrl.SetRange(fromFlag, toFlag)
		s.ctrl.SetDownloadCount(countFlag)
		s.ctrl.SetDownloadUser(userFlag)

		ctx, cancel := commandContext()
		defer cancel()
		exitOnError(s.ctrl.LogDownload(ctx))
		s.printLogs()
	},
}

// LogsCmd prints the audit log, newest first.
var LogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the download audit log.",
	Run: func(c *cobra.Command, args []string) {
		s := mustSession()

		ctx, cancel := commandContext()
		defer cancel()
		s.ctrl.Start(ctx)
		s.printLogs()
	},
}

func addRangeFlags(c *cobra.Command) {
	c.Flags().StringVar(&fromFlag, "from", "", "start of the range (local date-time)")
	c.Flags().StringVar(&toFlag, "to", "", "end of the range (local date-time)")
}

func init() {
	AddCmd.Flags().StringVar(&urlFlag, "url", "", "link to report")
	AddCmd.Flags().StringVar(&commentsFlag, "comments", "", "free-text note")
	AddCmd.MarkFlagRequired("url")

	addRangeFlags(FetchCmd)
	addRangeFlags(ExportCmd)
	ExportCmd.Flags().StringVar(&typeFlag, "type", string(codec.PDF), "report format: pdf or docx")

	addRangeFlags(LogDownloadCmd)
	LogDownloadCmd.Flags().StringVar(&countFlag, "count", "", "number of records downloaded")
	LogDownloadCmd.Flags().StringVar(&userFlag, "user", "", "who downloaded the report")

	cmd.RootCmd.AddCommand(AddCmd, FetchCmd, ExportCmd, LogDownloadCmd, LogsCmd)
}
