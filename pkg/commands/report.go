package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	var last string
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed tasks and occurrences",
		Long: `Report lists what was completed within the time window, one-off tasks by
their last update and recurring tasks by occurrence day.`,
		Example: `
dayplan report
dayplan report --last 3d
dayplan report --last 2w -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := report.Report{
				Service: e.Service,
				Last:    last,
				Now:     time.Now(),
				Output:  fo.Output,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&last, "last", report.DefaultWindow, "time window to include (for example 3d, 1w)")
	options.AddFormatArg(cmd, fo)
	topLevel.AddCommand(cmd)
}
