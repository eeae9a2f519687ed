package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/finish"
	"tableflip.dev/dayplan/pkg/timeutil"
)

func addFinish(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	from := ""

	cmd := &cobra.Command{
		Use:   "finish <recurring task id>",
		Short: "Stop a recurring task",
		Long: `Stop a recurring task. Occurrences before the cut keep their state.

Without --from the series is cut at the next occurrence that is not complete.
Cutting at or before the first occurrence turns the task into a completed
one-off task.`,
		Example: `
dayplan finish <id>
dayplan finish <id> --from 2024-06-01
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a task id")
			}
			io.ID = args[0]
			return nil
		},
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := finish.Finish{
				Service: e.Service,
				ID:      io.ID,
				TC:      e.TC,
			}
			if from != "" {
				if s.From, err = timeutil.ParseDay(from, e.TC); err != nil {
					return output.HandleError(err)
				}
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day without occurrences, example: --from=tomorrow.")

	topLevel.AddCommand(cmd)
}
