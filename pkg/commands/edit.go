package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/edit"
	"tableflip.dev/dayplan/pkg/task"
)

func addEdit(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <task id>",
		Short: "Change a task",
		Long: `Change a task. Only the flags given are applied.

Editing a recurring task changes every occurrence. Occurrences keep their
completion and pins.`,
		Example: `
dayplan edit <id> --title "buy oat milk"
dayplan edit <id> --deadline "friday 17:00"
dayplan edit <id> --every weekly --days tue,thu
dayplan edit <id> --until never
dayplan edit <id> --type none
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

			s := edit.Edit{
				Service: e.Service,
				ID:      io.ID,
				TC:      e.TC,
				Apply: func(t *task.Task) error {
					return to.Apply(cmd.Flags(), t, e.TC)
				},
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddTitleArg(cmd, to)
	options.AddTaskArgs(cmd, to)

	topLevel.AddCommand(cmd)
}
