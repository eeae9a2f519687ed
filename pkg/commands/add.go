package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/add"
	"tableflip.dev/dayplan/pkg/task"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `
dayplan add buy milk
dayplan add file taxes --deadline "2024-04-15 17:00"
dayplan add offsite --from 2024-03-04 --to 2024-03-06
dayplan add standup --at "tomorrow 09:30"
dayplan add gym --every weekly --days mon,wed,fri
dayplan add rent --every monthly --day 1 --tag home
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			to.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			t := &task.Task{Title: to.Title}
			if err := to.Apply(cmd.Flags(), t, e.TC); err != nil {
				return output.HandleError(err)
			}
			s := add.Add{
				Service: e.Service,
				Task:    t,
				TC:      e.TC,
				ShowID:  io.ShowID,
				Output:  fo.Output,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddShowIDArgs(cmd, io)
	options.AddFormatArg(cmd, fo)

	topLevel.AddCommand(cmd)
}
