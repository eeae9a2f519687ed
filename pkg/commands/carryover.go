package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/carryover"
	"tableflip.dev/dayplan/pkg/timeutil"
)

func addCarryover(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	in := &options.InteractiveOptions{}
	var action, to string

	cmd := &cobra.Command{
		Use:     "carryover",
		Aliases: []string{"morning"},
		Short:   "Resolve what was left open yesterday",
		Long: `On the first run of a new day, list the tasks that were on yesterday's Today
view and are still open, and ask what to do with each one.

Each item is asked about once per day. Without a terminal, or with --batch,
--action is applied to every item; no action leaves them for later.

Actions: complete, pin_today, pin_tomorrow, reschedule, delete, defer.`,
		Example: `
dayplan carryover
dayplan carryover --batch --action pin_today
dayplan carryover --batch --action reschedule --to "monday 09:00"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			d, err := e.detector()
			if err != nil {
				return output.HandleError(err)
			}
			s := carryover.Carryover{
				Detector:    d,
				Now:         timeutil.FromMillis(e.TC.Now, e.TC.Loc()),
				Interactive: in.Enabled(os.Stdin),
				Action:      action,
				To:          to,
				ShowID:      io.ShowID,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Action applied to every item when not prompting.")
	cmd.Flags().StringVar(&to, "to", "", `New moment for --action=reschedule, example: --to="tomorrow 09:00".`)
	options.InteractiveArgs(cmd, in)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
