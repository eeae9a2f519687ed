package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/runner/mark"
)

type markVerb struct {
	use     string
	aliases []string
	short   string
	field   instance.Field
	value   bool
	// pin verbs take --tomorrow to switch to the tomorrow flag.
	pin bool
}

var markVerbs = []markVerb{
	{use: "complete", aliases: []string{"done", "check"}, short: "Mark a task or today's occurrence complete", field: instance.FieldCompleted, value: true},
	{use: "uncomplete", aliases: []string{"undone", "uncheck"}, short: "Mark a task or occurrence open again", field: instance.FieldCompleted, value: false},
	{use: "pin", short: "Pin a task into today or tomorrow", field: instance.FieldPinnedToday, value: true, pin: true},
	{use: "unpin", short: "Remove a today or tomorrow pin", field: instance.FieldPinnedToday, value: false, pin: true},
}

func addMarks(topLevel *cobra.Command) {
	for _, v := range markVerbs {
		addMark(topLevel, v)
	}
}

func addMark(topLevel *cobra.Command, v markVerb) {
	io := &options.IDOptions{}
	oo := &options.OnOptions{}
	tomorrow := false

	cmd := &cobra.Command{
		Use:     v.use + " <task id>",
		Aliases: v.aliases,
		Short:   v.short,
		Example: `
dayplan ` + v.use + ` <id>
dayplan ` + v.use + ` <recurring id> --on yesterday
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

			on, err := oo.GetOn(e.TC)
			if err != nil {
				return output.HandleError(err)
			}
			field := v.field
			if v.pin && tomorrow {
				field = instance.FieldPinnedTomorrow
			}
			s := mark.Mark{
				Service: e.Service,
				ID:      io.ID,
				Field:   field,
				Value:   v.value,
				On:      on,
				TC:      e.TC,
				ShowID:  io.ShowID,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	if v.pin {
		cmd.Flags().BoolVarP(&tomorrow, "tomorrow", "t", false, "Use the tomorrow pin instead of today.")
	}
	options.AddOnArgs(cmd, oo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
