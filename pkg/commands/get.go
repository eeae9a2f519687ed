package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	fo := &options.FormatOptions{}
	months := 0

	cmd := &cobra.Command{
		Use:   "get <task id>",
		Short: "Show one task",
		Example: `
dayplan get 0b5c2d3e-...
dayplan get 0b5c2d3e-... --months 3
dayplan get 0b5c2d3e-... -o json
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

			s := get.Get{
				Service: e.Service,
				ID:      io.ID,
				TC:      e.TC,
				Months:  months,
				Output:  fo.Output,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().IntVar(&months, "months", 1, "Months of occurrences to show for recurring tasks.")
	options.AddFormatArg(cmd, fo)

	topLevel.AddCommand(cmd)
}
