package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <task id>...",
		Aliases: []string{"rm"},
		Short:   "Delete tasks",
		Long: `Delete tasks. Deleting a recurring task removes every occurrence and
their completion and pins.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least one task id")
			}
			return nil
		},
		ValidArgsFunction: taskCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := remove.Delete{
				Service: e.Service,
				IDs:     args,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func addClean(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := remove.Clean{Service: e.Service}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
