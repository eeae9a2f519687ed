package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the config, where tasks are stored and how many there are.",
		Example: `
dayplan info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := info.Info{
				Config:  e.Config,
				Service: e.Service,
				TC:      e.TC,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
