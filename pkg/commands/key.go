package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the legend of marks, badges and views",
		Example: `
dayplan key
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s := key.Key{}
			err := s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
