package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/timeutil"
)

// OnOptions selects the occurrence of a recurring task.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Occurrence day of a recurring task, example: --on=2024-02-28, --on=tomorrow or --on=-1d. Defaults to today.`)
}

// GetOn returns the local midnight of the selected day.
func (o *OnOptions) GetOn(tc timeutil.Context) (int64, error) {
	return timeutil.ParseDay(o.OnString, tc)
}
