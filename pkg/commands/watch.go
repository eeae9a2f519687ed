package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/watch"
	"tableflip.dev/dayplan/pkg/timeutil"
)

func addWatch(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	fi := &options.FilterOptions{}
	every := ""

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the dashboard on screen",
		Long: `Show Today and Tomorrow and redraw them when the database changes, every
--every and at local midnight.`,
		Example: `
dayplan watch
dayplan watch --every 15m --tag work
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := openEnv()
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			if every == "" {
				every = e.Config.WatchEvery()
			}
			interval, _, err := timeutil.ParseInterval(every)
			if err != nil {
				return output.HandleError(err)
			}
			d, err := e.detector()
			if err != nil {
				return output.HandleError(err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := watch.Watch{
				Service:  e.Service,
				Detector: d,
				DBPath:   e.Config.DatabasePath(),
				Every:    interval,
				Location: e.TC.Loc(),
				Filter:   fi.Filter(),
				ShowID:   io.ShowID,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&every, "every", "", "Redraw interval, for example 30m or 1h. Defaults to watch.every from the config.")
	options.AddFilterArgs(cmd, fi)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
