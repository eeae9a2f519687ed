package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/list"
	"tableflip.dev/dayplan/pkg/view"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	fi := &options.FilterOptions{}
	fo := &options.FormatOptions{}

	long := strings.Builder{}
	long.WriteString("List the tasks of a view. Without a view the dashboard is shown.\n\n")
	long.WriteString("Views:\n")
	validArgs := make([]string, 0, len(view.AllNames()))
	for _, n := range view.AllNames() {
		long.WriteString(fmt.Sprintf("  %s\n", n))
		validArgs = append(validArgs, string(n))
	}

	cmd := &cobra.Command{
		Use:     "list [view]",
		Aliases: []string{"ls", "show"},
		Short:   "List the tasks of a view",
		Long:    long.String(),
		Example: `
dayplan list
dayplan list this_week
dayplan list overdue --tag work
dayplan list bank -o yaml
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: validArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runList(name, io, fi, fo)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddFilterArgs(cmd, fi)
	options.AddFormatArg(cmd, fo)
	addViewShortcuts(topLevel)

	topLevel.AddCommand(cmd)
}

// addViewShortcuts adds "dayplan today" and "dayplan tomorrow".
func addViewShortcuts(topLevel *cobra.Command) {
	for _, n := range []view.Name{view.Today, view.Tomorrow} {
		n := n
		io := &options.IDOptions{}
		fi := &options.FilterOptions{}
		fo := &options.FormatOptions{}

		cmd := &cobra.Command{
			Use:   string(n),
			Short: "List " + n.Title(),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cmd.SilenceUsage = true
				return runList(string(n), io, fi, fo)
			},
		}
		options.AddShowIDArgs(cmd, io)
		options.AddFilterArgs(cmd, fi)
		options.AddFormatArg(cmd, fo)
		topLevel.AddCommand(cmd)
	}
}

func runList(name string, io *options.IDOptions, fi *options.FilterOptions, fo *options.FormatOptions) error {
	v, err := view.ParseName(name)
	if err != nil {
		return output.HandleError(err)
	}
	e, err := openEnv()
	if err != nil {
		return output.HandleError(err)
	}
	defer e.Close()

	d, err := e.detector()
	if err != nil {
		return output.HandleError(err)
	}
	s := list.List{
		Service:  e.Service,
		View:     v,
		Filter:   fi.Filter(),
		TC:       e.TC,
		Detector: d,
		ShowID:   io.ShowID,
		Output:   fo.Output,
	}
	err = s.Do(context.Background())
	return output.HandleError(err)
}
