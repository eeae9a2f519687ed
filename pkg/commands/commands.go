package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	output = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "dayplan",
		Short: base.Wrap80("Plan today and tomorrow on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addList(topLevel)
	addGet(topLevel)
	addEdit(topLevel)
	addMarks(topLevel)
	addFinish(topLevel)
	addDelete(topLevel)
	addClean(topLevel)
	addReport(topLevel)
	addCarryover(topLevel)
	addWatch(topLevel)
	addMCP(topLevel)
	addConfig(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
	addVersion(topLevel)
}
