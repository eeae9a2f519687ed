package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/store"
)

func addConfig(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the dayplan config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addConfigShow(cmd)
	addConfigInit(cmd)

	topLevel.AddCommand(cmd)
}

func addConfigShow(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return output.HandleError(err)
			}
			resolved := &store.FileConfig{
				Path:  cfg.DatabasePath(),
				State: cfg.StatePath(),
				Watch: store.WatchConfig{Every: cfg.WatchEvery()},
			}
			format := fo.Output
			if format == "" {
				format = "yaml"
			}
			err = printers.Encode(cmd.OutOrStdout(), format, resolved)
			return output.HandleError(err)
		},
	}

	options.AddFormatArg(cmd, fo)
	topLevel.AddCommand(cmd)
}

func addConfigInit(topLevel *cobra.Command) {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .dayplan.toml",
		Example: `
dayplan config init
dayplan config init --dir ~/.config/dayplan --force
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return output.HandleError(err)
				}
				dir = wd
			}
			path, err := store.WriteConfig(dir, store.DefaultConfig(), force)
			if err != nil {
				return output.HandleError(err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write the config to. Defaults to the working directory.")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.")

	topLevel.AddCommand(cmd)
}
