package commands

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

const installPath = "tableflip.dev/dayplan/cmd/dayplan"

func addUpgrade(topLevel *cobra.Command) {
	var to string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade dayplan cli.",
		Example: `
dayplan upgrade
dayplan upgrade --to v0.3.1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			target, err := installTarget(to)
			if err != nil {
				return output.HandleError(err)
			}
			if to == version {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dayplan %s is already installed\n", version)
				return nil
			}
			ex := exec.CommandContext(cmd.Context(), "go", "install", target)
			ex.Stdout = cmd.OutOrStdout()
			ex.Stderr = cmd.ErrOrStderr()
			if err := ex.Run(); err != nil {
				return output.HandleError(fmt.Errorf("%s: %w", ex.String(), err))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dayplan %s -> %s\n", version, to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "latest", "version to install, latest or a vX.Y.Z tag")

	topLevel.AddCommand(cmd)
}

// installTarget is the go install argument for version to.
func installTarget(to string) (string, error) {
	to = strings.TrimSpace(to)
	switch {
	case to == "latest":
	case strings.HasPrefix(to, "v") && len(to) > 1 && !strings.ContainsAny(to, " @/"):
	default:
		return "", fmt.Errorf("invalid version %q, expected latest or a vX.Y.Z tag", to)
	}
	return installPath + "@" + to, nil
}
