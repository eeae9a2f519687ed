package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
	Batch       bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Force interactive prompts even when stdin is not a terminal.`)
	cmd.Flags().BoolVar(&o.Batch, "batch", false,
		`Never prompt.`)
}

// Enabled reports whether prompts should be shown on f.
func (o *InteractiveOptions) Enabled(f *os.File) bool {
	switch {
	case o.Batch:
		return false
	case o.Interactive:
		return true
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
