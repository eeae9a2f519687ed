package options

import (
	"github.com/spf13/cobra"
)

// FormatOptions selects a machine readable rendering.
type FormatOptions struct {
	Output string
}

func AddFormatArg(cmd *cobra.Command, o *FormatOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		"Output format. One of 'yaml' or 'json'. Empty prints a table.")
}
