package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/store"
)

// FilterOptions narrows listed tasks.
type FilterOptions struct {
	Folder        string
	Tags          []string
	Search        string
	HideCompleted bool
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVar(&o.Folder, "folder", "",
		"Only tasks in this folder.")
	cmd.Flags().StringSliceVar(&o.Tags, "tag", nil,
		"Only tasks with any of these tags.")
	cmd.Flags().StringVarP(&o.Search, "search", "s", "",
		"Only tasks whose title or description contains this text.")
	cmd.Flags().BoolVar(&o.HideCompleted, "hide-completed", false,
		"Leave out completed one-off tasks.")
}

func (o *FilterOptions) Filter() store.Filter {
	return store.Filter{
		FolderID:      o.Folder,
		TagIDs:        o.Tags,
		Search:        o.Search,
		HideCompleted: o.HideCompleted,
	}
}
