package commands

import (
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-melody/internal/music/catalog"
)

func newCatalogCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List accepted scales, shapes, chords, moods and transforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeResult(cmd, flags, catalog.Build())
		},
	}
}
