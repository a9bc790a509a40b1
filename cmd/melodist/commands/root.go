package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"

	// maxLength caps generated and loaded melodies
	maxLength = 4096
)

type globalFlags struct {
	format string
	output string
}

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "melodist",
		Short: "Procedural melody composition and refinement",
		Long: `melodist composes melodies from motifs, contour shapes, scales and
chord progressions, scores them and refines weak results.

Every random choice comes from one seeded generator, so the same seed and
options always produce the same melody. The seed is printed with the result.

Examples:
  melodist generate --key D --scale dorian --shape wave --length 24 --seed 7
  melodist generate -f request.yaml --format json -o melody.json
  melodist evaluate -f melody.yaml --chords C,Am,F,G --refine
  melodist transform -f melody.yaml --op retrograde
  melodist catalog`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// Optional; shares LEARNED_PATTERNS_PATH with the server
			_ = godotenv.Load()

			switch flags.format {
			case formatYAML, formatJSON:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q, use yaml or json", flags.format)
			}
		},
	}

	root.PersistentFlags().StringVarP(&flags.format, "format", "F", formatYAML, "output format (yaml or json)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")

	root.AddCommand(
		newGenerateCmd(flags),
		newEvaluateCmd(flags),
		newTransformCmd(flags),
		newCatalogCmd(flags),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
