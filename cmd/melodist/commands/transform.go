package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-melody/internal/models"
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
)

type transformOutput struct {
	Operation string             `json:"operation" yaml:"operation"`
	Applied   bool               `json:"applied" yaml:"applied"`
	Notes     []models.NoteEvent `json:"notes" yaml:"notes"`
}

func newTransformCmd(flags *globalFlags) *cobra.Command {
	var (
		file      string
		op        string
		semitones int
		factor    float64
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform a melody file",
		Long: `Apply one transform to a melody file.

Operations:
  transpose   shift every pitch by --semitones
  invert      mirror pitches about the first note
  retrograde  reverse the notes, recomputing start times
  augment     stretch times by --factor (default 2)
  diminish    compress times by --factor (default 2)

An unknown operation prints the melody unchanged with applied: false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mf, err := loadMelody(file)
			if err != nil {
				return err
			}

			name := strings.ToLower(strings.TrimSpace(op))
			out, applied := melody.Apply(models.MelodyFromNoteEvents(mf.Notes), name, semitones, factor)

			return writeResult(cmd, flags, transformOutput{
				Operation: name,
				Applied:   applied,
				Notes:     models.NoteEventsFromMelody(out),
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "melody file (YAML or JSON)")
	f.StringVar(&op, "op", "", "operation: "+strings.Join(melody.Operations, ", "))
	f.IntVar(&semitones, "semitones", 0, "semitones for transpose")
	f.Float64Var(&factor, "factor", 0, "time factor for augment and diminish")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}
