package commands

import (
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-melody/internal/models"
	"github.com/Conceptual-Machines/magda-melody/internal/music/composer"
	"github.com/Conceptual-Machines/magda-melody/internal/music/evaluate"
	"github.com/Conceptual-Machines/magda-melody/internal/music/refine"
)

type evaluateOutput struct {
	Score      evaluate.Score     `json:"score" yaml:"score"`
	NoteCount  int                `json:"note_count" yaml:"note_count"`
	Seed       *int64             `json:"seed,omitempty" yaml:"seed,omitempty"`
	Refined    bool               `json:"refined" yaml:"refined"`
	Refinement *refine.Report     `json:"refinement,omitempty" yaml:"refinement,omitempty"`
	Notes      []models.NoteEvent `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func newEvaluateCmd(flags *globalFlags) *cobra.Command {
	var (
		file     string
		chords   []string
		doRefine bool
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a melody file",
		Long: `Score a melody on contour, rhythm, harmony, repetition and range.

With --refine, a melody scoring under the refinement threshold gets one
refinement pass and the refined notes are printed. The score shown is the
one taken before refinement.

Example melody file (melody.yaml):
  chord_progression: [C, G]
  notes:
    - {pitch: 60, velocity: 90, start_time: 0, duration: 0.5}
    - {pitch: 64, velocity: 90, start_time: 0.5, duration: 0.5}`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mf, err := loadMelody(file)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("chords") {
				mf.ChordProgression = chords
			}
			if !cmd.Flags().Changed("seed") {
				seed = composer.NewSeed()
			}
			return writeResult(cmd, flags, runEvaluate(mf, doRefine, seed))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "melody file (YAML or JSON)")
	f.StringSliceVar(&chords, "chords", nil, "chord progression, overrides the file")
	f.BoolVar(&doRefine, "refine", false, "refine the melody when it scores under threshold")
	f.Int64Var(&seed, "seed", 0, "random seed for refinement (default random)")

	return cmd
}

func runEvaluate(mf melodyFile, doRefine bool, seed int64) evaluateOutput {
	m := models.MelodyFromNoteEvents(mf.Notes)
	score := evaluate.Evaluate(m, mf.ChordProgression)
	out := evaluateOutput{Score: score, NoteCount: len(m)}

	if doRefine && score.Overall < refine.OverallThreshold {
		refined, report := refine.Refine(composer.NewRNG(seed), m, score, mf.ChordProgression)
		out.Seed = &seed
		out.Refined = true
		out.Refinement = &report
		out.Notes = models.NoteEventsFromMelody(refined)
	}
	return out
}
