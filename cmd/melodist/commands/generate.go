package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/magda-melody/internal/models"
	"github.com/Conceptual-Machines/magda-melody/internal/music/composer"
	"github.com/Conceptual-Machines/magda-melody/internal/music/counterpoint"
	"github.com/Conceptual-Machines/magda-melody/internal/music/evaluate"
	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/Conceptual-Machines/magda-melody/internal/music/ornament"
	"github.com/Conceptual-Machines/magda-melody/internal/music/refine"
)

// patternsEnv names the default learned pool when --patterns is not given
const patternsEnv = "LEARNED_PATTERNS_PATH"

// generateRequest is the request file format. Flags given on the command line
// override the file.
type generateRequest struct {
	Key              string   `yaml:"key"`
	Scale            string   `yaml:"scale"`
	Length           int      `yaml:"length"`
	Tempo            float64  `yaml:"tempo"`
	Shape            string   `yaml:"shape"`
	Complexity       string   `yaml:"complexity"`
	Mood             string   `yaml:"mood"`
	ChordProgression []string `yaml:"chord_progression"`
	Seed             *int64   `yaml:"seed"`
	Patterns         string   `yaml:"patterns"`
	Counterpoint     string   `yaml:"counterpoint"`
	Ornaments        []string `yaml:"ornaments"`
}

type generateOutput struct {
	Seed         int64              `json:"seed" yaml:"seed"`
	Options      composer.Resolved  `json:"options" yaml:"options"`
	Score        evaluate.Score     `json:"score" yaml:"score"`
	Refined      bool               `json:"refined" yaml:"refined"`
	Refinement   *refine.Report     `json:"refinement,omitempty" yaml:"refinement,omitempty"`
	Notes        []models.NoteEvent `json:"notes" yaml:"notes"`
	Species      string             `json:"species,omitempty" yaml:"species,omitempty"`
	Counterpoint []models.NoteEvent `json:"counterpoint,omitempty" yaml:"counterpoint,omitempty"`
	Ornaments    *ornament.Report   `json:"ornaments,omitempty" yaml:"ornaments,omitempty"`
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var (
		file string
		opts generateRequest
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compose a melody",
		Long: `Compose a melody and print it with its score and resolved options.

Unknown scale, shape, complexity or mood names fall back to defaults; the
output lists every fallback that fired.

Example request file (request.yaml):
  key: A3
  scale: minor
  length: 16
  tempo: 96
  shape: auto
  mood: calm
  chord_progression: [Am, F, C, G]
  patterns: example
  counterpoint: second
  ornaments: [trill, grace]`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req generateRequest
			if file != "" {
				if err := loadRequest(file, &req); err != nil {
					return err
				}
			}
			mergeGenerateFlags(cmd, &req, opts, seed)

			out, err := runGenerate(req)
			if err != nil {
				return err
			}
			return writeResult(cmd, flags, out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "request file (YAML or JSON)")
	f.StringVar(&opts.Key, "key", "", "key, e.g. C, F#, Bb or A3")
	f.StringVar(&opts.Scale, "scale", "", "scale name")
	f.IntVar(&opts.Length, "length", 0, "number of notes")
	f.Float64Var(&opts.Tempo, "tempo", 0, "tempo in BPM")
	f.StringVar(&opts.Shape, "shape", "", "contour shape, or auto to draw from learned patterns")
	f.StringVar(&opts.Complexity, "complexity", "", "simple, medium or complex")
	f.StringVar(&opts.Mood, "mood", "", "mood controlling rhythm and velocity")
	f.StringSliceVar(&opts.ChordProgression, "chords", nil, "chord progression, e.g. C,Am,F,G")
	f.Int64Var(&seed, "seed", 0, "random seed (default random)")
	f.StringVar(&opts.Patterns, "patterns", "", `learned patterns file, or "example" (default $LEARNED_PATTERNS_PATH)`)
	f.StringVar(&opts.Counterpoint, "counterpoint", "", "add a counterpoint voice of this species")
	f.StringSliceVar(&opts.Ornaments, "ornaments", nil, "ornaments to apply: trill, grace, turn")

	return cmd
}

func mergeGenerateFlags(cmd *cobra.Command, req *generateRequest, opts generateRequest, seed int64) {
	f := cmd.Flags()
	if f.Changed("key") {
		req.Key = opts.Key
	}
	if f.Changed("scale") {
		req.Scale = opts.Scale
	}
	if f.Changed("length") {
		req.Length = opts.Length
	}
	if f.Changed("tempo") {
		req.Tempo = opts.Tempo
	}
	if f.Changed("shape") {
		req.Shape = opts.Shape
	}
	if f.Changed("complexity") {
		req.Complexity = opts.Complexity
	}
	if f.Changed("mood") {
		req.Mood = opts.Mood
	}
	if f.Changed("chords") {
		req.ChordProgression = opts.ChordProgression
	}
	if f.Changed("seed") {
		req.Seed = &seed
	}
	if f.Changed("patterns") {
		req.Patterns = opts.Patterns
	}
	if f.Changed("counterpoint") {
		req.Counterpoint = opts.Counterpoint
	}
	if f.Changed("ornaments") {
		req.Ornaments = opts.Ornaments
	}
}

func runGenerate(req generateRequest) (generateOutput, error) {
	if req.Length < 0 || req.Length > maxLength {
		return generateOutput{}, fmt.Errorf("length must be between 1 and %d", maxLength)
	}
	if req.Tempo < 0 {
		return generateOutput{}, fmt.Errorf("tempo must not be negative")
	}

	params := composer.Params{
		Key:              req.Key,
		Scale:            req.Scale,
		Length:           req.Length,
		Tempo:            req.Tempo,
		Shape:            req.Shape,
		Complexity:       req.Complexity,
		Mood:             req.Mood,
		ChordProgression: req.ChordProgression,
	}
	if req.Patterns == "" {
		req.Patterns = os.Getenv(patternsEnv)
	}
	if req.Patterns != "" {
		learned, err := library.Load(req.Patterns)
		if err != nil {
			return generateOutput{}, err
		}
		params.Learned = learned
	}

	seed := composer.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := composer.NewRNG(seed)

	result := composer.Generate(rng, params)
	out := generateOutput{
		Seed:       seed,
		Options:    result.Options,
		Score:      result.Score,
		Refined:    result.Refined,
		Refinement: result.Refinement,
	}

	if req.Counterpoint != "" {
		species, _ := counterpoint.Resolve(req.Counterpoint)
		out.Species = species
		out.Counterpoint = models.NoteEventsFromMelody(counterpoint.Generate(rng, result.Melody, species))
	}

	notes := result.Melody
	if len(req.Ornaments) > 0 {
		var report ornament.Report
		notes, report = ornament.Apply(rng, notes, ornament.ParseKinds(req.Ornaments))
		out.Ornaments = &report
	}
	out.Notes = models.NoteEventsFromMelody(notes)

	return out, nil
}
