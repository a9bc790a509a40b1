// Package composer assembles melodies from motifs, contours, harmony and
// rhythm, scores them and refines weak results once.
package composer

import (
	"math"
	"math/rand/v2"

	"github.com/Conceptual-Machines/magda-melody/internal/music/evaluate"
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/motif"
	"github.com/Conceptual-Machines/magda-melody/internal/music/refine"
	"github.com/Conceptual-Machines/magda-melody/internal/music/rhythm"
	"github.com/Conceptual-Machines/magda-melody/internal/music/shape"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

const secondsPerMinute = 60.0

// Result is a generated melody with its evaluation. Score is taken before
// refinement; a refined melody is not scored again.
type Result struct {
	Melody         melody.Melody   `json:"notes"`
	Score          evaluate.Score  `json:"score"`
	Refined        bool            `json:"refined"`
	Refinement     *refine.Report  `json:"refinement,omitempty"`
	Options        Resolved        `json:"options"`
	Primary        motif.Motif     `json:"primary_motif"`
	PrimaryLearned bool            `json:"primary_learned"`
	Segments       []motif.Segment `json:"segments,omitempty"`
}

// Generate resolves p against the standard defaults and composes a melody.
func Generate(rng *rand.Rand, p Params) Result {
	return GenerateWith(rng, p, StandardDefaults)
}

// GenerateWith composes a melody using d as the fallback table.
func GenerateWith(rng *rand.Rand, p Params, d Defaults) Result {
	opts := Resolve(rng, p, d)
	res := Result{Options: opts}

	primary, learned := motif.ChoosePrimary(rng, motif.DefaultCatalog(), opts.Complexity, p.Learned.Motifs)
	offsets, segments := motif.AssignOffsets(rng, primary, opts.Length)
	res.Primary, res.PrimaryLearned, res.Segments = primary, learned, segments

	res.Melody = Assemble(rng, opts, offsets, p.ChordProgression)
	res.Score = evaluate.Evaluate(res.Melody, p.ChordProgression)

	if res.Score.Overall < refine.OverallThreshold {
		scaleNotes := theory.GetScaleNotes(opts.RootPitch, opts.Scale)
		refined, report := refine.RefineInScale(rng, res.Melody, res.Score, p.ChordProgression, scaleNotes)
		res.Melody = refined
		res.Refined = true
		res.Refinement = &report
	}
	return res
}

// Assemble builds the note sequence for resolved options and per-position
// motif offsets. Each pitch is the root plus the motif offset, the contour
// offset and, with a progression, a random tone of the active chord, quantized
// to the scale. Start times accumulate from zero.
func Assemble(rng *rand.Rand, opts Resolved, motifOffsets []int, progression []string) melody.Melody {
	length := opts.Length
	if length <= 0 {
		return melody.Melody{}
	}

	scaleNotes := theory.GetScaleNotes(opts.RootPitch, opts.Scale)
	curve := shape.Generate(opts.Shape, length)
	beat := secondsPerMinute / opts.Tempo

	out := make(melody.Melody, length)
	running := 0.0
	for i := 0; i < length; i++ {
		motifOffset := 0
		if i < len(motifOffsets) {
			motifOffset = motifOffsets[i]
		}

		harmonic := 0
		if len(progression) > 0 {
			harmonic = theory.GetHarmonicAdjustment(rng, theory.ChordAt(progression, i, length))
		}

		raw := int(math.Round(float64(motifOffset) + curve[i] + float64(harmonic)))
		pitch := opts.RootPitch + theory.ConstrainToScale(raw, scaleNotes)

		duration := rhythm.Duration(rng, i, length, opts.Complexity) * beat
		out[i] = melody.Note{
			Pitch:     melody.ClampPitch(pitch),
			Velocity:  melody.ClampVelocity(rhythm.Velocity(rng, i, length, opts.Mood)),
			StartTime: running,
			Duration:  duration,
		}
		running += duration
	}
	return out
}

// seedStream is the fixed PCG stream selector paired with a caller's seed.
const seedStream = 0x6d656c6f6479

// NewRNG returns the generator every stage of one request draws from. The same
// seed always yields the same melody.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), seedStream))
}

// NewSeed draws a fresh non-negative seed for callers that did not supply one.
func NewSeed() int64 {
	return rand.Int64()
}
