package evaluate

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
)

func melodyOf(pitches []int, durations ...float64) melody.Melody {
	m := make(melody.Melody, len(pitches))
	t := 0.0
	for i, p := range pitches {
		d := 0.5
		if len(durations) > 0 {
			d = durations[i%len(durations)]
		}
		m[i] = melody.Note{Pitch: p, Velocity: 80, StartTime: t, Duration: d}
		t += d
	}
	return m
}

func TestEvaluateWorkedExample(t *testing.T) {
	m := melodyOf([]int{60, 62, 64, 62, 60, 62, 64, 62})

	s := Evaluate(m, nil)

	assert.InDelta(t, 0.5875, s.Contour, 1e-9)
	assert.InDelta(t, 0.625, s.Rhythm, 1e-9)
	assert.Equal(t, 0.7, s.Harmony)
	assert.InDelta(t, 0.5, s.Repetition, 1e-9)
	assert.InDelta(t, 4.0/12, s.Range, 1e-9)
	assert.InDelta(t, 0.571875, s.Overall, 1e-9)
}

func TestHarmonyWithoutProgressionIsExactly07(t *testing.T) {
	m := melodyOf([]int{60, 61, 62, 63, 64, 65, 66, 67})
	assert.Equal(t, 0.7, Evaluate(m, nil).Harmony)
	assert.Equal(t, 0.7, Evaluate(m, []string{}).Harmony)
}

func TestHarmony(t *testing.T) {
	// C over notes 0-1, G over notes 2-3
	m := melodyOf([]int{60, 62, 67, 65})
	assert.InDelta(t, 0.5, Harmony(m, []string{"C", "G"}), 1e-9)

	// within one semitone counts, across the octave boundary too
	m = melodyOf([]int{71, 61, 66, 68})
	assert.InDelta(t, 1.0, Harmony(m, []string{"C", "G"}), 1e-9)

	// unknown chords judge against C major
	assert.InDelta(t, Harmony(m, []string{"C", "C"}), Harmony(m, []string{"??", "C"}), 1e-9)

	assert.Equal(t, 0.0, Harmony(nil, []string{"C"}))
}

func TestRepetition(t *testing.T) {
	assert.Equal(t, ShortRepetitionScore, Repetition(melodyOf([]int{60, 62, 64})))
	assert.Equal(t, ShortRepetitionScore, Repetition(nil))

	// no repeats clamps up to the floor
	assert.Equal(t, 0.3, Repetition(melodyOf([]int{60, 61, 62, 63, 64, 65})))
	// all repeats clamps down to the ceiling
	assert.Equal(t, 0.8, Repetition(melodyOf([]int{60, 60, 60, 60, 60, 60})))
}

func TestRange(t *testing.T) {
	assert.InDelta(t, 0.5, Range(melodyOf([]int{60, 66})), 1e-9)
	assert.Equal(t, 1.0, Range(melodyOf([]int{60, 72})))
	assert.Equal(t, 1.0, Range(melodyOf([]int{60, 78})))
	assert.Equal(t, 1.0, Range(melodyOf([]int{60, 84})))
	assert.InDelta(t, 0.75, Range(melodyOf([]int{60, 90})), 1e-9)
	assert.InDelta(t, 0.3, Range(melodyOf([]int{20, 100})), 1e-9)
	assert.Equal(t, 0.0, Range(nil))
}

func TestRhythm(t *testing.T) {
	// four distinct durations saturate variety
	varied := melodyOf([]int{60, 60, 60, 60}, 0.5, 1, 1.5, 2)
	mean := 1.25
	variance := (0.5625 + 0.0625 + 0.0625 + 0.5625) / 4
	expected := (1 + (1 - variance/(mean*mean))) / 2
	assert.InDelta(t, expected, Rhythm(varied), 1e-9)

	assert.Equal(t, 0.0, Rhythm(nil))
}

func TestContourEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, Contour(nil))
	// a single note: no changes, no movement
	assert.InDelta(t, 0.35, Contour(melodyOf([]int{60})), 1e-9)
}

func TestEvaluateEmptyMelodyIsFinite(t *testing.T) {
	s := Evaluate(nil, []string{"C", "G"})
	assert.GreaterOrEqual(t, s.Overall, 0.0)
	assert.LessOrEqual(t, s.Overall, 1.0)
}

func TestOverallAlwaysInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewPCG(99, 1))
	progressions := [][]string{nil, {"C"}, {"Am", "F", "C", "G"}, {"X", "Y"}}

	for trial := 0; trial < 300; trial++ {
		n := rng.IntN(40)
		m := make(melody.Melody, n)
		for i := range m {
			m[i] = melody.Note{
				Pitch:    rng.IntN(128),
				Velocity: 64,
				Duration: 0.01 + rng.Float64()*4,
			}
		}
		s := Evaluate(m, progressions[trial%len(progressions)])
		for _, v := range []float64{s.Contour, s.Rhythm, s.Harmony, s.Repetition, s.Range, s.Overall} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}
