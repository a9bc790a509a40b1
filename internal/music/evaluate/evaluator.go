// Package evaluate scores a melody on contour, rhythm, harmony, repetition and
// range, and combines them into a weighted overall score.
package evaluate

import (
	"math"

	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

// Criterion weights in the overall score
const (
	WeightContour    = 0.25
	WeightRhythm     = 0.20
	WeightHarmony    = 0.25
	WeightRepetition = 0.15
	WeightRange      = 0.15
)

const (
	// NoHarmonyScore is reported when there is no chord progression to judge against.
	NoHarmonyScore = 0.7
	// ShortRepetitionScore is reported for melodies with fewer than 4 notes.
	ShortRepetitionScore = 0.5

	targetDirectionChangeRatio = 0.3
	movementPerNote            = 7.0
	distinctDurationsTarget    = 4.0
	chordToneTolerance         = 1
	repetitionWindow           = 3
	repetitionFloor            = 0.3
	repetitionCeiling          = 0.8
	idealRangeLow              = 12
	idealRangeHigh             = 24
	rangeFloor                 = 0.3
	durationEpsilon            = 1e-6
)

// Score holds the per-axis scores and the weighted overall score, all in [0,1].
type Score struct {
	Contour    float64 `json:"contour"`
	Rhythm     float64 `json:"rhythm"`
	Harmony    float64 `json:"harmony"`
	Repetition float64 `json:"repetition"`
	Range      float64 `json:"range"`
	Overall    float64 `json:"overall"`
}

// Evaluate scores m against an optional chord progression.
func Evaluate(m melody.Melody, progression []string) Score {
	s := Score{
		Contour:    Contour(m),
		Rhythm:     Rhythm(m),
		Harmony:    Harmony(m, progression),
		Repetition: Repetition(m),
		Range:      Range(m),
	}
	s.Overall = clamp01(WeightContour*s.Contour +
		WeightRhythm*s.Rhythm +
		WeightHarmony*s.Harmony +
		WeightRepetition*s.Repetition +
		WeightRange*s.Range)
	return s
}

// Contour averages a direction-change score, which peaks when about 30% of
// steps reverse direction, and a movement score that saturates at an average
// of 7 semitones of motion per note.
func Contour(m melody.Melody) float64 {
	n := len(m)
	if n == 0 {
		return 0
	}

	changes := 0
	total := 0.0
	prevDelta := 0
	for i := 1; i < n; i++ {
		delta := m[i].Pitch - m[i-1].Pitch
		total += math.Abs(float64(delta))
		if i > 1 && delta*prevDelta < 0 {
			changes++
		}
		prevDelta = delta
	}

	fn := float64(n)
	directionChange := math.Max(0, 1-math.Abs(float64(changes)-targetDirectionChangeRatio*fn)/fn)
	movement := math.Min(1, total/(movementPerNote*fn))
	return clamp01((directionChange + movement) / 2)
}

// Rhythm averages duration variety (saturating at 4 distinct values) and
// consistency (1 - variance/mean^2).
func Rhythm(m melody.Melody) float64 {
	n := len(m)
	if n == 0 {
		return 0
	}

	var distinct []float64
	sum := 0.0
	for _, note := range m {
		sum += note.Duration
		found := false
		for _, d := range distinct {
			if math.Abs(d-note.Duration) < durationEpsilon {
				found = true
				break
			}
		}
		if !found {
			distinct = append(distinct, note.Duration)
		}
	}
	variety := math.Min(1, float64(len(distinct))/distinctDurationsTarget)

	mean := sum / float64(n)
	consistency := 0.0
	if mean > 0 {
		variance := 0.0
		for _, note := range m {
			d := note.Duration - mean
			variance += d * d
		}
		variance /= float64(n)
		consistency = clamp01(1 - variance/(mean*mean))
	}

	return clamp01((variety + consistency) / 2)
}

// Harmony is the fraction of notes whose pitch class lies within one semitone
// of a tone of the chord active at that note's index.
func Harmony(m melody.Melody, progression []string) float64 {
	if len(progression) == 0 {
		return NoHarmonyScore
	}
	if len(m) == 0 {
		return 0
	}

	fitting := 0
	for i, note := range m {
		tones := theory.GetChordTones(theory.ChordAt(progression, i, len(m)))
		if _, dist := theory.NearestChordTone(note.Pitch, tones); dist <= chordToneTolerance {
			fitting++
		}
	}
	return float64(fitting) / float64(len(m))
}

// Repetition compares the number of repeated 3-note pitch windows to the
// number of distinct ones, clamped to [0.3, 0.8].
func Repetition(m melody.Melody) float64 {
	if len(m) < repetitionWindow+1 {
		return ShortRepetitionScore
	}

	seen := make(map[[repetitionWindow]int]bool)
	repeated := 0
	for i := 0; i+repetitionWindow <= len(m); i++ {
		key := [repetitionWindow]int{m[i].Pitch, m[i+1].Pitch, m[i+2].Pitch}
		if seen[key] {
			repeated++
			continue
		}
		seen[key] = true
	}

	ratio := float64(repeated) / float64(len(seen))
	return math.Min(repetitionCeiling, math.Max(repetitionFloor, ratio))
}

// Range rewards a pitch span between one and two octaves.
func Range(m melody.Melody) float64 {
	if len(m) == 0 {
		return 0
	}

	lo, hi := m[0].Pitch, m[0].Pitch
	for _, note := range m[1:] {
		lo = min(lo, note.Pitch)
		hi = max(hi, note.Pitch)
	}
	span := float64(hi - lo)

	switch {
	case span < idealRangeLow:
		return span / idealRangeLow
	case span > idealRangeHigh:
		return math.Max(rangeFloor, 1-(span-idealRangeHigh)/idealRangeHigh)
	default:
		return 1
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
