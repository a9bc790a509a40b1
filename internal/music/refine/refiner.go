// Package refine repairs weak spots in a melody with local, criterion-gated
// mutations.
package refine

import (
	"math"
	"math/rand/v2"

	"github.com/Conceptual-Machines/magda-melody/internal/music/evaluate"
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

const (
	// OverallThreshold is the overall score below which the composer refines.
	OverallThreshold = 0.7

	ContourThreshold    = 0.6
	HarmonyThreshold    = 0.6
	RhythmThreshold     = 0.6
	RepetitionThreshold = 0.4

	contourPerturbChance = 0.3
	contourPerturbMax    = 2
	harmonySnapChance    = 0.4
	rhythmPerturbChance  = 0.2
	rhythmPerturbMax     = 0.25
	minDuration          = 0.25
	repetitionWindow     = 3
	repetitionGap        = 2
)

// Report lists what a refinement pass changed.
type Report struct {
	Contour    bool `json:"contour"`
	Harmony    bool `json:"harmony"`
	Rhythm     bool `json:"rhythm"`
	Repetition bool `json:"repetition"`

	PitchesNudged     int `json:"pitches_nudged"`
	PitchesSnapped    int `json:"pitches_snapped"`
	DurationsJittered int `json:"durations_jittered"`
	WindowCopied      int `json:"window_copied_from"`
}

// Refine returns a refined copy of m. Each mutation runs only when its score
// is under threshold; the input melody is never modified and the result is not
// re-scored.
func Refine(rng *rand.Rand, m melody.Melody, score evaluate.Score, progression []string) (melody.Melody, Report) {
	return RefineInScale(rng, m, score, progression, nil)
}

// RefineInScale is Refine for a melody composed in a known scale. Contour
// nudges are quantized back onto scaleNotes, as returned by
// theory.GetScaleNotes. A nil scale leaves nudged pitches as drawn.
func RefineInScale(rng *rand.Rand, m melody.Melody, score evaluate.Score, progression []string, scaleNotes []int) (melody.Melody, Report) {
	out := m.Clone()
	report := Report{WindowCopied: -1}

	if score.Contour < ContourThreshold {
		report.Contour = true
		report.PitchesNudged = smoothContour(rng, out, scaleNotes)
	}
	if score.Harmony < HarmonyThreshold && len(progression) > 0 {
		report.Harmony = true
		report.PitchesSnapped = snapToChords(rng, out, progression)
	}
	if score.Rhythm < RhythmThreshold {
		report.Rhythm = true
		report.DurationsJittered = jitterDurations(rng, out)
	}
	if score.Repetition < RepetitionThreshold {
		report.Repetition = true
		report.WindowCopied = repeatWindow(rng, out)
	}
	return out, report
}

// smoothContour nudges interior notes that sit inside a strictly monotonic
// 3-note run by a random -2..2 semitones, each with 30% probability.
func smoothContour(rng *rand.Rand, m melody.Melody, scaleNotes []int) int {
	changed := 0
	for i := 1; i < len(m)-1; i++ {
		prev, cur, next := m[i-1].Pitch, m[i].Pitch, m[i+1].Pitch
		rising := prev < cur && cur < next
		falling := prev > cur && cur > next
		if !rising && !falling {
			continue
		}
		if rng.Float64() < contourPerturbChance {
			nudged := m[i].Pitch + rng.IntN(2*contourPerturbMax+1) - contourPerturbMax
			m[i].Pitch = quantize(nudged, scaleNotes)
			changed++
		}
	}
	return changed
}

// quantize moves pitch onto the nearest scale degree within its own octave
// above the scale root. Without a scale it only clamps to the MIDI range.
func quantize(pitch int, scaleNotes []int) int {
	if len(scaleNotes) > 0 {
		root := scaleNotes[0]
		degree := ((pitch-root)%12 + 12) % 12
		pitch = pitch - degree + theory.ConstrainToScale(degree, scaleNotes)
	}
	return melody.ClampPitch(pitch)
}

// snapToChords moves notes more than a semitone away from every chord tone
// onto the nearest tone in the same octave, each with 40% probability.
func snapToChords(rng *rand.Rand, m melody.Melody, progression []string) int {
	changed := 0
	for i := range m {
		tones := theory.GetChordTones(theory.ChordAt(progression, i, len(m)))
		tone, dist := theory.NearestChordTone(m[i].Pitch, tones)
		if dist <= 1 {
			continue
		}
		if rng.Float64() < harmonySnapChance {
			octaveBase := m[i].Pitch - theory.PitchClassOf(m[i].Pitch)
			m[i].Pitch = octaveBase + tone
			changed++
		}
	}
	return changed
}

// jitterDurations perturbs about 20% of durations by up to a quarter, never
// going below 0.25.
func jitterDurations(rng *rand.Rand, m melody.Melody) int {
	changed := 0
	for i := range m {
		if rng.Float64() >= rhythmPerturbChance {
			continue
		}
		delta := (rng.Float64()*2 - 1) * rhythmPerturbMax
		m[i].Duration = math.Max(minDuration, m[i].Duration+delta)
		changed++
	}
	return changed
}

// repeatWindow copies the pitches of a random 3-note window into the window
// starting 5 notes later, when it fits. It returns the source start or -1.
func repeatWindow(rng *rand.Rand, m melody.Melody) int {
	if len(m) < repetitionWindow {
		return -1
	}
	start := rng.IntN(len(m) - repetitionWindow + 1)
	target := start + repetitionWindow + repetitionGap
	if target+repetitionWindow > len(m) {
		return -1
	}
	for k := 0; k < repetitionWindow; k++ {
		m[target+k].Pitch = m[start+k].Pitch
	}
	return start
}
