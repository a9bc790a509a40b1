// Package counterpoint derives a second voice against a cantus firmus using
// first, second, third or free species.
package counterpoint

import (
	"math/rand/v2"
	"strings"

	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
)

// Species names
const (
	First  = "first"
	Second = "second"
	Third  = "third"
	Free   = "free"
)

// Default is used for unknown species names.
const Default = First

const (
	// SubdivisionThreshold is the cantus duration at which second and third
	// species split a note.
	SubdivisionThreshold = 1.0

	maxFreeNotes = 3
	minPitch     = 0
	maxPitch     = 127
)

var intervalOffsets = []int{-7, -5, -4, -3, -2, 2, 3, 4, 5, 7}

var correctionSteps = []int{-2, 2}

var speciesNames = []string{First, Second, Third, Free}

// Names lists the supported species.
func Names() []string {
	return append([]string(nil), speciesNames...)
}

// Resolve normalizes a species name. Unknown names resolve to first species
// and report false.
func Resolve(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range speciesNames {
		if s == n {
			return s, true
		}
	}
	return Default, false
}

// Generate returns a counterpoint voice against cantus. The result has at
// least as many notes as the cantus; the cantus is not modified.
func Generate(rng *rand.Rand, cantus melody.Melody, species string) melody.Melody {
	species, _ = Resolve(species)
	out := make(melody.Melody, 0, len(cantus))
	prev := -1

	for _, note := range cantus {
		parts := 1
		switch species {
		case Second:
			if note.Duration >= SubdivisionThreshold {
				parts = 2
			}
		case Third:
			if note.Duration >= SubdivisionThreshold {
				parts = 4
			}
		case Free:
			parts = 1 + rng.IntN(maxFreeNotes)
		}

		step := note.Duration / float64(parts)
		for k := 0; k < parts; k++ {
			pitch := nextPitch(rng, note.Pitch, prev)
			out = append(out, melody.Note{
				Pitch:     pitch,
				Velocity:  note.Velocity,
				StartTime: note.StartTime + float64(k)*step,
				Duration:  step,
			})
			prev = pitch
		}
	}
	return out
}

// nextPitch draws an interval above or below the cantus pitch and shifts it by
// a whole tone when it would form a unison or perfect fifth with prev. A
// negative prev means there is no predecessor.
func nextPitch(rng *rand.Rand, cantusPitch, prev int) int {
	candidate := clampPitch(cantusPitch + intervalOffsets[rng.IntN(len(intervalOffsets))])
	if prev < 0 || !IsForbiddenInterval(candidate, prev) {
		return candidate
	}

	step := correctionSteps[rng.IntN(len(correctionSteps))]
	shifted := candidate + step
	if shifted < minPitch || shifted > maxPitch {
		shifted = candidate - step
	}
	return shifted
}

// IsForbiddenInterval reports whether two pitches form a unison or perfect
// fifth, octaves folded.
func IsForbiddenInterval(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	d %= 12
	return d == 0 || d == 7
}

func clampPitch(p int) int {
	return min(maxPitch, max(minPitch, p))
}
