// Package rhythm picks note durations by beat salience and velocities by mood.
package rhythm

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// Mood names with their own velocity rule. Any other mood gets the neutral range.
const (
	MoodEnergetic = "energetic"
	MoodCalm      = "calm"
	MoodDramatic  = "dramatic"
	MoodNeutral   = "neutral"
)

// Complexity tags understood by the duration pools
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Durations are in beats.
var (
	strongBeatDurations = []float64{1, 1.5}
	mediumBeatDurations = []float64{0.5, 1}
	weakSimple          = []float64{1, 2}
	weakComplex         = []float64{0.5, 1, 1.5, 2}
	weakDefault         = []float64{0.5, 1, 1.5}
)

// velocityRange is an inclusive uniform range.
type velocityRange struct {
	low, high float64
}

var moodVelocities = map[string]velocityRange{
	MoodEnergetic: {80, 110},
	MoodCalm:      {50, 70},
	MoodNeutral:   {60, 90},
}

const (
	dramaticStrong = 90
	dramaticWeak   = 60
)

// Moods lists the moods with a dedicated velocity rule.
func Moods() []string {
	moods := []string{MoodDramatic}
	for m := range moodVelocities {
		moods = append(moods, m)
	}
	sort.Strings(moods)
	return moods
}

// IsStrongBeat reports whether position i falls on a strong beat (every 4th).
func IsStrongBeat(i int) bool {
	return i%4 == 0
}

// Duration returns a duration in beats for note position i. Strong beats draw
// from {1, 1.5}, medium beats from {0.5, 1}, weak positions from a pool chosen
// by complexity.
func Duration(rng *rand.Rand, i, length int, complexity string) float64 {
	switch {
	case IsStrongBeat(i):
		return pick(rng, strongBeatDurations)
	case i%2 == 0:
		return pick(rng, mediumBeatDurations)
	}

	switch strings.ToLower(complexity) {
	case ComplexitySimple:
		return pick(rng, weakSimple)
	case ComplexityComplex:
		return pick(rng, weakComplex)
	default:
		return pick(rng, weakDefault)
	}
}

// Velocity returns a MIDI velocity for note position i under a mood:
// energetic 80-110, calm 50-70, dramatic 90 on strong beats else 60, anything
// else 60-90. Results are rounded to an integer.
func Velocity(rng *rand.Rand, i, length int, mood string) int {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if mood == MoodDramatic {
		if IsStrongBeat(i) {
			return dramaticStrong
		}
		return dramaticWeak
	}

	r, ok := moodVelocities[mood]
	if !ok {
		r = moodVelocities[MoodNeutral]
	}
	v := r.low + rng.Float64()*(r.high-r.low)
	return int(math.Round(v))
}

func pick(rng *rand.Rand, pool []float64) float64 {
	return pool[rng.IntN(len(pool))]
}
