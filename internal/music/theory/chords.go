package theory

import (
	"math/rand/v2"
	"sort"
	"strings"
)

// Chord qualities carried by the triad table
const (
	QualityMajor      = "major"
	QualityMinor      = "minor"
	QualityDiminished = "diminished"
	QualityAugmented  = "augmented"
)

var triadIntervals = map[string][3]int{
	QualityMajor:      {0, 4, 7},
	QualityMinor:      {0, 3, 7},
	QualityDiminished: {0, 3, 6},
	QualityAugmented:  {0, 4, 8},
}

var qualitySuffixes = map[string]string{
	QualityMajor:      "",
	QualityMinor:      "m",
	QualityDiminished: "dim",
	QualityAugmented:  "aug",
}

// DefaultChordTones is the C major triad substituted for unknown chord symbols.
var DefaultChordTones = [3]int{0, 4, 7}

// chordTable maps every root spelling and triad suffix to its pitch-class set
// (root, third, fifth), e.g. "Dm" -> {2, 5, 9}, "F" -> {5, 9, 0}.
var chordTable = buildChordTable()

func buildChordTable() map[string][3]int {
	table := make(map[string][3]int, len(pitchClasses)*len(qualitySuffixes))
	for root, pc := range pitchClasses {
		for quality, suffix := range qualitySuffixes {
			intervals := triadIntervals[quality]
			var tones [3]int
			for i, interval := range intervals {
				tones[i] = (pc + interval) % semitonesPerOctave
			}
			table[root+suffix] = tones
		}
	}
	return table
}

// LookupChord returns the chord tones for a symbol and whether the symbol was
// found in the table.
func LookupChord(symbol string) ([3]int, bool) {
	tones, ok := chordTable[strings.TrimSpace(symbol)]
	return tones, ok
}

// GetChordTones returns the three chord-tone offsets (0-11) for a symbol.
// Unknown symbols resolve to the C major triad.
func GetChordTones(symbol string) []int {
	tones, ok := LookupChord(symbol)
	if !ok {
		tones = DefaultChordTones
	}
	return []int{tones[0], tones[1], tones[2]}
}

// ChordSymbols lists every symbol in the triad table, sorted.
func ChordSymbols() []string {
	symbols := make([]string, 0, len(chordTable))
	for symbol := range chordTable {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// ChordIndex returns which chord of an n-chord progression is active at note
// index i of a melody with the given length:
// floor(i / (length/n)) mod n. It returns -1 when there is nothing to index.
func ChordIndex(i, length, numChords int) int {
	if numChords <= 0 || length <= 0 {
		return -1
	}
	span := float64(length) / float64(numChords)
	return int(float64(i)/span) % numChords
}

// ChordAt returns the chord symbol active at note index i, or "" when the
// progression is empty.
func ChordAt(progression []string, i, length int) string {
	idx := ChordIndex(i, length, len(progression))
	if idx < 0 {
		return ""
	}
	return progression[idx]
}

// GetHarmonicAdjustment returns one chord tone of the chord, chosen at random.
// It is a stochastic nudge toward the harmony, not a nearest-tone correction.
func GetHarmonicAdjustment(rng *rand.Rand, chord string) int {
	tones := GetChordTones(chord)
	return tones[rng.IntN(len(tones))]
}

// NearestChordTone returns the chord tone closest to the pitch class of pitch
// and the circular distance to it. Earlier tones win ties.
func NearestChordTone(pitch int, tones []int) (int, int) {
	if len(tones) == 0 {
		return PitchClassOf(pitch), 0
	}
	best := tones[0]
	bestDist := PitchClassDistance(pitch, best)
	for _, tone := range tones[1:] {
		if d := PitchClassDistance(pitch, tone); d < bestDist {
			best = tone
			bestDist = d
		}
	}
	return best, bestDist
}
