package theory

import (
	"sort"
	"strings"
)

// DefaultScale is substituted for unknown scale names.
const DefaultScale = "major"

// Scale tables span two octaves so contour offsets up to +24 stay distinguishable
// after quantization. Offsets are ascending and start at 0.
var scaleTables = map[string][]int{
	"major":            twoOctaves(0, 2, 4, 5, 7, 9, 11),
	"minor":            twoOctaves(0, 2, 3, 5, 7, 8, 10),
	"dorian":           twoOctaves(0, 2, 3, 5, 7, 9, 10),
	"mixolydian":       twoOctaves(0, 2, 4, 5, 7, 9, 10),
	"lydian":           twoOctaves(0, 2, 4, 6, 7, 9, 11),
	"phrygian":         twoOctaves(0, 1, 3, 5, 7, 8, 10),
	"locrian":          twoOctaves(0, 1, 3, 5, 6, 8, 10),
	"pentatonic-major": twoOctaves(0, 2, 4, 7, 9),
	"pentatonic-minor": twoOctaves(0, 3, 5, 7, 10),
	"blues":            twoOctaves(0, 3, 5, 6, 7, 10),
}

var scaleAliases = map[string]string{
	"ionian":           "major",
	"aeolian":          "minor",
	"pentatonic_major": "pentatonic-major",
	"pentatonic_minor": "pentatonic-minor",
	"pentatonic":       "pentatonic-major",
}

func twoOctaves(degrees ...int) []int {
	offsets := make([]int, 0, 2*len(degrees)+1)
	for octave := 0; octave < 2; octave++ {
		for _, d := range degrees {
			offsets = append(offsets, d+octave*semitonesPerOctave)
		}
	}
	return append(offsets, 2*semitonesPerOctave)
}

// ResolveScaleName maps a requested scale name onto a table key. The boolean is
// false when the name was unknown and the major scale was substituted.
func ResolveScaleName(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := scaleTables[name]; ok {
		return name, true
	}
	if alias, ok := scaleAliases[name]; ok {
		return alias, true
	}
	return DefaultScale, false
}

// ScaleNames lists the known scale names in sorted order.
func ScaleNames() []string {
	names := make([]string, 0, len(scaleTables))
	for name := range scaleTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScaleOffsets returns a copy of the semitone offsets for a scale name, falling
// back to major.
func ScaleOffsets(scaleName string) []int {
	resolved, _ := ResolveScaleName(scaleName)
	table := scaleTables[resolved]
	out := make([]int, len(table))
	copy(out, table)
	return out
}

// GetScaleNotes returns rootPitch + offset for each entry of the scale table.
func GetScaleNotes(rootPitch int, scaleName string) []int {
	offsets := ScaleOffsets(scaleName)
	for i := range offsets {
		offsets[i] += rootPitch
	}
	return offsets
}

// ConstrainToScale quantizes an offset from scaleNotes[0] onto the nearest scale
// note and returns it again as an offset from scaleNotes[0]. Ties keep the first
// minimal match in table order.
func ConstrainToScale(offset int, scaleNotes []int) int {
	if len(scaleNotes) == 0 {
		return offset
	}

	target := scaleNotes[0] + offset
	closest := scaleNotes[0]
	best := absInt(target - closest)
	for _, note := range scaleNotes[1:] {
		if d := absInt(target - note); d < best {
			closest = note
			best = d
		}
	}
	return closest - scaleNotes[0]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
