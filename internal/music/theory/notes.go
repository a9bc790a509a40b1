// Package theory holds the fixed musical lookup tables the composer draws on:
// pitch names, scales and triads.
package theory

import (
	"fmt"
	"strings"
)

const (
	// MiddleC is the MIDI number of C4.
	MiddleC = 60
	// DefaultOctave is used for keys given without an octave.
	DefaultOctave = 4

	semitonesPerOctave = 12
	minMIDI            = 0
	maxMIDI            = 127
)

// Note semitone offsets from C
var pitchClasses = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4, "Fb": 4,
	"F":  5, "E#": 5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11, "Cb": 11,
}

var sharpNames = [semitonesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns the semitone offset from C for a pitch-class name like
// "C", "F#" or "Bb". The letter is case insensitive.
func PitchClass(name string) (int, bool) {
	root, err := parseRoot(name)
	if err != nil {
		return 0, false
	}
	pc, ok := pitchClasses[root]
	return pc, ok && len(root) == len(strings.TrimSpace(name))
}

// NoteNameToMIDI converts a note name like "E1", "C4", "F#3", "Bb2" to a MIDI note number
// Format: <note><accidental?><octave> where:
//   - note: A-G (case insensitive)
//   - accidental: # (sharp) or b (flat), optional
//   - octave: -1 to 9 (C4 = 60 = middle C)
func NoteNameToMIDI(noteName string) (int, error) {
	noteName = strings.TrimSpace(noteName)
	root, err := parseRoot(noteName)
	if err != nil {
		return 0, err
	}

	octaveStr := noteName[len(root):]
	if octaveStr == "" {
		return 0, fmt.Errorf("missing octave in note name: %s", noteName)
	}

	var octave int
	if _, err := fmt.Sscanf(octaveStr, "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid octave in note name %s: %w", noteName, err)
	}

	// (octave + 1) * 12 + semitone gives C-1 = 0, C4 = 60
	return clampMIDI((octave+1)*semitonesPerOctave + pitchClasses[root]), nil
}

// KeyToRootPitch resolves a key name to the MIDI pitch of its tonic. Bare pitch
// classes sit in octave 4; "A3"-style names keep their octave. The boolean is
// false when the key could not be parsed and middle C was substituted.
func KeyToRootPitch(key string) (int, bool) {
	key = strings.TrimSpace(key)
	if pc, ok := PitchClass(key); ok {
		return MiddleC + pc, true
	}
	if pitch, err := NoteNameToMIDI(key); err == nil {
		return pitch, true
	}
	return MiddleC, false
}

// PitchName renders a MIDI pitch as a sharp-spelled note name, e.g. 61 -> "C#4".
func PitchName(pitch int) string {
	pc := ((pitch % semitonesPerOctave) + semitonesPerOctave) % semitonesPerOctave
	octave := floorDiv(pitch, semitonesPerOctave) - 1
	return fmt.Sprintf("%s%d", sharpNames[pc], octave)
}

// PitchClassOf reduces a pitch to 0-11, also for negative pitches.
func PitchClassOf(pitch int) int {
	return ((pitch % semitonesPerOctave) + semitonesPerOctave) % semitonesPerOctave
}

// PitchClassDistance is the shortest distance between two pitch classes around
// the octave circle (0-6).
func PitchClassDistance(a, b int) int {
	d := PitchClassOf(a - b)
	if d > semitonesPerOctave/2 {
		d = semitonesPerOctave - d
	}
	return d
}

func parseRoot(name string) (string, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("empty note name")
	}

	letter := strings.ToUpper(name[:1])
	if letter < "A" || letter > "G" {
		return "", fmt.Errorf("invalid note letter: %s", letter)
	}

	root := letter
	if len(name) > 1 && (name[1] == '#' || name[1] == 'b') {
		root += name[1:2]
	}

	if _, ok := pitchClasses[root]; !ok {
		return "", fmt.Errorf("invalid root note: %s", root)
	}
	return root, nil
}

func clampMIDI(pitch int) int {
	if pitch < minMIDI {
		return minMIDI
	}
	if pitch > maxMIDI {
		return maxMIDI
	}
	return pitch
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
