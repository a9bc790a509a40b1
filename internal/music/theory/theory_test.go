package theory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteNameToMIDI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "middle C", input: "C4", expected: 60},
		{name: "sharp", input: "F#3", expected: 54},
		{name: "flat", input: "Bb2", expected: 46},
		{name: "lowercase letter", input: "e1", expected: 28},
		{name: "negative octave", input: "C-1", expected: 0},
		{name: "clamped high", input: "G10", expected: 127},
		{name: "missing octave", input: "C", wantErr: true},
		{name: "bad letter", input: "H4", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NoteNameToMIDI(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestKeyToRootPitch(t *testing.T) {
	pitch, ok := KeyToRootPitch("C")
	assert.True(t, ok)
	assert.Equal(t, 60, pitch)

	pitch, ok = KeyToRootPitch("Eb")
	assert.True(t, ok)
	assert.Equal(t, 63, pitch)

	pitch, ok = KeyToRootPitch("A3")
	assert.True(t, ok)
	assert.Equal(t, 57, pitch)

	pitch, ok = KeyToRootPitch("not-a-key")
	assert.False(t, ok)
	assert.Equal(t, MiddleC, pitch)
}

func TestPitchName(t *testing.T) {
	assert.Equal(t, "C4", PitchName(60))
	assert.Equal(t, "C#4", PitchName(61))
	assert.Equal(t, "B3", PitchName(59))
	assert.Equal(t, "C-1", PitchName(0))
}

func TestGetScaleNotes(t *testing.T) {
	notes := GetScaleNotes(60, "major")
	require.NotEmpty(t, notes)
	assert.Equal(t, 60, notes[0])
	assert.Equal(t, []int{60, 62, 64, 65, 67, 69, 71, 72}, notes[:8])
	assert.GreaterOrEqual(t, notes[len(notes)-1]-notes[0], 12)

	// unknown names fall back to major
	assert.Equal(t, notes, GetScaleNotes(60, "klingon"))
}

func TestScaleTablesAreAscending(t *testing.T) {
	for _, name := range ScaleNames() {
		offsets := ScaleOffsets(name)
		require.NotEmpty(t, offsets, name)
		assert.Equal(t, 0, offsets[0], name)
		assert.GreaterOrEqual(t, offsets[len(offsets)-1], 12, name)
		for i := 1; i < len(offsets); i++ {
			assert.Greater(t, offsets[i], offsets[i-1], "%s not ascending at %d", name, i)
		}
	}
}

func TestResolveScaleName(t *testing.T) {
	name, ok := ResolveScaleName("Pentatonic_Minor")
	assert.True(t, ok)
	assert.Equal(t, "pentatonic-minor", name)

	name, ok = ResolveScaleName("")
	assert.False(t, ok)
	assert.Equal(t, DefaultScale, name)
}

func TestConstrainToScale(t *testing.T) {
	major := GetScaleNotes(60, "major")

	assert.Equal(t, 0, ConstrainToScale(0, major))
	assert.Equal(t, 4, ConstrainToScale(4, major))
	// 1 is equidistant from 0 and 2, first match wins
	assert.Equal(t, 0, ConstrainToScale(1, major))
	// 6 is equidistant from 5 and 7
	assert.Equal(t, 5, ConstrainToScale(6, major))
	// below and above the table clamp to its ends
	assert.Equal(t, 0, ConstrainToScale(-9, major))
	assert.Equal(t, 24, ConstrainToScale(40, major))
}

func TestConstrainToScaleStaysInScale(t *testing.T) {
	for _, name := range ScaleNames() {
		offsets := ScaleOffsets(name)
		allowed := make(map[int]bool, len(offsets))
		for _, o := range offsets {
			allowed[o] = true
		}
		for root := 48; root < 72; root++ {
			notes := GetScaleNotes(root, name)
			for offset := -30; offset <= 40; offset++ {
				got := ConstrainToScale(offset, notes)
				if !allowed[got] {
					t.Fatalf("%s root %d offset %d -> %d not in scale", name, root, offset, got)
				}
			}
		}
	}
}

func TestGetChordTones(t *testing.T) {
	tests := []struct {
		symbol   string
		expected []int
	}{
		{"C", []int{0, 4, 7}},
		{"Dm", []int{2, 5, 9}},
		{"F", []int{5, 9, 0}},
		{"G", []int{7, 11, 2}},
		{"Am", []int{9, 0, 4}},
		{"Bdim", []int{11, 2, 5}},
		{"Eb", []int{3, 7, 10}},
		{"F#m", []int{6, 9, 1}},
		{"Unknown", []int{0, 4, 7}},
		{"", []int{0, 4, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetChordTones(tt.symbol))
		})
	}
}

func TestChordIndex(t *testing.T) {
	// 8 notes over 4 chords: two notes per chord
	got := make([]int, 8)
	for i := range got {
		got[i] = ChordIndex(i, 8, 4)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3}, got)

	// more chords than notes
	assert.Equal(t, 2, ChordIndex(1, 2, 4))

	assert.Equal(t, -1, ChordIndex(0, 8, 0))
	assert.Equal(t, -1, ChordIndex(0, 0, 4))
	assert.Equal(t, "", ChordAt(nil, 3, 8))
	assert.Equal(t, "G", ChordAt([]string{"C", "G"}, 5, 8))
}

func TestGetHarmonicAdjustment(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		v := GetHarmonicAdjustment(rng, "Dm")
		assert.Contains(t, []int{2, 5, 9}, v)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "every chord tone should be reachable")
}

func TestNearestChordTone(t *testing.T) {
	tone, dist := NearestChordTone(61, []int{0, 4, 7})
	assert.Equal(t, 0, tone)
	assert.Equal(t, 1, dist)

	tone, dist = NearestChordTone(71, []int{0, 4, 7})
	assert.Equal(t, 0, tone)
	assert.Equal(t, 1, dist)

	tone, dist = NearestChordTone(62, []int{0, 4, 7})
	assert.Equal(t, 0, tone, "ties keep the earlier tone")
	assert.Equal(t, 2, dist)
}
