package melody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMelody() Melody {
	return Melody{
		{Pitch: 60, Velocity: 80, StartTime: 0, Duration: 0.5},
		{Pitch: 64, Velocity: 70, StartTime: 0.5, Duration: 0.25},
		{Pitch: 67, Velocity: 90, StartTime: 0.75, Duration: 1},
		{Pitch: 62, Velocity: 60, StartTime: 1.75, Duration: 0.5},
	}
}

func TestTransposeDoesNotAlias(t *testing.T) {
	m := sampleMelody()
	up := Transpose(m, 5)

	assert.Equal(t, []int{65, 69, 72, 67}, up.Pitches())
	assert.Equal(t, []int{60, 64, 67, 62}, m.Pitches(), "input must be untouched")
}

func TestInvert(t *testing.T) {
	inv := Invert(sampleMelody())
	assert.Equal(t, []int{60, 56, 53, 58}, inv.Pitches())
	assert.Empty(t, Invert(nil))
}

func TestPitchTransformsStayInMIDIRange(t *testing.T) {
	m := sampleMelody()
	assert.Equal(t, []int{127, 127, 127, 127}, Transpose(m, 120).Pitches())
	assert.Equal(t, []int{0, 0, 0, 0}, Transpose(m, -70).Pitches())

	high := Melody{{Pitch: 120, Duration: 1}, {Pitch: 10, Duration: 1}, {Pitch: 125, Duration: 1}}
	assert.Equal(t, []int{120, 127, 115}, Invert(high).Pitches())
	low := Melody{{Pitch: 5, Duration: 1}, {Pitch: 100, Duration: 1}}
	assert.Equal(t, []int{5, 0}, Invert(low).Pitches())
}

func TestClampPitch(t *testing.T) {
	assert.Equal(t, 0, ClampPitch(-3))
	assert.Equal(t, 64, ClampPitch(64))
	assert.Equal(t, 127, ClampPitch(180))
}

func TestRetrograde(t *testing.T) {
	m := sampleMelody()
	r := Retrograde(m)

	require.Len(t, r, 4)
	assert.Equal(t, []int{62, 67, 64, 60}, r.Pitches())
	assert.Equal(t, 60, r[0].Velocity)

	// start times are recomputed from the reversed order
	assert.InDelta(t, 0.0, r[0].StartTime, 1e-9)
	assert.InDelta(t, 0.5, r[1].StartTime, 1e-9)
	assert.InDelta(t, 1.5, r[2].StartTime, 1e-9)
	assert.InDelta(t, 1.75, r[3].StartTime, 1e-9)
}

func TestRetrogradeIsPitchInvolution(t *testing.T) {
	m := Melody{
		{Pitch: 60, Velocity: 80, StartTime: 0, Duration: 1},
		{Pitch: 72, Velocity: 80, StartTime: 3, Duration: 0.5},
		{Pitch: 55, Velocity: 80, StartTime: 3.2, Duration: 2},
	}
	twice := Retrograde(Retrograde(m))
	assert.Equal(t, m.Pitches(), twice.Pitches())
	// the gap before the second note is not restored
	assert.NotEqual(t, m[1].StartTime, twice[1].StartTime)
}

func TestAugmentDiminish(t *testing.T) {
	m := sampleMelody()

	aug := Augment(m, 2)
	assert.InDelta(t, 1.0, aug[0].Duration, 1e-9)
	assert.InDelta(t, 1.5, aug[2].StartTime, 1e-9)

	dim := Diminish(aug, 2)
	for i := range m {
		assert.InDelta(t, m[i].Duration, dim[i].Duration, 1e-9)
		assert.InDelta(t, m[i].StartTime, dim[i].StartTime, 1e-9)
	}

	// non-positive factors fall back to doubling
	assert.InDelta(t, 1.0, Augment(m, 0)[0].Duration, 1e-9)
}

func TestApply(t *testing.T) {
	m := sampleMelody()

	out, ok := Apply(m, OpTranspose, -12, 0)
	assert.True(t, ok)
	assert.Equal(t, 48, out[0].Pitch)

	out, ok = Apply(m, "wobble", 0, 0)
	assert.False(t, ok)
	assert.Equal(t, m, out)
}

func TestEnd(t *testing.T) {
	assert.InDelta(t, 2.25, sampleMelody().End(), 1e-9)
	assert.Equal(t, 0.0, Melody(nil).End())
}
