package ornament

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
)

func TestTrillOneBeat(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	m := melody.Melody{{Pitch: 60, Velocity: 100, StartTime: 2, Duration: 1}}

	out, report := Apply(rng, m, Options{Trill: true})
	require.Len(t, out, 4)
	assert.Equal(t, 1, report.Trills)

	assert.Equal(t, []int{60, 61, 60, 60}, out.Pitches())
	for k := 0; k < 3; k++ {
		assert.Equal(t, 70, out[k].Velocity)
		assert.InDelta(t, 0.1, out[k].Duration, 1e-9)
		assert.InDelta(t, 2+float64(k)*0.1, out[k].StartTime, 1e-9)
	}
	assert.Equal(t, 100, out[3].Velocity)
	assert.InDelta(t, 2.3, out[3].StartTime, 1e-9)
	assert.InDelta(t, 0.7, out[3].Duration, 1e-9)
	assert.InDelta(t, m.End(), out.End(), 1e-9)
}

func TestTrillCappedAtPointEight(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	m := melody.Melody{{Pitch: 70, Velocity: 80, Duration: 4}}

	out, _ := Apply(rng, m, Options{Trill: true})
	require.Len(t, out, 9)
	assert.InDelta(t, 0.8, out[8].StartTime, 1e-9)
	assert.InDelta(t, 3.2, out[8].Duration, 1e-9)
}

func TestTrillSkipsShortNotes(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	m := melody.Melody{{Pitch: 60, Velocity: 80, Duration: 0.5}, {Pitch: 62, Velocity: 80, StartTime: 0.5, Duration: 0.25}}

	out, report := Apply(rng, m, Options{Trill: true})
	assert.Equal(t, m, out)
	assert.Zero(t, report.Trills)
}

func TestGraceNotes(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	m := make(melody.Melody, 100)
	for i := range m {
		m[i] = melody.Note{Pitch: 64, Velocity: 100, StartTime: float64(i) * 0.5, Duration: 0.5}
	}

	out, report := Apply(rng, m, Options{Grace: true})
	require.Equal(t, len(m)+report.GraceNotes, len(out))
	assert.Positive(t, report.GraceNotes)
	assert.Less(t, report.GraceNotes, 60)

	for i, n := range out {
		if n.Pitch != 63 {
			continue
		}
		require.Less(t, i+1, len(out))
		main := out[i+1]
		assert.Equal(t, 64, main.Pitch)
		assert.Equal(t, 60, n.Velocity)
		assert.Equal(t, GraceDuration, n.Duration)
		assert.InDelta(t, max(0, main.StartTime-0.1), n.StartTime, 1e-9)
	}
}

func TestGraceNoteNeverStartsBeforeZero(t *testing.T) {
	m := melody.Melody{{Pitch: 60, Velocity: 90, StartTime: 0.05, Duration: 1}}
	for seed := uint64(0); seed < 30; seed++ {
		out, report := Apply(rand.New(rand.NewPCG(seed, 5)), m, Options{Grace: true})
		if report.GraceNotes == 1 {
			assert.Equal(t, 0.0, out[0].StartTime)
			return
		}
	}
	t.Fatal("no grace note in 30 seeds")
}

func TestTurnIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))
	m := make(melody.Melody, 50)
	for i := range m {
		m[i] = melody.Note{Pitch: 67, Velocity: 90, StartTime: float64(i) * 2, Duration: 2}
	}

	out, report := Apply(rng, m, Options{Turn: true})
	assert.Equal(t, m, out)
	assert.Positive(t, report.TurnsSkipped)
}

func TestApplyNothing(t *testing.T) {
	m := melody.Melody{{Pitch: 60, Velocity: 80, Duration: 2}}
	out, report := Apply(rand.New(rand.NewPCG(7, 7)), m, Options{})
	assert.Equal(t, m, out)
	assert.Equal(t, Report{}, report)
}

func TestParseKinds(t *testing.T) {
	assert.Equal(t, Options{Trill: true, Turn: true}, ParseKinds([]string{" Trill", "turn", "mordent"}))
	assert.Equal(t, Options{}, ParseKinds(nil))
}
