package melody

const defaultTimeFactor = 2.0

// Transform operation names
const (
	OpTranspose  = "transpose"
	OpInvert     = "invert"
	OpRetrograde = "retrograde"
	OpAugment    = "augment"
	OpDiminish   = "diminish"
)

// Operations lists the transform names Apply understands.
var Operations = []string{OpTranspose, OpInvert, OpRetrograde, OpAugment, OpDiminish}

// Transpose shifts every pitch by semitones, clamped to the MIDI range.
func Transpose(m Melody, semitones int) Melody {
	out := m.Clone()
	for i := range out {
		out[i].Pitch = ClampPitch(out[i].Pitch + semitones)
	}
	return out
}

// Invert mirrors every pitch about the first note's pitch, clamped to the
// MIDI range.
func Invert(m Melody) Melody {
	out := m.Clone()
	if len(out) == 0 {
		return out
	}
	axis := out[0].Pitch
	for i := range out {
		out[i].Pitch = ClampPitch(2*axis - out[i].Pitch)
	}
	return out
}

// Retrograde reverses note order. Start times are laid out again from the
// reversed order beginning at the original first start time, so they are not
// restored by a second retrograde when the melody had gaps or overlaps.
func Retrograde(m Melody) Melody {
	out := make(Melody, len(m))
	if len(m) == 0 {
		return out
	}
	t := m[0].StartTime
	for i := range m {
		n := m[len(m)-1-i]
		n.StartTime = t
		t += n.Duration
		out[i] = n
	}
	return out
}

// Augment stretches durations and start times by factor.
func Augment(m Melody, factor float64) Melody {
	if factor <= 0 {
		factor = defaultTimeFactor
	}
	return scaleTime(m, factor)
}

// Diminish compresses durations and start times by factor.
func Diminish(m Melody, factor float64) Melody {
	if factor <= 0 {
		factor = defaultTimeFactor
	}
	return scaleTime(m, 1/factor)
}

func scaleTime(m Melody, k float64) Melody {
	out := m.Clone()
	for i := range out {
		out[i].StartTime *= k
		out[i].Duration *= k
	}
	return out
}

// Apply runs a named transform. Unknown names return an unchanged copy and false.
func Apply(m Melody, op string, semitones int, factor float64) (Melody, bool) {
	switch op {
	case OpTranspose:
		return Transpose(m, semitones), true
	case OpInvert:
		return Invert(m), true
	case OpRetrograde:
		return Retrograde(m), true
	case OpAugment:
		return Augment(m, factor), true
	case OpDiminish:
		return Diminish(m, factor), true
	default:
		return m.Clone(), false
	}
}
