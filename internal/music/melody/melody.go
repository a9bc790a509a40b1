// Package melody defines the timed note sequence every stage of the composer
// passes around, and the value-returning transforms over it.
package melody

// Note is a single pitched event. Times are in seconds.
type Note struct {
	Pitch     int     `json:"pitch"`
	Velocity  int     `json:"velocity"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// Melody is an ordered list of notes in generation order. Start times are
// non-decreasing when the composer creates a melody; later transforms such as
// Retrograde recompute them from the new order.
type Melody []Note

// Clone returns a copy that shares no backing array with m.
func (m Melody) Clone() Melody {
	if m == nil {
		return nil
	}
	out := make(Melody, len(m))
	copy(out, m)
	return out
}

// Pitches returns the pitch sequence.
func (m Melody) Pitches() []int {
	out := make([]int, len(m))
	for i, n := range m {
		out[i] = n.Pitch
	}
	return out
}

// Durations returns the duration sequence.
func (m Melody) Durations() []float64 {
	out := make([]float64, len(m))
	for i, n := range m {
		out[i] = n.Duration
	}
	return out
}

// End returns the latest note end time.
func (m Melody) End() float64 {
	end := 0.0
	for _, n := range m {
		if e := n.StartTime + n.Duration; e > end {
			end = e
		}
	}
	return end
}

// ClampPitch keeps a pitch inside the MIDI range.
func ClampPitch(p int) int {
	return min(127, max(0, p))
}

// ClampVelocity keeps a velocity inside the MIDI range.
func ClampVelocity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}
