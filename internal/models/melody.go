package models

import (
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

// NoteEvent is a single note on the wire. Times are in seconds.
type NoteEvent struct {
	Pitch     int     `json:"pitch" yaml:"pitch" binding:"min=0,max=127"`
	PitchName string  `json:"pitch_name,omitempty" yaml:"pitch_name,omitempty"`
	Velocity  int     `json:"velocity" yaml:"velocity" binding:"min=0,max=127"`
	StartTime float64 `json:"start_time" yaml:"start_time" binding:"min=0"`
	Duration  float64 `json:"duration" yaml:"duration" binding:"gt=0"`
}

// NoteEventsFromMelody converts a melody for output, filling in pitch names
func NoteEventsFromMelody(m melody.Melody) []NoteEvent {
	events := make([]NoteEvent, len(m))
	for i, n := range m {
		events[i] = NoteEvent{
			Pitch:     n.Pitch,
			PitchName: theory.PitchName(n.Pitch),
			Velocity:  n.Velocity,
			StartTime: n.StartTime,
			Duration:  n.Duration,
		}
	}
	return events
}

// MelodyFromNoteEvents converts request notes into a melody. Pitch names are
// ignored; the pitch number is authoritative.
func MelodyFromNoteEvents(events []NoteEvent) melody.Melody {
	m := make(melody.Melody, len(events))
	for i, e := range events {
		m[i] = melody.Note{
			Pitch:     e.Pitch,
			Velocity:  e.Velocity,
			StartTime: e.StartTime,
			Duration:  e.Duration,
		}
	}
	return m
}
