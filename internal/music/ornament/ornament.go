// Package ornament decorates a finished melody with trills and grace notes.
package ornament

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
)

const (
	TrillMinDuration = 0.5
	TrillStep        = 0.1
	TrillMaxLength   = 0.8
	TrillShare       = 0.3
	TrillVelocity    = 0.7

	GraceChance   = 0.3
	GraceLead     = 0.1
	GraceDuration = 0.08
	GraceVelocity = 0.6

	TurnMinDuration = 1.0
	TurnChance      = 0.2
)

// Options selects which ornaments to apply.
type Options struct {
	Trill bool `json:"trill"`
	Grace bool `json:"grace"`
	Turn  bool `json:"turn"`
}

// Ornament kinds
const (
	KindTrill = "trill"
	KindGrace = "grace"
	KindTurn  = "turn"
)

// Kinds lists the ornament kinds Options can select.
func Kinds() []string {
	return []string{KindTrill, KindGrace, KindTurn}
}

// ParseKinds builds Options from kind names. Unknown names are ignored.
func ParseKinds(kinds []string) Options {
	var opts Options
	for _, k := range kinds {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case KindTrill:
			opts.Trill = true
		case KindGrace:
			opts.Grace = true
		case KindTurn:
			opts.Turn = true
		}
	}
	return opts
}

// Report counts the ornaments a pass produced.
type Report struct {
	Trills     int `json:"trills"`
	GraceNotes int `json:"grace_notes"`

	// TurnsSkipped counts notes that passed the turn gate. Turns have no note
	// content yet, so these notes are left as they are.
	TurnsSkipped int `json:"turns_skipped"`
}

// Apply returns an ornamented copy of m.
func Apply(rng *rand.Rand, m melody.Melody, opts Options) (melody.Melody, Report) {
	var report Report
	out := make(melody.Melody, 0, len(m))

	for _, note := range m {
		if opts.Grace && rng.Float64() < GraceChance {
			out = append(out, graceNote(note))
			report.GraceNotes++
		}

		if opts.Trill && note.Duration > TrillMinDuration {
			out = append(out, trill(note)...)
			report.Trills++
		} else {
			out = append(out, note)
		}

		if opts.Turn && note.Duration > TurnMinDuration && rng.Float64() < TurnChance {
			report.TurnsSkipped++
		}
	}
	return out, report
}

// trill alternates the pitch and the semitone above every 0.1s for
// min(0.3*duration, 0.8) seconds, then holds the main note for the rest.
func trill(note melody.Note) []melody.Note {
	length := math.Min(TrillShare*note.Duration, TrillMaxLength)
	steps := max(1, int(math.Floor(length/TrillStep+1e-9)))
	vel := scaleVelocity(note.Velocity, TrillVelocity)

	notes := make([]melody.Note, 0, steps+1)
	for k := 0; k < steps; k++ {
		notes = append(notes, melody.Note{
			Pitch:     melody.ClampPitch(note.Pitch + k%2),
			Velocity:  vel,
			StartTime: note.StartTime + float64(k)*TrillStep,
			Duration:  TrillStep,
		})
	}

	played := float64(steps) * TrillStep
	main := note
	main.StartTime = note.StartTime + played
	main.Duration = note.Duration - played
	return append(notes, main)
}

func graceNote(note melody.Note) melody.Note {
	return melody.Note{
		Pitch:     melody.ClampPitch(note.Pitch - 1),
		Velocity:  scaleVelocity(note.Velocity, GraceVelocity),
		StartTime: math.Max(0, note.StartTime-GraceLead),
		Duration:  GraceDuration,
	}
}

func scaleVelocity(v int, factor float64) int {
	return melody.ClampVelocity(int(math.Round(float64(v) * factor)))
}
