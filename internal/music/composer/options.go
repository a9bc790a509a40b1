package composer

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/Conceptual-Machines/magda-melody/internal/music/rhythm"
	"github.com/Conceptual-Machines/magda-melody/internal/music/shape"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

// Params are the caller's generation parameters. Zero values and unknown
// names are allowed; Resolve substitutes documented defaults for them.
type Params struct {
	Key              string
	Scale            string
	Length           int
	Tempo            float64
	Shape            string
	Complexity       string
	Mood             string
	ChordProgression []string
	Learned          library.LearnedPatterns
}

// Defaults is the fallback table applied by Resolve.
type Defaults struct {
	Key        string
	Scale      string
	Shape      string
	Complexity string
	Mood       string
	Tempo      float64
	Length     int
}

// StandardDefaults: C major, arch, medium complexity, neutral mood, 120 BPM,
// 16 notes.
var StandardDefaults = Defaults{
	Key:        "C",
	Scale:      theory.DefaultScale,
	Shape:      shape.Default,
	Complexity: rhythm.ComplexityMedium,
	Mood:       rhythm.MoodNeutral,
	Tempo:      120,
	Length:     16,
}

// Fallback records one substitution made while resolving parameters.
type Fallback struct {
	Field     string `json:"field"`
	Requested string `json:"requested"`
	Used      string `json:"used"`
}

// Resolved holds the parameters a generation actually used.
type Resolved struct {
	Key        string     `json:"key"`
	RootPitch  int        `json:"root_pitch"`
	Scale      string     `json:"scale"`
	Length     int        `json:"length"`
	Tempo      float64    `json:"tempo"`
	Shape      string     `json:"shape"`
	Complexity string     `json:"complexity"`
	Mood       string     `json:"mood"`
	Fallbacks  []Fallback `json:"fallbacks,omitempty"`
}

var complexities = []string{rhythm.ComplexitySimple, rhythm.ComplexityMedium, rhythm.ComplexityComplex}

// Complexities lists the accepted complexity tags.
func Complexities() []string {
	return append([]string(nil), complexities...)
}

// Resolve applies the fallback table to p. Only the "auto" shape draws from
// rng, and only when the learned pool has shapes.
func Resolve(rng *rand.Rand, p Params, d Defaults) Resolved {
	var r Resolved
	fallback := func(field, requested, used string) {
		r.Fallbacks = append(r.Fallbacks, Fallback{Field: field, Requested: requested, Used: used})
	}

	r.Key = strings.TrimSpace(p.Key)
	root, ok := theory.KeyToRootPitch(r.Key)
	if !ok {
		fallback("key", p.Key, d.Key)
		r.Key = d.Key
		root, _ = theory.KeyToRootPitch(d.Key)
	}
	r.RootPitch = root

	scale, ok := theory.ResolveScaleName(p.Scale)
	if !ok {
		scale, _ = theory.ResolveScaleName(d.Scale)
		fallback("scale", p.Scale, scale)
	}
	r.Scale = scale

	r.Length = p.Length
	if r.Length <= 0 {
		r.Length = d.Length
		fallback("length", fmt.Sprint(p.Length), fmt.Sprint(d.Length))
	}

	r.Tempo = p.Tempo
	if r.Tempo <= 0 {
		r.Tempo = d.Tempo
		fallback("tempo", fmt.Sprint(p.Tempo), fmt.Sprint(d.Tempo))
	}

	r.Shape = resolveShape(rng, p, d, fallback)

	r.Complexity = strings.ToLower(strings.TrimSpace(p.Complexity))
	if !slices.Contains(complexities, r.Complexity) {
		r.Complexity = d.Complexity
		fallback("complexity", p.Complexity, d.Complexity)
	}

	r.Mood = strings.ToLower(strings.TrimSpace(p.Mood))
	if !slices.Contains(rhythm.Moods(), r.Mood) {
		r.Mood = d.Mood
		fallback("mood", p.Mood, d.Mood)
	}
	return r
}

func resolveShape(rng *rand.Rand, p Params, d Defaults, fallback func(string, string, string)) string {
	if strings.EqualFold(strings.TrimSpace(p.Shape), shape.Auto) {
		if name, ok := shape.PickWeighted(rng, p.Learned.Shapes); ok {
			return name
		}
		fallback("shape", p.Shape, d.Shape)
		return d.Shape
	}
	name, ok := shape.Resolve(p.Shape)
	if !ok {
		name, _ = shape.Resolve(d.Shape)
		fallback("shape", p.Shape, name)
	}
	return name
}
