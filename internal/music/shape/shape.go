// Package shape generates pitch-contour curves. Every generator is a pure
// function of the requested length.
package shape

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// Shape names
const (
	Ascending    = "ascending"
	Descending   = "descending"
	Arch         = "arch"
	Wave         = "wave"
	Zigzag       = "zigzag"
	Plateau      = "plateau"
	CallResponse = "call_response"
	Spiral       = "spiral"

	// Auto defers to a shape taken from a learned pattern pool.
	Auto = "auto"
	// Default is substituted for unknown shape names.
	Default = Arch
)

// Generator maps a melody length to a contour of float pitch offsets.
type Generator func(length int) []float64

var generators = map[string]Generator{
	Ascending:    ascending,
	Descending:   descending,
	Arch:         arch,
	Wave:         wave,
	Zigzag:       zigzag,
	Plateau:      plateau,
	CallResponse: callResponse,
	Spiral:       spiral,
}

// Names returns the known shape names, sorted.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the canonical name for a shape and false when the name was
// unknown and arch was substituted. "auto" is not resolved here.
func Resolve(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	if _, ok := generators[name]; ok {
		return name, true
	}
	return Default, false
}

// Generate returns the contour for a shape name, falling back to arch.
func Generate(name string, length int) []float64 {
	if length <= 0 {
		return []float64{}
	}
	resolved, _ := Resolve(name)
	return generators[resolved](length)
}

func ascending(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i * 2)
	}
	return out
}

func descending(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64((length - 1 - i) * -2)
	}
	return out
}

func arch(length int) []float64 {
	out := make([]float64, length)
	mid := length / 2
	for i := range out {
		if i < mid {
			out[i] = float64(i * 2)
		} else {
			out[i] = float64((length - 1 - i) * 2)
		}
	}
	return out
}

func wave(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = math.Sin(float64(i)*0.5) * 4
	}
	return out
}

func zigzag(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i%2 == 0 {
			out[i] = float64(i * 2)
		} else {
			out[i] = float64((i - 1) * 2)
		}
	}
	return out
}

// plateau climbs one step per note for the first 30%, holds until 70%, then
// falls one step per note.
func plateau(length int) []float64 {
	out := make([]float64, length)
	rise := int(float64(length) * 0.3)
	fall := int(float64(length) * 0.7)
	top := float64(rise)
	for i := range out {
		switch {
		case i < rise:
			out[i] = float64(i)
		case i < fall:
			out[i] = top
		default:
			out[i] = top - float64(i-fall+1)
		}
	}
	return out
}

// callResponse rises over the first 40% and answers with a falling phrase.
func callResponse(length int) []float64 {
	out := make([]float64, length)
	call := int(float64(length) * 0.4)
	response := length - call
	for i := range out {
		if i < call {
			out[i] = float64(i) * 1.5
		} else {
			j := i - call
			out[i] = float64(response-1-j) * -1.5
		}
	}
	return out
}

func spiral(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		angle := float64(i) / float64(length) * 4 * math.Pi
		out[i] = math.Sin(angle)*3 + math.Cos(angle)*2
	}
	return out
}

// Weighted pairs a shape name with a selection weight.
type Weighted struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// PickWeighted draws a known shape name proportionally to weight. Unknown names
// and non-positive weights are skipped. It returns false when nothing usable
// is in the pool.
func PickWeighted(rng *rand.Rand, pool []Weighted) (string, bool) {
	var usable []Weighted
	total := 0.0
	for _, w := range pool {
		name, ok := Resolve(w.Name)
		if !ok || w.Weight <= 0 {
			continue
		}
		usable = append(usable, Weighted{Name: name, Weight: w.Weight})
		total += w.Weight
	}
	if len(usable) == 0 {
		return "", false
	}

	r := rng.Float64() * total
	for _, w := range usable {
		if r < w.Weight {
			return w.Name, true
		}
		r -= w.Weight
	}
	return usable[len(usable)-1].Name, true
}
