// Package motif holds the built-in motif catalog and the operators that vary
// motifs.
package motif

import "strings"

// Motif is an ordered list of semitone offsets relative to a tonal center,
// optionally paired with relative durations of the same length. Motifs drawn
// from a catalog are never modified; variation always builds a new Motif.
type Motif struct {
	Offsets   []int     `json:"offsets" yaml:"offsets"`
	Durations []float64 `json:"durations,omitempty" yaml:"durations,omitempty"`
}

// Len returns the number of offsets.
func (m Motif) Len() int {
	return len(m.Offsets)
}

// Clone deep-copies the motif.
func (m Motif) Clone() Motif {
	out := Motif{Offsets: append([]int(nil), m.Offsets...)}
	if m.Durations != nil {
		out.Durations = append([]float64(nil), m.Durations...)
	}
	return out
}

// Complexity tags
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Catalog is the immutable set of curated motif pools.
type Catalog struct {
	Basic         []Motif `json:"basic" yaml:"basic"`
	Developmental []Motif `json:"developmental" yaml:"developmental"`
	Rhythmic      []Motif `json:"rhythmic" yaml:"rhythmic"`
}

// DefaultCatalog returns the built-in pools: basic 2-4 note cells,
// developmental 5-8 note phrases, and rhythmic offset/duration pairs.
func DefaultCatalog() Catalog {
	return Catalog{
		Basic: []Motif{
			{Offsets: []int{0, 2, 4}},
			{Offsets: []int{0, -1, 0}},
			{Offsets: []int{0, 4, 7}},
			{Offsets: []int{0, 2, 0}},
			{Offsets: []int{0, -2, -4}},
			{Offsets: []int{0, 3}},
			{Offsets: []int{0, 5, 4}},
			{Offsets: []int{0, 7, 5, 4}},
		},
		Developmental: []Motif{
			{Offsets: []int{0, 2, 4, 5, 7}},
			{Offsets: []int{0, 2, 4, 2, 0}},
			{Offsets: []int{0, 4, 7, 12, 7, 4}},
			{Offsets: []int{0, -1, -3, -5, -7}},
			{Offsets: []int{0, 2, 3, 5, 7, 8}},
			{Offsets: []int{0, 5, 4, 2, 0}},
			{Offsets: []int{0, 2, 4, 7, 9, 7, 4, 2}},
			{Offsets: []int{0, 3, 5, 7, 5, 3, 0}},
		},
		Rhythmic: []Motif{
			{Offsets: []int{0, 0, 2, 4}, Durations: []float64{0.5, 0.5, 1, 2}},
			{Offsets: []int{0, 2, 0, -2}, Durations: []float64{1, 0.5, 0.5, 2}},
			{Offsets: []int{0, 4, 2}, Durations: []float64{1.5, 0.5, 2}},
			{Offsets: []int{0, 0, 0, 7}, Durations: []float64{0.5, 0.5, 1, 2}},
			{Offsets: []int{0, 5, 3, 2, 0}, Durations: []float64{1, 0.5, 0.5, 1, 1}},
		},
	}
}

// Pool returns the pool selected by a complexity tag: simple uses the basic
// pool, complex the developmental pool, anything else the union of all pools.
func (c Catalog) Pool(complexity string) []Motif {
	switch strings.ToLower(complexity) {
	case ComplexitySimple:
		return c.Basic
	case ComplexityComplex:
		return c.Developmental
	default:
		pool := make([]Motif, 0, len(c.Basic)+len(c.Developmental)+len(c.Rhythmic))
		pool = append(pool, c.Basic...)
		pool = append(pool, c.Developmental...)
		return append(pool, c.Rhythmic...)
	}
}
