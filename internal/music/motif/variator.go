package motif

import "math/rand/v2"

const (
	// LearnedPoolChance is the probability of drawing the primary motif from a
	// caller-supplied weighted pool instead of the catalog.
	LearnedPoolChance = 0.6
	// VariationChance is the probability that a 4-note segment uses a freshly
	// varied copy of the primary motif.
	VariationChance = 0.3
	// SegmentLength is the number of note positions that share one motif choice.
	SegmentLength = 4
)

// Variation operators
const (
	OpIdentity   = "identity"
	OpTranspose  = "transpose"
	OpInvert     = "invert"
	OpRetrograde = "retrograde"
)

var variationOps = []string{OpIdentity, OpTranspose, OpInvert, OpRetrograde}

var transposeSteps = []int{-4, -2, 2, 4}

// Weighted pairs a motif with a selection weight.
type Weighted struct {
	Motif  `yaml:",inline"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Transpose adds semitones to every offset.
func Transpose(m Motif, semitones int) Motif {
	out := m.Clone()
	for i := range out.Offsets {
		out.Offsets[i] += semitones
	}
	return out
}

// Invert reflects every offset about the motif's maximum: max - offset.
func Invert(m Motif) Motif {
	out := m.Clone()
	if len(out.Offsets) == 0 {
		return out
	}
	hi := out.Offsets[0]
	for _, o := range out.Offsets[1:] {
		hi = max(hi, o)
	}
	for i, o := range out.Offsets {
		out.Offsets[i] = hi - o
	}
	return out
}

// Retrograde reverses the order of offsets and durations.
func Retrograde(m Motif) Motif {
	out := m.Clone()
	reverse(out.Offsets)
	reverse(out.Durations)
	return out
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// VaryMotif applies one of identity, transpose (by +-2 or +-4), invert or
// retrograde, chosen uniformly. It returns the new motif and the operator used.
func VaryMotif(rng *rand.Rand, m Motif) (Motif, string) {
	op := variationOps[rng.IntN(len(variationOps))]
	switch op {
	case OpTranspose:
		return Transpose(m, transposeSteps[rng.IntN(len(transposeSteps))]), op
	case OpInvert:
		return Invert(m), op
	case OpRetrograde:
		return Retrograde(m), op
	default:
		return m.Clone(), op
	}
}

// ChoosePrimary draws the primary motif for a melody. With a non-empty learned
// pool there is a fixed 60% chance of a weighted draw from it; otherwise the
// motif comes uniformly from the catalog pool for the complexity. The boolean
// reports whether the learned pool was used.
func ChoosePrimary(rng *rand.Rand, catalog Catalog, complexity string, learned []Weighted) (Motif, bool) {
	usable := usableWeighted(learned)
	if len(usable) > 0 && rng.Float64() < LearnedPoolChance {
		return pickWeighted(rng, usable).Clone(), true
	}

	pool := catalog.Pool(complexity)
	if len(pool) == 0 {
		pool = DefaultCatalog().Pool(ComplexityMedium)
	}
	return pool[rng.IntN(len(pool))].Clone(), false
}

func usableWeighted(pool []Weighted) []Weighted {
	out := make([]Weighted, 0, len(pool))
	for _, w := range pool {
		if len(w.Offsets) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// pickWeighted draws proportionally to weight. Non-positive weights count as
// zero; a pool with no positive weight is drawn uniformly.
func pickWeighted(rng *rand.Rand, pool []Weighted) Motif {
	total := 0.0
	for _, w := range pool {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		return pool[rng.IntN(len(pool))].Motif
	}

	return pickAt(pool, rng.Float64()*total)
}

// pickAt walks the positive weights until r is used up. Rounding can leave r
// past the last entry; the last positive-weight motif is returned then.
func pickAt(pool []Weighted, r float64) Motif {
	var last Motif
	for _, w := range pool {
		if w.Weight <= 0 {
			continue
		}
		if r < w.Weight {
			return w.Motif
		}
		r -= w.Weight
		last = w.Motif
	}
	return last
}

// Segment describes which motif drives one run of note positions.
type Segment struct {
	Start     int    `json:"start"`
	Motif     Motif  `json:"motif"`
	Variation string `json:"variation,omitempty"`
}

// AssignOffsets expands a primary motif into one offset per note position.
// Every 4th position opens a segment that, with 30% probability, uses a freshly
// varied copy of the primary motif instead of the primary itself. Within a
// segment the position's offset is motif[i mod len(motif)].
func AssignOffsets(rng *rand.Rand, primary Motif, length int) ([]int, []Segment) {
	if length <= 0 {
		return nil, nil
	}
	if primary.Len() == 0 {
		primary = Motif{Offsets: []int{0}}
	}

	offsets := make([]int, length)
	var segments []Segment
	active := primary
	for i := 0; i < length; i++ {
		if i%SegmentLength == 0 {
			active = primary
			seg := Segment{Start: i, Motif: primary}
			if rng.Float64() < VariationChance {
				active, seg.Variation = VaryMotif(rng, primary)
				seg.Motif = active
			}
			segments = append(segments, seg)
		}
		offsets[i] = active.Offsets[i%active.Len()]
	}
	return offsets, segments
}
