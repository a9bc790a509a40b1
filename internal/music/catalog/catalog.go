// Package catalog lists every name the composer and its post-passes accept.
package catalog

import (
	"github.com/Conceptual-Machines/magda-melody/internal/music/composer"
	"github.com/Conceptual-Machines/magda-melody/internal/music/counterpoint"
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/motif"
	"github.com/Conceptual-Machines/magda-melody/internal/music/ornament"
	"github.com/Conceptual-Machines/magda-melody/internal/music/rhythm"
	"github.com/Conceptual-Machines/magda-melody/internal/music/shape"
	"github.com/Conceptual-Machines/magda-melody/internal/music/theory"
)

type Catalog struct {
	Scales       []string      `json:"scales" yaml:"scales"`
	Shapes       []string      `json:"shapes" yaml:"shapes"`
	Chords       []string      `json:"chords" yaml:"chords"`
	Moods        []string      `json:"moods" yaml:"moods"`
	Complexities []string      `json:"complexities" yaml:"complexities"`
	Species      []string      `json:"species" yaml:"species"`
	Ornaments    []string      `json:"ornaments" yaml:"ornaments"`
	Transforms   []string      `json:"transforms" yaml:"transforms"`
	Motifs       motif.Catalog `json:"motifs" yaml:"motifs"`
}

// Build collects the catalog from the engine packages
func Build() Catalog {
	return Catalog{
		Scales:       theory.ScaleNames(),
		Shapes:       append(shape.Names(), shape.Auto),
		Chords:       theory.ChordSymbols(),
		Moods:        rhythm.Moods(),
		Complexities: composer.Complexities(),
		Species:      counterpoint.Names(),
		Ornaments:    ornament.Kinds(),
		Transforms:   append([]string(nil), melody.Operations...),
		Motifs:       motif.DefaultCatalog(),
	}
}
