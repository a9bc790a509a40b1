// Package library loads learned motif and shape pools. A pool is a plain value
// handed to the composer per request; nothing here keeps state between calls.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/magda-melody/internal/music/motif"
	"github.com/Conceptual-Machines/magda-melody/internal/music/shape"
	"github.com/Conceptual-Machines/magda-melody/pkg/embedded"
)

var (
	// ErrEmptyPatterns is returned when a file holds no usable motif or shape.
	ErrEmptyPatterns = errors.New("learned patterns contain no usable motif or shape")
	// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported learned patterns format")
)

// ExampleName selects the bundled example pool in place of a file path.
const ExampleName = "example"

// LearnedPatterns is a weighted motif pool plus a weighted shape pool.
type LearnedPatterns struct {
	Motifs []motif.Weighted `json:"motifs,omitempty" yaml:"motifs,omitempty"`
	Shapes []shape.Weighted `json:"shapes,omitempty" yaml:"shapes,omitempty"`
}

// IsEmpty reports whether neither pool has entries.
func (p LearnedPatterns) IsEmpty() bool {
	return len(p.Motifs) == 0 && len(p.Shapes) == 0
}

// Clean drops motifs without offsets, durations that do not match their
// offsets, negative weights and unknown shape names.
func (p LearnedPatterns) Clean() LearnedPatterns {
	var out LearnedPatterns
	for _, w := range p.Motifs {
		if len(w.Offsets) == 0 {
			continue
		}
		m := w.Motif.Clone()
		if len(m.Durations) != len(m.Offsets) {
			m.Durations = nil
		}
		out.Motifs = append(out.Motifs, motif.Weighted{Motif: m, Weight: max(0, w.Weight)})
	}
	for _, w := range p.Shapes {
		name, ok := shape.Resolve(w.Name)
		if !ok {
			continue
		}
		out.Shapes = append(out.Shapes, shape.Weighted{Name: name, Weight: max(0, w.Weight)})
	}
	return out
}

// Load reads patterns from a YAML or JSON file. The name "example" loads the
// bundled pool.
func Load(path string) (LearnedPatterns, error) {
	if path == ExampleName {
		return Example()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LearnedPatterns{}, fmt.Errorf("failed to read patterns file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes patterns by file extension. Files without an extension are
// tried as YAML, which also accepts JSON.
func Parse(data []byte, filename string) (LearnedPatterns, error) {
	var p LearnedPatterns
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return LearnedPatterns{}, fmt.Errorf("failed to parse YAML patterns: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return LearnedPatterns{}, fmt.Errorf("failed to parse JSON patterns: %w", err)
		}
	default:
		return LearnedPatterns{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	p = p.Clean()
	if p.IsEmpty() {
		return LearnedPatterns{}, ErrEmptyPatterns
	}
	return p, nil
}

// Example returns the bundled example pool.
func Example() (LearnedPatterns, error) {
	return Parse(embedded.ExamplePatternsYAML, "example.yaml")
}
