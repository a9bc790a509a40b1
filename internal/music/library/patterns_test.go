package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/magda-melody/internal/music/shape"
)

const yamlPatterns = `
motifs:
  - offsets: [0, 2, 4]
    weight: 2
  - offsets: []
    weight: 5
  - offsets: [0, 7]
    durations: [1]
    weight: -1
shapes:
  - name: Call-Response
    weight: 1
  - name: nonsense
    weight: 4
`

func TestParseYAMLCleansEntries(t *testing.T) {
	p, err := Parse([]byte(yamlPatterns), "patterns.yaml")
	require.NoError(t, err)

	require.Len(t, p.Motifs, 2)
	assert.Equal(t, []int{0, 2, 4}, p.Motifs[0].Offsets)
	assert.Equal(t, 2.0, p.Motifs[0].Weight)
	assert.Nil(t, p.Motifs[1].Durations)
	assert.Equal(t, 0.0, p.Motifs[1].Weight)

	require.Len(t, p.Shapes, 1)
	assert.Equal(t, shape.CallResponse, p.Shapes[0].Name)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{"motifs":[{"offsets":[0,-2,-4],"durations":[1,1,2],"weight":1}],"shapes":[{"name":"wave","weight":2}]}`)
	p, err := Parse(data, "p.json")
	require.NoError(t, err)
	require.Len(t, p.Motifs, 1)
	assert.Equal(t, []float64{1, 1, 2}, p.Motifs[0].Durations)
	assert.Equal(t, []shape.Weighted{{Name: shape.Wave, Weight: 2}}, p.Shapes)
}

func TestParseWithoutExtensionAcceptsJSON(t *testing.T) {
	p, err := Parse([]byte(`{"shapes":[{"name":"spiral","weight":1}]}`), "")
	require.NoError(t, err)
	assert.Len(t, p.Shapes, 1)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("motifs: []"), "p.yml")
	assert.ErrorIs(t, err, ErrEmptyPatterns)

	_, err = Parse([]byte("motifs: []"), "p.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse([]byte("{not json"), "p.json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyPatterns)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlPatterns), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Motifs, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExamplePatterns(t *testing.T) {
	p, err := Load(ExampleName)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Motifs)
	assert.NotEmpty(t, p.Shapes)
	for _, s := range p.Shapes {
		_, ok := shape.Resolve(s.Name)
		assert.True(t, ok, s.Name)
	}
}
