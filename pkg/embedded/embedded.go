package embedded

import (
	_ "embed"
)

// Embed bundled pattern files
//
//go:embed data/patterns/example.yaml
var ExamplePatternsYAML []byte
