// Package main provides the melodist CLI.
//
// Usage:
//
//	melodist [flags] <command> [args]
//
// Commands:
//
//	generate   - Compose a melody, optionally with counterpoint and ornaments
//	evaluate   - Score a melody file, optionally refining it
//	transform  - Transpose, invert, retrograde, augment or diminish a melody file
//	catalog    - List scales, shapes, chords, moods and other accepted names
package main

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/magda-melody/cmd/melodist/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
