package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	goyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/magda-melody/internal/models"
)

var errNoNotes = errors.New("melody file has no notes")

// loadRequest reads a YAML or JSON request file. JSON is valid YAML, so one
// decoder serves both.
func loadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// melodyFile is the on-disk form of a melody with its optional harmony
type melodyFile struct {
	Notes            []models.NoteEvent `yaml:"notes"`
	ChordProgression []string           `yaml:"chord_progression"`
}

func loadMelody(path string) (melodyFile, error) {
	var f melodyFile
	if path == "" {
		return f, fmt.Errorf("melody file is required, use -f flag")
	}
	if err := loadRequest(path, &f); err != nil {
		return f, err
	}
	if err := validateNotes(f.Notes); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func validateNotes(notes []models.NoteEvent) error {
	if len(notes) == 0 {
		return errNoNotes
	}
	if len(notes) > maxLength {
		return fmt.Errorf("at most %d notes are accepted, got %d", maxLength, len(notes))
	}
	for i, n := range notes {
		switch {
		case n.Pitch < 0 || n.Pitch > 127:
			return fmt.Errorf("note %d: pitch %d out of range 0-127", i, n.Pitch)
		case n.Velocity < 0 || n.Velocity > 127:
			return fmt.Errorf("note %d: velocity %d out of range 0-127", i, n.Velocity)
		case n.StartTime < 0:
			return fmt.Errorf("note %d: negative start time", i)
		case n.Duration <= 0:
			return fmt.Errorf("note %d: duration must be positive", i)
		}
	}
	return nil
}

// writeResult prints result in the selected format to the output file or the
// command's stdout
func writeResult(cmd *cobra.Command, flags *globalFlags, result any) error {
	var w io.Writer = cmd.OutOrStdout()
	if flags.output != "" {
		f, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if flags.format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	data, err := goyaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
