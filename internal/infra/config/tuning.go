package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"villafinder/internal/domain/display"
	"villafinder/internal/domain/related"
)

// Tuning holds the product-tuned ranking and display tables.
type Tuning struct {
	Related related.Config `yaml:"related"`
	Display display.Config `yaml:"display"`
}

// DefaultTuning returns the built-in tables.
func DefaultTuning() Tuning {
	return Tuning{Related: related.DefaultConfig(), Display: display.DefaultConfig()}
}

// LoadTuning reads a YAML tuning file. An empty path yields the defaults. A
// file that cannot be read or parsed also yields the defaults, together with
// the error so the caller can warn about it. Fields left out of the file keep
// their defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return DefaultTuning(), fmt.Errorf("config: read tuning %s: %w", path, err)
	}
	return ParseTuning(raw)
}

// ParseTuning decodes YAML tuning over the defaults; unknown keys are
// rejected. Lists in the file replace the default lists.
func ParseTuning(raw []byte) (Tuning, error) {
	t := DefaultTuning()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if len(bytes.TrimSpace(raw)) == 0 {
			return DefaultTuning(), nil
		}
		return DefaultTuning(), fmt.Errorf("config: parse tuning: %w", err)
	}
	t.Display = t.Display.WithDefaults()
	return t, nil
}
