// Package seed loads signal registry definitions from YAML.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// File is the layout of a signal seed file:
//
//	signals:
//	  - name: engine_temp
//	    type: analog
//	    min_value: 0
//	    max_value: 150
type File struct {
	Signals []models.SignalDefinition `yaml:"signals"`
}

// Upserter stores signal definitions.
type Upserter interface {
	UpsertSignals(ctx context.Context, defs []models.SignalDefinition) (int, error)
}

// Parse decodes and validates a seed document.
func Parse(r io.Reader) ([]models.SignalDefinition, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("seed file is empty")
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Signals))
	for i, def := range f.Signals {
		if def.Name == "" {
			return nil, fmt.Errorf("signal %d: name is required", i)
		}
		if def.Type == "" {
			return nil, fmt.Errorf("signal %q: type is required", def.Name)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("signal %q: defined more than once", def.Name)
		}
		seen[def.Name] = true
		if def.MinValue != nil && def.MaxValue != nil && def.MinValue.GreaterThan(*def.MaxValue) {
			return nil, fmt.Errorf("signal %q: min_value %s exceeds max_value %s", def.Name, def.MinValue, def.MaxValue)
		}
	}
	return f.Signals, nil
}

// LoadFile parses the seed file at path.
func LoadFile(path string) ([]models.SignalDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Apply upserts every definition in the file at path and returns how many
// were written.
func Apply(ctx context.Context, repo Upserter, path string) (int, error) {
	defs, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	if len(defs) == 0 {
		return 0, nil
	}
	n, err := repo.UpsertSignals(ctx, defs)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert signals: %w", err)
	}
	return n, nil
}
