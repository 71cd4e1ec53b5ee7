package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

const sample = `
signals:
  - name: engine_temp
    type: analog
    min_value: -40
    max_value: 150.5
    description: Main engine coolant temperature
  - name: bilge_pump
    type: digital
  - name: fuel_flow
    type: analog
    min_value: 0
`

func TestParse(t *testing.T) {
	defs, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, defs, 3)

	engine := defs[0]
	assert.Equal(t, "engine_temp", engine.Name)
	assert.Equal(t, models.SignalTypeAnalog, engine.Type)
	require.NotNil(t, engine.MinValue)
	require.NotNil(t, engine.MaxValue)
	assert.True(t, engine.MinValue.Equal(decimal.NewFromInt(-40)))
	assert.True(t, engine.MaxValue.Equal(decimal.RequireFromString("150.5")))
	require.NotNil(t, engine.Description)
	assert.Equal(t, "Main engine coolant temperature", *engine.Description)

	assert.Nil(t, defs[1].MinValue)
	assert.Nil(t, defs[1].MaxValue)

	assert.NotNil(t, defs[2].MinValue)
	assert.Nil(t, defs[2].MaxValue)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"missing name", "signals:\n  - type: digital\n", "name is required"},
		{"missing type", "signals:\n  - name: x\n", "type is required"},
		{"duplicate", "signals:\n  - {name: x, type: digital}\n  - {name: x, type: analog}\n", "more than once"},
		{"inverted bounds", "signals:\n  - {name: x, type: analog, min_value: 10, max_value: 1}\n", "exceeds max_value"},
		{"unknown field", "signals:\n  - {name: x, type: digital, unit: C}\n", "failed to decode"},
		{"bad number", "signals:\n  - {name: x, type: analog, min_value: cold}\n", "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	repo := repository.NewInMemoryRepository()
	n, err := Apply(context.Background(), repo, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	registry, err := repo.FindAllSignals(context.Background())
	require.NoError(t, err)
	assert.Len(t, registry, 3)
	assert.Equal(t, models.SignalTypeDigital, registry["bilge_pump"].Type)
}

func TestApply_MissingFile(t *testing.T) {
	_, err := Apply(context.Background(), repository.NewInMemoryRepository(), "/nonexistent/signals.yaml")
	assert.Error(t, err)
}
