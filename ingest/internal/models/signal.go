package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Signal kinds understood by the validator.
const (
	SignalTypeDigital = "digital"
	SignalTypeAnalog  = "analog"
)

// Signal is a row of signal_register_table.
type Signal struct {
	ID            int32
	Name          string
	Type          string
	MinValue      *decimal.Decimal
	MaxValue      *decimal.Decimal
	Description   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CorrelationID *uuid.UUID
	TraceID       *string
}

// SignalRegistry maps signal name to definition. A registry is loaded once
// per ingestion call and must not be mutated afterwards.
type SignalRegistry map[string]*Signal

// SignalDefinition is one entry of a registry seed file.
type SignalDefinition struct {
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	MinValue    *decimal.Decimal `yaml:"min_value,omitempty"`
	MaxValue    *decimal.Decimal `yaml:"max_value,omitempty"`
	Description *string          `yaml:"description,omitempty"`
}
