package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// Rule checks a value against one kind of signal definition.
type Rule interface {
	Supports(signalType string) bool
	// Check returns an empty reason when the value is acceptable.
	Check(signal *models.Signal, value decimal.Decimal) string
}

// Chain dispatches to the first rule supporting the signal's type.
type Chain struct {
	rules []Rule
}

// NewChain constructs a rule chain.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

// DefaultChain handles digital and analog signals.
func DefaultChain() *Chain {
	return NewChain(DigitalRule{}, AnalogRule{})
}

// Check applies the matching rule. Signal types no rule supports are rejected.
func (c *Chain) Check(signal *models.Signal, value decimal.Decimal) string {
	for _, r := range c.rules {
		if r.Supports(signal.Type) {
			return r.Check(signal, value)
		}
	}
	return fmt.Sprintf("Unknown signal type '%s' for signal '%s'", signal.Type, signal.Name)
}

// DigitalRule accepts exactly 0 or 1.
type DigitalRule struct{}

func (DigitalRule) Supports(signalType string) bool {
	return signalType == models.SignalTypeDigital
}

func (DigitalRule) Check(signal *models.Signal, value decimal.Decimal) string {
	if value.Equal(decimal.Zero) || value.Equal(decimal.NewFromInt(1)) {
		return ""
	}
	return fmt.Sprintf("Digital signal '%s' must be 0 or 1, got: %s", signal.Name, FormatDecimal(value))
}

// AnalogRule enforces inclusive min/max bounds. A missing bound is open.
type AnalogRule struct{}

func (AnalogRule) Supports(signalType string) bool {
	return signalType == models.SignalTypeAnalog
}

func (AnalogRule) Check(signal *models.Signal, value decimal.Decimal) string {
	if signal.MinValue != nil && value.LessThan(*signal.MinValue) {
		return fmt.Sprintf("Analog signal '%s' value %s is below minimum %s",
			signal.Name, FormatDecimal(value), FormatDecimal(*signal.MinValue))
	}
	if signal.MaxValue != nil && value.GreaterThan(*signal.MaxValue) {
		return fmt.Sprintf("Analog signal '%s' value %s is above maximum %s",
			signal.Name, FormatDecimal(value), FormatDecimal(*signal.MaxValue))
	}
	return ""
}
