package validator

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Rejection reasons produced while parsing a raw value.
const (
	ReasonInvalidValueType = "invalid_value_type"
	ReasonFloatConversion  = "Failed to convert float to decimal"
	ReasonUnregistered     = "unregistered_signal"
)

// maxDecimal is the largest magnitude a 96-bit scaled decimal can hold.
var maxDecimal = decimal.RequireFromString("79228162514264337593543950335")

// ValueKind tags the shape of a raw JSON value.
type ValueKind int

const (
	KindNonNumeric ValueKind = iota
	KindInteger
	KindFloat
)

func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "non_numeric"
	}
}

// Value is a raw signal value after the tagging step and before conversion.
type Value struct {
	Kind ValueKind
	Text string
}

// ConversionError carries the rejection reason for a value that could not be
// converted to a decimal.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return e.Reason
}

// ParseValue tags a raw JSON value as integer, float or non-numeric.
func ParseValue(raw json.RawMessage) Value {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{Kind: KindNonNumeric}
	}
	n, ok := v.(json.Number)
	if !ok {
		return Value{Kind: KindNonNumeric}
	}

	text := n.String()
	if strings.ContainsAny(text, ".eE") {
		return Value{Kind: KindFloat, Text: text}
	}
	return Value{Kind: KindInteger, Text: text}
}

// Decimal converts the tagged value to an exact decimal.
func (v Value) Decimal() (decimal.Decimal, error) {
	switch v.Kind {
	case KindInteger:
		if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return decimal.NewFromInt(i), nil
		}
		// Outside int64, the value is carried as a float like any other JSON number.
		return floatToDecimal(v.Text)
	case KindFloat:
		return floatToDecimal(v.Text)
	default:
		return decimal.Zero, &ConversionError{Reason: ReasonInvalidValueType}
	}
}

func floatToDecimal(text string) (decimal.Decimal, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, &ConversionError{Reason: ReasonFloatConversion}
	}
	d := decimal.NewFromFloat(f)
	if d.Abs().GreaterThan(maxDecimal) {
		return decimal.Zero, &ConversionError{Reason: ReasonFloatConversion}
	}
	return d, nil
}

// FormatDecimal renders d keeping its stored scale, so a bound of 100.50
// prints as 100.50 rather than 100.5.
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
