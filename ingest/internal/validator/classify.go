// Package validator partitions submitted signal readings into valid and
// invalid records against a signal registry snapshot. It performs no I/O.
package validator

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// Result is the partition of one request's readings.
type Result struct {
	Valid   []models.ValidRecord
	Invalid []models.InvalidRecord
}

// Total returns the number of classified readings.
func (r Result) Total() int {
	return len(r.Valid) + len(r.Invalid)
}

// Classifier classifies readings with a rule chain.
type Classifier struct {
	chain *Chain
}

// NewClassifier returns a classifier using chain, or DefaultChain when nil.
func NewClassifier(chain *Chain) *Classifier {
	if chain == nil {
		chain = DefaultChain()
	}
	return &Classifier{chain: chain}
}

var defaultClassifier = NewClassifier(nil)

// Classify uses the default digital/analog rules.
func Classify(registry models.SignalRegistry, env models.Envelope, signals map[string]json.RawMessage) Result {
	return defaultClassifier.Classify(registry, env, signals)
}

// Classify places every entry of signals in exactly one of Valid or Invalid.
// Entries are visited in name order so equal inputs give equal outputs.
func (c *Classifier) Classify(registry models.SignalRegistry, env models.Envelope, signals map[string]json.RawMessage) Result {
	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	sort.Strings(names)

	var res Result
	for _, name := range names {
		value, err := ParseValue(signals[name]).Decimal()
		if err != nil {
			var convErr *ConversionError
			reason := err.Error()
			if errors.As(err, &convErr) {
				reason = convErr.Reason
			}
			res.Invalid = append(res.Invalid, invalid(env, name, decimal.Zero, reason))
			continue
		}

		signal, ok := registry[name]
		if !ok {
			res.Invalid = append(res.Invalid, invalid(env, name, value, ReasonUnregistered))
			continue
		}

		if reason := c.chain.Check(signal, value); reason != "" {
			res.Invalid = append(res.Invalid, invalid(env, name, value, reason))
			continue
		}

		res.Valid = append(res.Valid, models.ValidRecord{
			VesselID:      env.VesselID,
			TimestampUTC:  env.TimestampUTC,
			EpochUTC:      env.EpochUTC,
			SignalName:    name,
			SignalValue:   value,
			CorrelationID: env.CorrelationID,
			TraceID:       env.TraceID,
		})
	}
	return res
}

func invalid(env models.Envelope, name string, value decimal.Decimal, reason string) models.InvalidRecord {
	return models.InvalidRecord{
		VesselID:      env.VesselID,
		TimestampUTC:  env.TimestampUTC,
		EpochUTC:      env.EpochUTC,
		SignalName:    name,
		SignalValue:   value,
		Reason:        reason,
		CorrelationID: env.CorrelationID,
		TraceID:       env.TraceID,
	}
}
