package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TelemetryRequest is the body of POST /api/v1/telemetry.
type TelemetryRequest struct {
	VesselID     string                     `json:"vesselId"`
	TimestampUTC time.Time                  `json:"timestampUTC"`
	EpochUTC     string                     `json:"epochUTC"`
	Signals      map[string]json.RawMessage `json:"signals"`
}

// Validate checks the request shape. Signal values are not inspected here;
// each one is classified individually downstream.
func (r *TelemetryRequest) Validate() error {
	switch {
	case r.VesselID == "":
		return errors.New("vesselId is required")
	case r.TimestampUTC.IsZero():
		return errors.New("timestampUTC is required")
	case r.Signals == nil:
		return errors.New("signals is required")
	}
	return nil
}

// Epoch parses EpochUTC. Unparsable values yield 0.
func (r *TelemetryRequest) Epoch() int64 {
	v, err := strconv.ParseInt(r.EpochUTC, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// TelemetryResponse is returned after a successful ingestion call.
type TelemetryResponse struct {
	Message        string    `json:"message"`
	CorrelationID  uuid.UUID `json:"correlationId"`
	ValidSignals   int       `json:"validSignals"`
	InvalidSignals int       `json:"invalidSignals"`
}

// Envelope carries the per-call fields copied onto every classified record.
type Envelope struct {
	VesselID      string
	TimestampUTC  time.Time
	EpochUTC      int64
	CorrelationID uuid.UUID
	TraceID       string
}

// ValidRecord is a reading accepted into telemetry_raw.
type ValidRecord struct {
	VesselID      string
	TimestampUTC  time.Time
	EpochUTC      int64
	SignalName    string
	SignalValue   decimal.Decimal
	CorrelationID uuid.UUID
	TraceID       string
}

// InvalidRecord is a reading diverted to telemetry_filtered.
type InvalidRecord struct {
	VesselID      string
	TimestampUTC  time.Time
	EpochUTC      int64
	SignalName    string
	SignalValue   decimal.Decimal
	Reason        string
	CorrelationID uuid.UUID
	TraceID       string
}
