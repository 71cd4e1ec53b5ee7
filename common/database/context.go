package database

import (
	"context"
	"time"
)

const (
	// DefaultQueryTimeout bounds reads: vessel and API key lookups, the
	// signal registry snapshot and metrics summaries.
	DefaultQueryTimeout = 5 * time.Second

	// DefaultWriteTimeout bounds single-row writes such as a server_metrics
	// observation or an API key's last-used update.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultBatchTimeout is the floor for a transactional batch.
	DefaultBatchTimeout = 30 * time.Second

	// BatchRowAllowance is added to the batch deadline for every queued row.
	BatchRowAllowance = 5 * time.Millisecond

	// MaxBatchTimeout caps the deadline of any single batch.
	MaxBatchTimeout = 2 * time.Minute
)

func QueryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultQueryTimeout)
}

func WriteContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultWriteTimeout)
}

// BatchTimeout returns the deadline budget for a transaction of rows
// statements, e.g. one telemetry_raw or telemetry_filtered batch.
func BatchTimeout(rows int) time.Duration {
	if rows < 0 {
		rows = 0
	}
	d := DefaultBatchTimeout + time.Duration(rows)*BatchRowAllowance
	if d > MaxBatchTimeout {
		return MaxBatchTimeout
	}
	return d
}

// BatchContext creates a context bounded by BatchTimeout(rows).
func BatchContext(parent context.Context, rows int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, BatchTimeout(rows))
}
