package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/common/database"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string, poolCfg database.PoolConfig) (*PostgresRepository, error) {
	pool, err := database.NewPool(ctx, connString, poolCfg)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{pool: pool}, nil
}

// NewPostgresRepositoryFromPool wraps an existing pool.
func NewPostgresRepositoryFromPool(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

const vesselColumns = `vessel_id, vessel_name, is_active, created_at, updated_at, correlation_id, trace_id`

func scanVessel(row pgx.Row) (*models.Vessel, error) {
	var v models.Vessel
	var corr uuid.NullUUID
	if err := row.Scan(&v.VesselID, &v.VesselName, &v.IsActive, &v.CreatedAt, &v.UpdatedAt, &corr, &v.TraceID); err != nil {
		return nil, err
	}
	if corr.Valid {
		v.CorrelationID = &corr.UUID
	}
	return &v, nil
}

func (r *PostgresRepository) FindActiveVessel(ctx context.Context, vesselID string) (*models.Vessel, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + vesselColumns + `
		FROM vessel_register_table
		WHERE vessel_id = $1 AND is_active = TRUE`

	v, err := scanVessel(r.pool.QueryRow(ctx, query, vesselID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVesselNotFound
		}
		return nil, fmt.Errorf("failed to find vessel: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) CreateVessel(ctx context.Context, vessel *models.Vessel) (*models.Vessel, error) {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	query := `
		INSERT INTO vessel_register_table (vessel_id, vessel_name, correlation_id, trace_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + vesselColumns

	created, err := scanVessel(r.pool.QueryRow(ctx, query,
		vessel.VesselID, vessel.VesselName, vessel.CorrelationID, vessel.TraceID))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrVesselExists
		}
		return nil, fmt.Errorf("failed to create vessel: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) ListVessels(ctx context.Context) ([]*models.Vessel, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + vesselColumns + `
		FROM vessel_register_table
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}
	defer rows.Close()

	vessels := []*models.Vessel{}
	for rows.Next() {
		v, err := scanVessel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vessel: %w", err)
		}
		vessels = append(vessels, v)
	}
	return vessels, rows.Err()
}

func (r *PostgresRepository) DeactivateVessel(ctx context.Context, vesselID string) error {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	query := `
		UPDATE vessel_register_table
		SET is_active = FALSE, updated_at = NOW()
		WHERE vessel_id = $1`

	if _, err := r.pool.Exec(ctx, query, vesselID); err != nil {
		return fmt.Errorf("failed to deactivate vessel: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindAllSignals(ctx context.Context) (models.SignalRegistry, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT signal_id, signal_name, signal_type, min_value, max_value, description,
		       created_at, updated_at, correlation_id, trace_id
		FROM signal_register_table`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load signals: %w", err)
	}
	defer rows.Close()

	registry := models.SignalRegistry{}
	for rows.Next() {
		var s models.Signal
		var minV, maxV decimal.NullDecimal
		var corr uuid.NullUUID
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &minV, &maxV, &s.Description,
			&s.CreatedAt, &s.UpdatedAt, &corr, &s.TraceID); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		if minV.Valid {
			s.MinValue = &minV.Decimal
		}
		if maxV.Valid {
			s.MaxValue = &maxV.Decimal
		}
		if corr.Valid {
			s.CorrelationID = &corr.UUID
		}
		registry[s.Name] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load signals: %w", err)
	}
	return registry, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *PostgresRepository) UpsertSignals(ctx context.Context, defs []models.SignalDefinition) (int, error) {
	if len(defs) == 0 {
		return 0, nil
	}

	ctx, cancel := database.BatchContext(ctx, len(defs))
	defer cancel()

	query := `
		INSERT INTO signal_register_table (signal_name, signal_type, min_value, max_value, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (signal_name) DO UPDATE
		SET signal_type = EXCLUDED.signal_type,
		    min_value = EXCLUDED.min_value,
		    max_value = EXCLUDED.max_value,
		    description = EXCLUDED.description,
		    updated_at = NOW()`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, d := range defs {
			batch.Queue(query, d.Name, d.Type, nullDecimal(d.MinValue), nullDecimal(d.MaxValue), d.Description)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert signals: %w", err)
	}
	return len(defs), nil
}

func (r *PostgresRepository) ValidateAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT vessel_id
		FROM api_keys
		WHERE api_key = $1
		  AND is_active = TRUE
		  AND (expires_at IS NULL OR expires_at > NOW())`

	var vesselID string
	if err := r.pool.QueryRow(ctx, query, apiKey).Scan(&vesselID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAPIKeyNotFound
		}
		return "", fmt.Errorf("failed to validate API key: %w", err)
	}
	return vesselID, nil
}

func (r *PostgresRepository) UpdateLastUsed(ctx context.Context, apiKey string) error {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE api_key = $1`, apiKey); err != nil {
		return fmt.Errorf("failed to update API key last used: %w", err)
	}
	return nil
}

const apiKeyColumns = `id, vessel_id, api_key, is_active, created_at, expires_at, last_used_at`

func scanAPIKey(row pgx.Row) (*models.APIKey, error) {
	var k models.APIKey
	if err := row.Scan(&k.ID, &k.VesselID, &k.APIKey, &k.IsActive, &k.CreatedAt, &k.ExpiresAt, &k.LastUsedAt); err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *PostgresRepository) CreateAPIKey(ctx context.Context, vesselID, apiKey string, expiresAt *time.Time) (*models.APIKey, error) {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	query := `
		INSERT INTO api_keys (vessel_id, api_key, expires_at)
		VALUES ($1, $2, $3)
		RETURNING ` + apiKeyColumns

	key, err := scanAPIKey(r.pool.QueryRow(ctx, query, vesselID, apiKey, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}
	return key, nil
}

func (r *PostgresRepository) ListAPIKeys(ctx context.Context, vesselID string) ([]*models.APIKey, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE vessel_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	keys := []*models.APIKey{}
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *PostgresRepository) RevokeAPIKey(ctx context.Context, apiKey string) error {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `UPDATE api_keys SET is_active = FALSE WHERE api_key = $1`, apiKey); err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}
	return nil
}

// sendInTx queues every statement of batch inside one transaction and checks
// each result in order, so a failing row rolls back the whole batch.
func (r *PostgresRepository) sendInTx(ctx context.Context, batch *pgx.Batch) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertRawBatch(ctx context.Context, records []models.ValidRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := database.BatchContext(ctx, len(records))
	defer cancel()

	query := `
		INSERT INTO telemetry_raw (vessel_id, timestamp_utc, epoch_utc, signal_name, signal_value, correlation_id, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.VesselID, rec.TimestampUTC, rec.EpochUTC, rec.SignalName,
			rec.SignalValue, rec.CorrelationID, rec.TraceID)
	}

	if err := r.sendInTx(ctx, batch); err != nil {
		return fmt.Errorf("failed to write telemetry_raw batch: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertFilteredBatch(ctx context.Context, records []models.InvalidRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := database.BatchContext(ctx, len(records))
	defer cancel()

	query := `
		INSERT INTO telemetry_filtered (vessel_id, timestamp_utc, epoch_utc, signal_name, signal_value, reason, correlation_id, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.VesselID, rec.TimestampUTC, rec.EpochUTC, rec.SignalName,
			rec.SignalValue, rec.Reason, rec.CorrelationID, rec.TraceID)
	}

	if err := r.sendInTx(ctx, batch); err != nil {
		return fmt.Errorf("failed to write telemetry_filtered batch: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertMetric(ctx context.Context, obs models.MetricObservation) error {
	ctx, cancel := database.WriteContext(ctx)
	defer cancel()

	query := `
		INSERT INTO server_metrics (vessel_id, metric_type, metric_value, correlation_id, trace_id)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.pool.Exec(ctx, query, obs.VesselID, string(obs.MetricType), obs.MetricValue, obs.CorrelationID, obs.TraceID); err != nil {
		return fmt.Errorf("failed to insert %s metric: %w", obs.MetricType, err)
	}
	return nil
}

func (r *PostgresRepository) CountRequestsSince(ctx context.Context, window time.Duration) (int64, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*)
		FROM server_metrics
		WHERE metric_type = 'request_volume'
		  AND timestamp > NOW() - INTERVAL '1 second' * $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, window.Seconds()).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) GetMetrics(ctx context.Context, vesselID *string, hours float64) ([]models.MetricPoint, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `
		SELECT metric_type, metric_value, timestamp
		FROM server_metrics
		WHERE ($1::text IS NULL OR vessel_id = $1)
		  AND timestamp > NOW() - INTERVAL '1 hour' * $2
		ORDER BY timestamp DESC`

	rows, err := r.pool.Query(ctx, query, vesselID, hours)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	defer rows.Close()

	points := []models.MetricPoint{}
	for rows.Next() {
		var p models.MetricPoint
		var value decimal.Decimal
		if err := rows.Scan(&p.MetricType, &value, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		p.MetricValue = value.InexactFloat64()
		points = append(points, p)
	}
	return points, rows.Err()
}

const summaryAggregates = `
		COUNT(CASE WHEN metric_type = 'request_volume' THEN 1 END) AS request_volume,
		AVG(CASE WHEN metric_type = 'latency_validation' THEN metric_value END) AS avg_validation,
		AVG(CASE WHEN metric_type = 'latency_ingestion' THEN metric_value END) AS avg_ingestion,
		AVG(CASE WHEN metric_type = 'latency_total' THEN metric_value END) AS avg_total,
		PERCENTILE_CONT(0.95) WITHIN GROUP (ORDER BY metric_value)
			FILTER (WHERE metric_type = 'latency_total') AS p95_total,
		PERCENTILE_CONT(0.99) WITHIN GROUP (ORDER BY metric_value)
			FILTER (WHERE metric_type = 'latency_total') AS p99_total`

func scanAggregate(row pgx.Row, withVessel bool) (*models.MetricsAggregate, error) {
	var agg models.MetricsAggregate
	var avgVal, avgIng, avgTot decimal.NullDecimal
	dest := []any{&agg.RequestVolume, &avgVal, &avgIng, &avgTot, &agg.P95Total, &agg.P99Total}
	if withVessel {
		dest = append([]any{&agg.VesselID}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	agg.AvgValidation = avgVal.Decimal
	agg.AvgIngestion = avgIng.Decimal
	agg.AvgTotal = avgTot.Decimal
	return &agg, nil
}

func (r *PostgresRepository) GetSummary(ctx context.Context, vesselID *string, hours float64) (*models.MetricsAggregate, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `SELECT` + summaryAggregates + `
		FROM server_metrics
		WHERE ($1::text IS NULL OR vessel_id = $1)
		  AND timestamp > NOW() - INTERVAL '1 hour' * $2`

	agg, err := scanAggregate(r.pool.QueryRow(ctx, query, vesselID, hours), false)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics summary: %w", err)
	}
	if vesselID != nil {
		agg.VesselID = *vesselID
	}
	return agg, nil
}

func (r *PostgresRepository) GetVesselSummaries(ctx context.Context, hours float64) ([]models.MetricsAggregate, error) {
	ctx, cancel := database.QueryContext(ctx)
	defer cancel()

	query := `SELECT vessel_id,` + summaryAggregates + `
		FROM server_metrics
		WHERE timestamp > NOW() - INTERVAL '1 hour' * $1
		  AND vessel_id IS NOT NULL
		GROUP BY vessel_id
		ORDER BY request_volume DESC`

	rows, err := r.pool.Query(ctx, query, hours)
	if err != nil {
		return nil, fmt.Errorf("failed to get vessel summaries: %w", err)
	}
	defer rows.Close()

	summaries := []models.MetricsAggregate{}
	for rows.Next() {
		agg, err := scanAggregate(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vessel summary: %w", err)
		}
		summaries = append(summaries, *agg)
	}
	return summaries, rows.Err()
}
