package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

type storedMetric struct {
	obs       models.MetricObservation
	timestamp time.Time
}

// InMemoryRepository is a process-local Repository for development and tests.
type InMemoryRepository struct {
	vessels  map[string]*models.Vessel
	signals  map[string]*models.Signal
	apiKeys  map[string]*models.APIKey
	raw      []models.ValidRecord
	filtered []models.InvalidRecord
	metrics  []storedMetric
	nextID   int32
	now      func() time.Time
	mu       sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		vessels: make(map[string]*models.Vessel),
		signals: make(map[string]*models.Signal),
		apiKeys: make(map[string]*models.APIKey),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) Close() {}

func (r *InMemoryRepository) FindActiveVessel(_ context.Context, vesselID string) (*models.Vessel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vessels[vesselID]
	if !ok || !v.IsActive {
		return nil, ErrVesselNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *InMemoryRepository) CreateVessel(_ context.Context, vessel *models.Vessel) (*models.Vessel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.vessels[vessel.VesselID]; exists {
		return nil, ErrVesselExists
	}
	now := r.now().UTC()
	v := *vessel
	v.IsActive = true
	v.CreatedAt = now
	v.UpdatedAt = now
	r.vessels[v.VesselID] = &v

	cp := v
	return &cp, nil
}

func (r *InMemoryRepository) ListVessels(_ context.Context) ([]*models.Vessel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vessels := make([]*models.Vessel, 0, len(r.vessels))
	for _, v := range r.vessels {
		cp := *v
		vessels = append(vessels, &cp)
	}
	sort.Slice(vessels, func(i, j int) bool {
		return vessels[i].CreatedAt.After(vessels[j].CreatedAt)
	})
	return vessels, nil
}

func (r *InMemoryRepository) DeactivateVessel(_ context.Context, vesselID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.vessels[vesselID]; ok {
		v.IsActive = false
		v.UpdatedAt = r.now().UTC()
	}
	return nil
}

func (r *InMemoryRepository) FindAllSignals(_ context.Context) (models.SignalRegistry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registry := make(models.SignalRegistry, len(r.signals))
	for name, s := range r.signals {
		cp := *s
		registry[name] = &cp
	}
	return registry, nil
}

func (r *InMemoryRepository) UpsertSignals(_ context.Context, defs []models.SignalDefinition) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	for _, d := range defs {
		s, ok := r.signals[d.Name]
		if !ok {
			r.nextID++
			s = &models.Signal{ID: r.nextID, Name: d.Name, CreatedAt: now}
			r.signals[d.Name] = s
		}
		s.Type = d.Type
		s.MinValue = d.MinValue
		s.MaxValue = d.MaxValue
		s.Description = d.Description
		s.UpdatedAt = now
	}
	return len(defs), nil
}

func (r *InMemoryRepository) ValidateAPIKey(_ context.Context, apiKey string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.apiKeys[apiKey]
	if !ok || !k.IsActive || (k.ExpiresAt != nil && !k.ExpiresAt.After(r.now())) {
		return "", ErrAPIKeyNotFound
	}
	return k.VesselID, nil
}

func (r *InMemoryRepository) UpdateLastUsed(_ context.Context, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if k, ok := r.apiKeys[apiKey]; ok {
		now := r.now().UTC()
		k.LastUsedAt = &now
	}
	return nil
}

func (r *InMemoryRepository) CreateAPIKey(_ context.Context, vesselID, apiKey string, expiresAt *time.Time) (*models.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	k := &models.APIKey{
		ID:        r.nextID,
		VesselID:  vesselID,
		APIKey:    apiKey,
		IsActive:  true,
		CreatedAt: r.now().UTC(),
		ExpiresAt: expiresAt,
	}
	r.apiKeys[apiKey] = k

	cp := *k
	return &cp, nil
}

func (r *InMemoryRepository) ListAPIKeys(_ context.Context, vesselID string) ([]*models.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := []*models.APIKey{}
	for _, k := range r.apiKeys {
		if k.VesselID == vesselID {
			cp := *k
			keys = append(keys, &cp)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ID > keys[j].ID
	})
	return keys, nil
}

func (r *InMemoryRepository) RevokeAPIKey(_ context.Context, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if k, ok := r.apiKeys[apiKey]; ok {
		k.IsActive = false
	}
	return nil
}

func (r *InMemoryRepository) InsertRawBatch(_ context.Context, records []models.ValidRecord) error {
	if len(records) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.raw = append(r.raw, records...)
	return nil
}

func (r *InMemoryRepository) InsertFilteredBatch(_ context.Context, records []models.InvalidRecord) error {
	if len(records) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filtered = append(r.filtered, records...)
	return nil
}

// RawRecords returns a copy of everything written to telemetry_raw.
func (r *InMemoryRepository) RawRecords() []models.ValidRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ValidRecord(nil), r.raw...)
}

// FilteredRecords returns a copy of everything written to telemetry_filtered.
func (r *InMemoryRepository) FilteredRecords() []models.InvalidRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.InvalidRecord(nil), r.filtered...)
}

// Observations returns a copy of every recorded metric observation.
func (r *InMemoryRepository) Observations() []models.MetricObservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MetricObservation, len(r.metrics))
	for i, m := range r.metrics {
		out[i] = m.obs
	}
	return out
}

func (r *InMemoryRepository) InsertMetric(_ context.Context, obs models.MetricObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics = append(r.metrics, storedMetric{obs: obs, timestamp: r.now().UTC()})
	return nil
}

func (r *InMemoryRepository) CountRequestsSince(_ context.Context, window time.Duration) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := r.now().Add(-window)
	var count int64
	for _, m := range r.metrics {
		if m.obs.MetricType == models.MetricRequestVolume && m.timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// window returns metrics newer than hours, optionally for one vessel,
// newest first.
func (r *InMemoryRepository) window(vesselID *string, hours float64) []storedMetric {
	cutoff := r.now().Add(-hoursToDuration(hours))
	var out []storedMetric
	for _, m := range r.metrics {
		if !m.timestamp.After(cutoff) {
			continue
		}
		if vesselID != nil && (m.obs.VesselID == nil || *m.obs.VesselID != *vesselID) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].timestamp.After(out[j].timestamp)
	})
	return out
}

func (r *InMemoryRepository) GetMetrics(_ context.Context, vesselID *string, hours float64) ([]models.MetricPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points := []models.MetricPoint{}
	for _, m := range r.window(vesselID, hours) {
		points = append(points, models.MetricPoint{
			MetricType:  string(m.obs.MetricType),
			MetricValue: m.obs.MetricValue.InexactFloat64(),
			Timestamp:   m.timestamp,
		})
	}
	return points, nil
}

func (r *InMemoryRepository) GetSummary(_ context.Context, vesselID *string, hours float64) (*models.MetricsAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg := aggregate(r.window(vesselID, hours))
	if vesselID != nil {
		agg.VesselID = *vesselID
	}
	return &agg, nil
}

func (r *InMemoryRepository) GetVesselSummaries(_ context.Context, hours float64) ([]models.MetricsAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byVessel := map[string][]storedMetric{}
	for _, m := range r.window(nil, hours) {
		if m.obs.VesselID == nil {
			continue
		}
		byVessel[*m.obs.VesselID] = append(byVessel[*m.obs.VesselID], m)
	}

	summaries := make([]models.MetricsAggregate, 0, len(byVessel))
	for vesselID, ms := range byVessel {
		agg := aggregate(ms)
		agg.VesselID = vesselID
		summaries = append(summaries, agg)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].RequestVolume != summaries[j].RequestVolume {
			return summaries[i].RequestVolume > summaries[j].RequestVolume
		}
		return summaries[i].VesselID < summaries[j].VesselID
	})
	return summaries, nil
}

func aggregate(ms []storedMetric) models.MetricsAggregate {
	var agg models.MetricsAggregate
	sums := map[models.MetricType]decimal.Decimal{}
	counts := map[models.MetricType]int64{}
	var totals []float64

	for _, m := range ms {
		t := m.obs.MetricType
		if t == models.MetricRequestVolume {
			agg.RequestVolume++
		}
		sums[t] = sums[t].Add(m.obs.MetricValue)
		counts[t]++
		if t == models.MetricLatencyTotal {
			totals = append(totals, m.obs.MetricValue.InexactFloat64())
		}
	}

	avg := func(t models.MetricType) decimal.Decimal {
		if counts[t] == 0 {
			return decimal.Zero
		}
		return sums[t].Div(decimal.NewFromInt(counts[t]))
	}
	agg.AvgValidation = avg(models.MetricLatencyValidation)
	agg.AvgIngestion = avg(models.MetricLatencyIngestion)
	agg.AvgTotal = avg(models.MetricLatencyTotal)

	if len(totals) > 0 {
		sort.Float64s(totals)
		p95 := percentileCont(totals, 0.95)
		p99 := percentileCont(totals, 0.99)
		agg.P95Total = &p95
		agg.P99Total = &p99
	}
	return agg
}

// percentileCont interpolates linearly between the closest ranks of a sorted
// slice, matching Postgres PERCENTILE_CONT.
func percentileCont(sorted []float64, fraction float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := fraction * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (pos-lo)*(sorted[int(hi)]-sorted[int(lo)])
}
