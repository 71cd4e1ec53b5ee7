package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:3000/", "admin")

	assert.Equal(t, "http://localhost:3000", c.baseURL)
	assert.Equal(t, "admin", c.adminKey)
	assert.Equal(t, 10*time.Second, c.client.Timeout)
}

func TestCreateVessel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/vessels", r.URL.Path)
		assert.Equal(t, "admin", r.Header.Get("x-admin-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"vesselId": "IMO-1", "vesselName": "Northern Star"}, body)

		w.Write([]byte(`{"vesselId":"IMO-1","vesselName":"Northern Star","isActive":true}`))
	}))
	defer server.Close()

	v, err := New(server.URL, "admin").CreateVessel(context.Background(), "IMO-1", "Northern Star")
	require.NoError(t, err)
	assert.Equal(t, "IMO-1", v.VesselID)
	assert.True(t, v.IsActive)
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Vessel IMO-1 already exists"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "admin").CreateVessel(context.Background(), "IMO-1", "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Vessel IMO-1 already exists (status 409)", apiErr.Error())
}

func TestAPIError_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, "").ListVessels(context.Background())
	assert.EqualError(t, err, "request failed with status 502")
}

func TestVesselPaths(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Method+" "+r.URL.EscapedPath())
		switch r.Method {
		case http.MethodDelete:
			w.Write([]byte(`{"message":"Vessel deactivated successfully"}`))
		case http.MethodGet:
			if r.URL.Path == "/api/v1/vessels" {
				w.Write([]byte(`[{"vesselId":"A"},{"vesselId":"B"}]`))
				return
			}
			w.Write([]byte(`{"vesselId":"A B"}`))
		}
	}))
	defer server.Close()

	c := New(server.URL, "admin")
	ctx := context.Background()

	vessels, err := c.ListVessels(ctx)
	require.NoError(t, err)
	assert.Len(t, vessels, 2)

	v, err := c.GetVessel(ctx, "A B")
	require.NoError(t, err)
	assert.Equal(t, "A B", v.VesselID)

	msg, err := c.DeactivateVessel(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Vessel deactivated successfully", msg)

	assert.Equal(t, []string{
		"GET /api/v1/vessels",
		"GET /api/v1/vessels/A%20B",
		"DELETE /api/v1/vessels/A",
	}, got)
}

func TestAPIKeys(t *testing.T) {
	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admin", r.Header.Get("x-admin-key"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/api-keys":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "IMO-1", body["vesselId"])
			assert.Equal(t, "2030-01-01T00:00:00Z", body["expiresAt"])
			w.Write([]byte(`{"id":1,"vesselId":"IMO-1","apiKey":"sk_abc","isActive":true}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/api-keys/vessel/IMO-1":
			w.Write([]byte(`[{"id":1,"vesselId":"IMO-1","apiKey":"sk_abc","isActive":true}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/api-keys/revoke/sk_abc":
			w.Write([]byte(`{"message":"API key revoked successfully"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := New(server.URL, "admin")
	ctx := context.Background()

	key, err := c.CreateAPIKey(ctx, "IMO-1", &expires)
	require.NoError(t, err)
	assert.Equal(t, "sk_abc", key.APIKey)

	keys, err := c.ListAPIKeys(ctx, "IMO-1")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	msg, err := c.RevokeAPIKey(ctx, "sk_abc")
	require.NoError(t, err)
	assert.Equal(t, "API key revoked successfully", msg)
}

func TestMetricsQuery(t *testing.T) {
	assert.Equal(t, "", metricsQuery("", 0))
	assert.Equal(t, "?hours=1.5", metricsQuery("", 1.5))
	assert.Equal(t, "?hours=24&vessel_id=IMO-1", metricsQuery("IMO-1", 24))
}

func TestMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/metrics":
			assert.Equal(t, "IMO-1", r.URL.Query().Get("vessel_id"))
			w.Write([]byte(`{"vesselId":"IMO-1","metrics":[{"metricType":"latency_total","metricValue":12}]}`))
		case "/api/v1/metrics/summary":
			assert.Equal(t, "6", r.URL.Query().Get("hours"))
			w.Write([]byte(`{"timeRange":"6h","requestVolume":3,"avgTotalLatencyMs":4.5,"p95TotalLatencyMs":9}`))
		case "/api/v1/metrics/vessels":
			w.Write([]byte(`[{"vesselId":"IMO-1","timeRange":"24h","requestVolume":2}]`))
		}
	}))
	defer server.Close()

	c := New(server.URL, "admin")
	ctx := context.Background()

	m, err := c.GetMetrics(ctx, "IMO-1", 0)
	require.NoError(t, err)
	require.Len(t, m.Metrics, 1)
	assert.Equal(t, 12.0, m.Metrics[0].MetricValue)

	s, err := c.GetMetricsSummary(ctx, "", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.RequestVolume)
	require.NotNil(t, s.P95TotalLatencyMs)
	assert.Equal(t, 9.0, *s.P95TotalLatencyMs)
	assert.Nil(t, s.P99TotalLatencyMs)

	per, err := c.GetVesselMetrics(ctx, 0)
	require.NoError(t, err)
	require.Len(t, per, 1)
	assert.Equal(t, "IMO-1", *per[0].VesselID)
}

func TestHealth_NoAdminKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("x-admin-key"))
		w.Write([]byte(`{"status":"healthy","uptime_seconds":42,"requests_last_minute":7}`))
	}))
	defer server.Close()

	h, err := New(server.URL, "admin").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, uint64(42), h.UptimeSeconds)
	assert.Equal(t, int64(7), h.RequestsLastMinute)
}

func TestSendTelemetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/telemetry", r.URL.Path)
		assert.Equal(t, "sk_abc", r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("x-admin-key"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `{"engine_temp":85.5,"pump":1}`, string(body["signals"]))
		assert.JSONEq(t, `"1736937000"`, string(body["epochUTC"]))

		w.Write([]byte(`{"message":"Telemetry ingested successfully","correlationId":"c","validSignals":2,"invalidSignals":0}`))
	}))
	defer server.Close()

	res, err := New(server.URL, "admin").SendTelemetry(context.Background(), "sk_abc", &Telemetry{
		VesselID:     "IMO-1",
		TimestampUTC: time.Unix(1736937000, 0).UTC(),
		EpochUTC:     "1736937000",
		Signals: map[string]json.RawMessage{
			"engine_temp": json.RawMessage(`85.5`),
			"pump":        json.RawMessage(`1`),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ValidSignals)
	assert.Equal(t, "c", res.CorrelationID)
}
