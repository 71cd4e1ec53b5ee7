package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) CreateVessel(ctx context.Context, vesselID, name string) (*Vessel, error) {
	body := map[string]string{"vesselId": vesselID, "vesselName": name}
	var v Vessel
	if err := c.do(ctx, c.admin(http.MethodPost, "/api/v1/vessels", body), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) GetVessel(ctx context.Context, vesselID string) (*Vessel, error) {
	var v Vessel
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/vessels/"+url.PathEscape(vesselID), nil), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) ListVessels(ctx context.Context) ([]Vessel, error) {
	var vessels []Vessel
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/vessels", nil), &vessels); err != nil {
		return nil, err
	}
	return vessels, nil
}

func (c *Client) DeactivateVessel(ctx context.Context, vesselID string) (string, error) {
	var msg messageResponse
	if err := c.do(ctx, c.admin(http.MethodDelete, "/api/v1/vessels/"+url.PathEscape(vesselID), nil), &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// CreateAPIKey issues a key for vesselID. A nil expiresAt never expires.
func (c *Client) CreateAPIKey(ctx context.Context, vesselID string, expiresAt *time.Time) (*APIKey, error) {
	body := struct {
		VesselID  string     `json:"vesselId"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}{vesselID, expiresAt}

	var key APIKey
	if err := c.do(ctx, c.admin(http.MethodPost, "/api/v1/api-keys", body), &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) ListAPIKeys(ctx context.Context, vesselID string) ([]APIKey, error) {
	var keys []APIKey
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/api-keys/vessel/"+url.PathEscape(vesselID), nil), &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) RevokeAPIKey(ctx context.Context, key string) (string, error) {
	var msg messageResponse
	if err := c.do(ctx, c.admin(http.MethodDelete, "/api/v1/api-keys/revoke/"+url.PathEscape(key), nil), &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}

func metricsQuery(vesselID string, hours float64) string {
	q := url.Values{}
	if vesselID != "" {
		q.Set("vessel_id", vesselID)
	}
	if hours > 0 {
		q.Set("hours", strconv.FormatFloat(hours, 'f', -1, 64))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// GetMetrics returns raw observations. Empty vesselID and zero hours use the
// server defaults.
func (c *Client) GetMetrics(ctx context.Context, vesselID string, hours float64) (*Metrics, error) {
	var m Metrics
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/metrics"+metricsQuery(vesselID, hours), nil), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) GetMetricsSummary(ctx context.Context, vesselID string, hours float64) (*MetricsSummary, error) {
	var s MetricsSummary
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/metrics/summary"+metricsQuery(vesselID, hours), nil), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) GetVesselMetrics(ctx context.Context, hours float64) ([]MetricsSummary, error) {
	var out []MetricsSummary
	if err := c.do(ctx, c.admin(http.MethodGet, "/api/v1/metrics/vessels"+metricsQuery("", hours), nil), &out); err != nil {
		return nil, err
	}
	return out, nil
}
