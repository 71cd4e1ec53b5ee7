package client

import (
	"context"
	"net/http"
)

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/health"}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// SendTelemetry posts one payload authenticated with a vessel API key.
func (c *Client) SendTelemetry(ctx context.Context, apiKey string, t *Telemetry) (*TelemetryResult, error) {
	req := request{
		method:  http.MethodPost,
		path:    "/api/v1/telemetry",
		body:    t,
		headers: map[string]string{apiKeyHeader: apiKey},
	}

	var res TelemetryResult
	if err := c.do(ctx, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
