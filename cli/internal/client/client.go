package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiKeyHeader   = "x-api-key"
	adminKeyHeader = "x-admin-key"
)

// Client talks to the ingest service's HTTP API.
type Client struct {
	baseURL  string
	adminKey string
	client   *http.Client
}

func New(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		adminKey: adminKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type request struct {
	method  string
	path    string
	body    interface{}
	headers map[string]string
}

func (c *Client) admin(method, path string, body interface{}) request {
	return request{method: method, path: path, body: body, headers: map[string]string{adminKeyHeader: c.adminKey}}
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return err
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
