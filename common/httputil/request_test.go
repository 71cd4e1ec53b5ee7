package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For with single IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195"},
			expectedIP: "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For with multiple IPs and spaces",
			headers:    map[string]string{"X-Forwarded-For": "  203.0.113.195  , 70.41.3.18"},
			expectedIP: "203.0.113.195",
		},
		{
			name:       "X-Real-IP when no X-Forwarded-For",
			headers:    map[string]string{"X-Real-IP": "198.51.100.42"},
			expectedIP: "198.51.100.42",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195", "X-Real-IP": "198.51.100.42"},
			remoteAddr: "192.0.2.1:54321",
			expectedIP: "203.0.113.195",
		},
		{
			name:       "RemoteAddr when no proxy headers",
			remoteAddr: "192.0.2.1:54321",
			expectedIP: "192.0.2.1:54321",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			if got := GetClientIP(req); got != tt.expectedIP {
				t.Errorf("GetClientIP() = %q, expected %q", got, tt.expectedIP)
			}
		})
	}
}

func TestParseFloatParam(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal float64
		expected   float64
		wantErr    bool
	}{
		{"empty uses default", "", 24, 24, false},
		{"integer value", "6", 24, 6, false},
		{"fractional value", "1.5", 24, 1.5, false},
		{"invalid is an error", "abc", 24, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloatParam(tt.input, tt.defaultVal)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFloatParam(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFloatParam(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseFloatParam(%q, %v) = %v, expected %v", tt.input, tt.defaultVal, got, tt.expected)
			}
		})
	}
}

func TestOptionalStringParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics?vessel_id=IMO-1&empty=", nil)

	if got := OptionalStringParam(req, "vessel_id"); got == nil || *got != "IMO-1" {
		t.Errorf("expected vessel_id=IMO-1, got %v", got)
	}
	if got := OptionalStringParam(req, "empty"); got != nil {
		t.Errorf("expected nil for empty param, got %q", *got)
	}
	if got := OptionalStringParam(req, "missing"); got != nil {
		t.Errorf("expected nil for missing param, got %q", *got)
	}
}

func BenchmarkGetClientIP_XForwardedFor(b *testing.B) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18, 150.172.238.178")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetClientIP(req)
	}
}
