package httputil

import (
	"net/http"
	"strconv"
	"strings"
)

// GetClientIP extracts the real client IP address from request headers.
// It handles proxy scenarios by checking headers in this order:
//  1. X-Forwarded-For (extracts first/client IP from comma-separated list)
//  2. X-Real-IP (single IP from reverse proxy)
//  3. RemoteAddr (direct connection)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// OptionalStringParam returns a pointer to the named query parameter, or nil
// when the parameter is absent or empty.
func OptionalStringParam(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// ParseFloatParam parses a float query parameter. An empty value yields
// defaultVal; a malformed one is an error.
//
// Example:
//
//	hours, err := httputil.ParseFloatParam(r.URL.Query().Get("hours"), 24)
func ParseFloatParam(s string, defaultVal float64) (float64, error) {
	if s == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(s, 64)
}
