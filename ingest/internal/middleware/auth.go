// Package middleware gates ingest routes behind vessel API keys and the
// admin key.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
)

type contextKey string

const (
	VesselIDKey contextKey = "vessel_id"

	APIKeyHeader   = "x-api-key"
	AdminKeyHeader = "x-admin-key"
)

// APIKeyValidator resolves an API key to the owning vessel.
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (string, error)
}

// APIKeyAuth rejects requests without a valid x-api-key and stores the
// authenticated vessel id in the request context.
func APIKeyAuth(validator APIKeyValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vesselID, err := validator.ValidateAPIKey(r.Context(), r.Header.Get(APIKeyHeader))
			if err != nil {
				apperror.Write(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), VesselIDKey, vesselID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminKey rejects requests whose x-admin-key does not match adminKey.
func AdminKey(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminKeyHeader)
			if provided == "" {
				apperror.Write(w, apperror.Unauthorized("Missing admin key"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				apperror.Write(w, apperror.Unauthorized("Invalid admin key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetVesselID returns the vessel authenticated by APIKeyAuth, or "".
func GetVesselID(ctx context.Context) string {
	if id, ok := ctx.Value(VesselIDKey).(string); ok {
		return id
	}
	return ""
}
