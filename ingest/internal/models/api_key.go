package models

import "time"

// APIKey is a row of api_keys.
type APIKey struct {
	ID         int32      `json:"id"`
	VesselID   string     `json:"vesselId"`
	APIKey     string     `json:"apiKey"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

// CreateAPIKeyRequest is the body of POST /api/v1/api-keys.
type CreateAPIKeyRequest struct {
	VesselID  string     `json:"vesselId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
