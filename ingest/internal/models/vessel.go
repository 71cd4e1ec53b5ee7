package models

import (
	"time"

	"github.com/google/uuid"
)

// Vessel is a row of vessel_register_table.
type Vessel struct {
	VesselID      string
	VesselName    string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CorrelationID *uuid.UUID
	TraceID       *string
}

// CreateVesselRequest is the body of POST /api/v1/vessels.
type CreateVesselRequest struct {
	VesselID   string `json:"vesselId"`
	VesselName string `json:"vesselName"`
}

// VesselResponse is the admin view of a vessel.
type VesselResponse struct {
	VesselID   string    `json:"vesselId"`
	VesselName string    `json:"vesselName"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToResponse converts a vessel row to its API representation.
func (v *Vessel) ToResponse() VesselResponse {
	return VesselResponse{
		VesselID:   v.VesselID,
		VesselName: v.VesselName,
		IsActive:   v.IsActive,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}
