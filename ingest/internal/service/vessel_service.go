package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

// VesselService manages the vessel register.
type VesselService struct {
	repo   repository.VesselRepository
	logger *logging.Logger
}

func NewVesselService(repo repository.VesselRepository, logger *logging.Logger) *VesselService {
	if logger == nil {
		logger = logging.Default()
	}
	return &VesselService{repo: repo, logger: logger}
}

func vesselExistsError(vesselID string) error {
	return apperror.Conflict(fmt.Sprintf("Vessel %s already exists", vesselID))
}

func vesselNotFoundError(vesselID string) error {
	return apperror.NotFound(fmt.Sprintf("Vessel %s not found", vesselID))
}

func (s *VesselService) CreateVessel(ctx context.Context, req *models.CreateVesselRequest) (*models.VesselResponse, error) {
	if req.VesselID == "" || req.VesselName == "" {
		return nil, apperror.Validation("vesselId and vesselName are required")
	}

	if _, err := s.repo.FindActiveVessel(ctx, req.VesselID); err == nil {
		return nil, vesselExistsError(req.VesselID)
	} else if !errors.Is(err, repository.ErrVesselNotFound) {
		return nil, apperror.Database(err)
	}

	correlationID := uuid.New()
	traceID := uuid.NewString()
	vessel, err := s.repo.CreateVessel(ctx, &models.Vessel{
		VesselID:      req.VesselID,
		VesselName:    req.VesselName,
		CorrelationID: &correlationID,
		TraceID:       &traceID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrVesselExists) {
			return nil, vesselExistsError(req.VesselID)
		}
		return nil, apperror.Database(err)
	}

	s.logger.InfoContext(ctx, "Vessel created", logging.VesselID(vessel.VesselID))
	resp := vessel.ToResponse()
	return &resp, nil
}

func (s *VesselService) GetVessel(ctx context.Context, vesselID string) (*models.VesselResponse, error) {
	vessel, err := s.repo.FindActiveVessel(ctx, vesselID)
	if err != nil {
		if errors.Is(err, repository.ErrVesselNotFound) {
			return nil, vesselNotFoundError(vesselID)
		}
		return nil, apperror.Database(err)
	}
	resp := vessel.ToResponse()
	return &resp, nil
}

func (s *VesselService) ListVessels(ctx context.Context) ([]models.VesselResponse, error) {
	vessels, err := s.repo.ListVessels(ctx)
	if err != nil {
		return nil, apperror.Database(err)
	}
	out := make([]models.VesselResponse, 0, len(vessels))
	for _, v := range vessels {
		out = append(out, v.ToResponse())
	}
	return out, nil
}

func (s *VesselService) DeactivateVessel(ctx context.Context, vesselID string) error {
	if _, err := s.GetVessel(ctx, vesselID); err != nil {
		return err
	}
	if err := s.repo.DeactivateVessel(ctx, vesselID); err != nil {
		return apperror.Database(err)
	}
	s.logger.InfoContext(ctx, "Vessel deactivated", logging.VesselID(vesselID))
	return nil
}
