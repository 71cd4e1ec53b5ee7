package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seawatch-systems/seawatch-stack/common/database"
	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/metrics"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

// APIKeyPrefix starts every generated vessel API key.
const APIKeyPrefix = "sk_"

// AuthService resolves vessel API keys and manages their lifecycle.
type AuthService struct {
	repo   repository.APIKeyRepository
	logger *logging.Logger
}

func NewAuthService(repo repository.APIKeyRepository, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{repo: repo, logger: logger}
}

// ValidateAPIKey returns the vessel that owns apiKey. The key's last-used
// timestamp is updated in a detached goroutine whose outcome is never
// reported to the caller.
func (s *AuthService) ValidateAPIKey(ctx context.Context, apiKey string) (string, error) {
	if apiKey == "" {
		metrics.APIKeyValidationsTotal.WithLabelValues("missing").Inc()
		return "", apperror.Unauthorized("Missing API key")
	}

	vesselID, err := s.repo.ValidateAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repository.ErrAPIKeyNotFound) {
			metrics.APIKeyValidationsTotal.WithLabelValues("invalid").Inc()
			s.logger.WarnContext(ctx, "Invalid API key attempt")
			return "", apperror.Unauthorized("Invalid API key")
		}
		return "", apperror.Database(err)
	}

	metrics.APIKeyValidationsTotal.WithLabelValues("valid").Inc()
	go s.touchLastUsed(apiKey)

	return vesselID, nil
}

func (s *AuthService) touchLastUsed(apiKey string) {
	ctx, cancel := database.WriteContext(context.Background())
	defer cancel()

	if err := s.repo.UpdateLastUsed(ctx, apiKey); err != nil {
		s.logger.Debug("last used update dropped", logging.Error(err))
	}
}

// GenerateAPIKey returns "sk_" followed by 32 hex characters.
func GenerateAPIKey() string {
	return APIKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *AuthService) CreateAPIKey(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.APIKey, error) {
	if req.VesselID == "" {
		return nil, apperror.Validation("vesselId is required")
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		return nil, apperror.Validation("expiresAt must be in the future")
	}

	key, err := s.repo.CreateAPIKey(ctx, req.VesselID, GenerateAPIKey(), req.ExpiresAt)
	if err != nil {
		return nil, apperror.Database(err)
	}

	s.logger.InfoContext(ctx, "API key created", logging.VesselID(req.VesselID))
	return key, nil
}

func (s *AuthService) ListAPIKeys(ctx context.Context, vesselID string) ([]*models.APIKey, error) {
	keys, err := s.repo.ListAPIKeys(ctx, vesselID)
	if err != nil {
		return nil, apperror.Database(err)
	}
	return keys, nil
}

func (s *AuthService) RevokeAPIKey(ctx context.Context, apiKey string) error {
	if err := s.repo.RevokeAPIKey(ctx, apiKey); err != nil {
		return apperror.Database(err)
	}
	s.logger.InfoContext(ctx, "API key revoked")
	return nil
}
