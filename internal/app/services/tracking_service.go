package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/metrics"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/logger"
	"github.com/yigit/scholarship/internal/pkg/validation"
)

// ApplicationReader loads a stored application by ID
type ApplicationReader interface {
	GetByID(ctx context.Context, id int64) (*models.ScholarshipApplication, error)
}

// CredentialChecker reports whether database credentials are configured
type CredentialChecker interface {
	HasDatabaseCredentials() bool
}

// TrackingService defines the interface for application tracking
type TrackingService interface {
	Track(ctx context.Context, rawID string) (*dto.ApplicationView, error)
}

// trackingServiceImpl implements TrackingService
type trackingServiceImpl struct {
	reader  ApplicationReader
	config  CredentialChecker
	metrics *metrics.Metrics
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(reader ApplicationReader, config CredentialChecker, m *metrics.Metrics) TrackingService {
	return &trackingServiceImpl{
		reader:  reader,
		config:  config,
		metrics: m,
	}
}

// Track validates rawID, loads the application and reshapes it for clients
func (s *trackingServiceImpl) Track(ctx context.Context, rawID string) (*dto.ApplicationView, error) {
	if rawID == "" {
		return nil, apperrors.NewValidationError("Application ID is required").
			WithDetails("Please provide a valid application ID")
	}

	id, err := validation.ParseApplicationID(rawID)
	outOfRange := errors.Is(err, validation.ErrApplicationIDOutOfRange)
	if err != nil && !outOfRange {
		return nil, apperrors.NewValidationError("Invalid Application ID format").
			WithDetails("Application ID must be a number")
	}

	// LoadConfig already rejects missing credentials; configs built without it reach this
	if !s.config.HasDatabaseCredentials() {
		logger.Ctx(ctx).Error().Msg("Missing database configuration")
		return nil, apperrors.NewCustomError(apperrors.ErrConfiguration, "Server configuration error").
			WithDetails("Database configuration is incomplete")
	}

	// No BIGSERIAL row can carry an ID past int64
	if outOfRange {
		s.metrics.IncrementSubmission("track", "failure")
		return nil, applicationNotFound(rawID)
	}

	app, err := s.reader.GetByID(ctx, id)
	if err != nil {
		s.metrics.IncrementSubmission("track", "failure")
		if errors.Is(err, apperrors.ErrApplicationNotFound) {
			return nil, applicationNotFound(rawID)
		}
		return nil, err
	}

	if app.ID == 0 || app.Name == "" {
		logger.Ctx(ctx).Error().Int64("applicationId", id).Msg("Invalid application data")
		s.metrics.IncrementSubmission("track", "failure")
		return nil, apperrors.NewCustomError(apperrors.ErrDataIntegrity, "Invalid application data").
			WithDetails("Application data is incomplete or corrupted")
	}

	s.metrics.IncrementSubmission("track", "success")
	return dto.NewApplicationView(app), nil
}

func applicationNotFound(rawID string) error {
	return apperrors.NewCustomError(apperrors.ErrApplicationNotFound, "Application not found").
		WithDetails(fmt.Sprintf("No application found with ID %s", rawID))
}
