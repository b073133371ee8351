package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/repositories"
	"github.com/yigit/scholarship/internal/db"
	"github.com/yigit/scholarship/internal/metrics"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
	"github.com/yigit/scholarship/internal/pkg/filestorage"
	"github.com/yigit/scholarship/internal/pkg/helpers"
	"github.com/yigit/scholarship/internal/pkg/logger"
	"github.com/yigit/scholarship/internal/pkg/validation"
)

const marksheetPrefix = "marksheet"

// ApplicationStore is the persistence surface used while writing an application
type ApplicationStore interface {
	Create(ctx context.Context, p *models.PersonalDetails) (int64, error)
	LatestID(ctx context.Context) (int64, error)
	LockByID(ctx context.Context, id int64) error
	UpdateFamilyDetails(ctx context.Context, id int64, f *models.FamilyDetails) error
}

// FormOptions controls how strictly the family details form is parsed
type FormOptions struct {
	// StrictBooleans rejects boolean fields other than "true"/"false" and
	// enforces the occupation and marksheet rules on the server.
	StrictBooleans bool
	// MaxUploadBytes bounds the marksheet size in strict mode.
	MaxUploadBytes int64
}

// FamilyDetailsInput is a family details submission as received
type FamilyDetailsInput struct {
	Form      dto.FamilyDetailsForm
	Marksheet *multipart.FileHeader
}

// ApplicationService defines the interface for creating and completing applications
type ApplicationService interface {
	SubmitPersonalDetails(ctx context.Context, req *dto.PersonalDetailsRequest) (int64, error)
	SubmitFamilyDetails(ctx context.Context, in *FamilyDetailsInput) (int64, error)
}

// applicationServiceImpl implements ApplicationService
type applicationServiceImpl struct {
	transactor db.Transactor
	withTx     func(tx pgx.Tx) ApplicationStore
	storage    filestorage.FileStorage
	opts       FormOptions
	metrics    *metrics.Metrics
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	transactor db.Transactor,
	applicationRepo *repositories.ApplicationRepository,
	storage filestorage.FileStorage,
	opts FormOptions,
	m *metrics.Metrics,
) ApplicationService {
	return &applicationServiceImpl{
		transactor: transactor,
		withTx: func(tx pgx.Tx) ApplicationStore {
			return applicationRepo.WithTx(tx)
		},
		storage: storage,
		opts:    opts,
		metrics: m,
	}
}

// SubmitPersonalDetails inserts a new application inside a transaction and
// returns its ID. The request must already have passed required-field validation.
func (s *applicationServiceImpl) SubmitPersonalDetails(ctx context.Context, req *dto.PersonalDetailsRequest) (int64, error) {
	var id int64
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		id, err = s.withTx(tx).Create(ctx, req.ToModel())
		return err
	})
	if err != nil {
		s.metrics.IncrementSubmission("personal", "failure")
		return 0, fmt.Errorf("error saving personal details: %w", err)
	}

	s.metrics.IncrementSubmission("personal", "success")
	logger.Ctx(ctx).Info().Int64("applicationId", id).Msg("Personal details saved")
	return id, nil
}

// SubmitFamilyDetails stores the family details on the target application
// and returns its ID. Without an explicit application_id the most recently
// created application is updated.
func (s *applicationServiceImpl) SubmitFamilyDetails(ctx context.Context, in *FamilyDetailsInput) (int64, error) {
	details, explicitID, err := s.parseFamilyForm(in)
	if err != nil {
		s.metrics.IncrementSubmission("family", "rejected")
		return 0, err
	}

	var (
		applicationID int64
		storedPath    string
	)
	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		store := s.withTx(tx)

		if explicitID != nil {
			if err := store.LockByID(ctx, *explicitID); err != nil {
				return err
			}
			applicationID = *explicitID
		} else {
			id, err := store.LatestID(ctx)
			if err != nil {
				return err
			}
			applicationID = id
		}

		if details.YearOfStudy != 1 && in.Marksheet != nil {
			path, err := s.storage.SaveWithPrefix(in.Marksheet, marksheetPrefix)
			if err != nil {
				logger.Ctx(ctx).Error().Err(err).Msg("Error uploading marksheet")
				return apperrors.NewCustomError(apperrors.ErrStorageWriteFail, "Failed to upload marksheet")
			}
			storedPath = path
			details.MarksheetUpload = &storedPath
			s.metrics.ObserveUpload(in.Marksheet.Size)
		}

		return store.UpdateFamilyDetails(ctx, applicationID, details)
	})
	if err != nil {
		s.metrics.IncrementSubmission("family", "failure")
		if storedPath != "" {
			if delErr := s.storage.DeleteFile(storedPath); delErr != nil {
				logger.Ctx(ctx).Error().Err(delErr).Str("path", storedPath).Msg("Failed to remove marksheet after rollback")
			}
		}
		return 0, fmt.Errorf("error saving family details: %w", err)
	}

	s.metrics.IncrementSubmission("family", "success")
	logger.Ctx(ctx).Info().Int64("applicationId", applicationID).Msg("Family details saved")
	return applicationID, nil
}

// parseFamilyForm converts the string form into typed family details
func (s *applicationServiceImpl) parseFamilyForm(in *FamilyDetailsInput) (*models.FamilyDetails, *int64, error) {
	f := in.Form

	var explicitID *int64
	if f.ApplicationID != "" {
		id, err := validation.ParseApplicationID(f.ApplicationID)
		if errors.Is(err, validation.ErrApplicationIDOutOfRange) {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrApplicationNotFound, "Application not found").
				WithDetails(fmt.Sprintf("No application found with ID %s", f.ApplicationID))
		}
		if err != nil {
			return nil, nil, invalidFamilyDetails(err.Error())
		}
		explicitID = &id
	}

	year, err := validation.ParseYearOfStudy(f.CurrentYear)
	if err != nil {
		return nil, nil, invalidFamilyDetails(err.Error())
	}

	details := &models.FamilyDetails{
		FatherOccupation: helpers.NullableString(f.FatherOccupation),
		MotherOccupation: helpers.NullableString(f.MotherOccupation),
		YearOfStudy:      year,
	}

	flags := []struct {
		name  string
		value string
		dest  *bool
	}{
		{"student_salaried", f.StudentSalaried, &details.StudentSalaried},
		{"father_alive", f.FatherAlive, &details.FatherAlive},
		{"father_working", f.FatherWorking, &details.FatherWorking},
		{"mother_alive", f.MotherAlive, &details.MotherAlive},
		{"mother_working", f.MotherWorking, &details.MotherWorking},
	}
	for _, flag := range flags {
		value, ok := validation.FormBool(flag.value)
		if !ok && s.opts.StrictBooleans {
			return nil, nil, invalidFamilyDetails(fmt.Sprintf("%s must be \"true\" or \"false\"", flag.name))
		}
		*flag.dest = value
	}

	if s.opts.StrictBooleans {
		if err := s.enforceFormRules(details, f, in.Marksheet); err != nil {
			return nil, nil, err
		}
	}

	return details, explicitID, nil
}

// enforceFormRules applies the occupation and marksheet rules otherwise
// checked only by clients.
func (s *applicationServiceImpl) enforceFormRules(details *models.FamilyDetails, f dto.FamilyDetailsForm, marksheet *multipart.FileHeader) error {
	if details.FatherWorking && strings.TrimSpace(f.FatherOccupation) == "" {
		return invalidFamilyDetails("father_occupation is required when father_working is true")
	}
	if details.MotherWorking && strings.TrimSpace(f.MotherOccupation) == "" {
		return invalidFamilyDetails("mother_occupation is required when mother_working is true")
	}

	if details.YearOfStudy == 1 {
		return nil
	}
	if marksheet == nil {
		return invalidFamilyDetails("marksheet is required when current_year is not 1")
	}

	limit := s.opts.MaxUploadBytes
	if limit <= 0 {
		limit = validation.MaxMarksheetBytes
	}
	if marksheet.Size > limit {
		return invalidFamilyDetails(fmt.Sprintf("marksheet must not exceed %d bytes", limit))
	}

	detected, err := filestorage.DetectType(marksheet)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrInvalidUpload, "Invalid family details").WithDetails("marksheet could not be read")
	}
	if !validation.IsAllowedMarksheetType(detected.MimeType) {
		return invalidFamilyDetails("marksheet must be a PDF, JPEG or PNG file")
	}

	return nil
}

func invalidFamilyDetails(details string) error {
	return apperrors.NewValidationError("Invalid family details").WithDetails(details)
}
