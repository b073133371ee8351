package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/scholarship/internal/app/models"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/metrics"
	"github.com/yigit/scholarship/internal/pkg/apperrors"
)

// ReferenceStore reads the Aadhaar and CAP registry tables
type ReferenceStore interface {
	FindAadhar(ctx context.Context, aadharNo string) (*models.AadharRecord, error)
	FindCap(ctx context.Context, capID string) (*models.CapRecord, error)
}

// VerificationService defines the interface for identity verification
type VerificationService interface {
	Verify(ctx context.Context, req *dto.VerifyRequest) (*models.VerifiedData, error)
}

// verificationServiceImpl implements VerificationService
type verificationServiceImpl struct {
	refs    ReferenceStore
	metrics *metrics.Metrics
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(refs ReferenceStore, m *metrics.Metrics) VerificationService {
	return &verificationServiceImpl{
		refs:    refs,
		metrics: m,
	}
}

// Verify looks up both reference records. A missing Aadhaar record is
// reported ahead of a missing CAP record.
func (s *verificationServiceImpl) Verify(ctx context.Context, req *dto.VerifyRequest) (*models.VerifiedData, error) {
	aadhar, err := s.refs.FindAadhar(ctx, req.AadharNo)
	if err != nil {
		s.metrics.IncrementSubmission("verify", "failure")
		if errors.Is(err, apperrors.ErrAadharNotFound) {
			return nil, apperrors.NewCustomError(err, "Aadhaar number not found")
		}
		return nil, fmt.Errorf("error fetching aadhaar record: %w", err)
	}

	capRec, err := s.refs.FindCap(ctx, req.CapID)
	if err != nil {
		s.metrics.IncrementSubmission("verify", "failure")
		if errors.Is(err, apperrors.ErrCapNotFound) {
			return nil, apperrors.NewCustomError(err, "CAP ID not found")
		}
		return nil, fmt.Errorf("error fetching CAP record: %w", err)
	}

	s.metrics.IncrementSubmission("verify", "success")
	return &models.VerifiedData{Aadhar: aadhar, Cap: capRec}, nil
}
