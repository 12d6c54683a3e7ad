package services

import (
	"context"

	"github.com/academix/portal/internal/app/models"
	"github.com/academix/portal/internal/app/models/dto"
)

// ClaimWriter persists claims
type ClaimWriter interface {
	CreateClaim(ctx context.Context, claim *models.Claim) (int64, error)
}

// EnrollmentLookup resolves a user's student enrollment
type EnrollmentLookup interface {
	GetEnrollmentByUserID(ctx context.Context, userID int64) (*models.StudentEnrollment, error)
}

// ClaimService lets enrolled students raise claims to instructor profiles
type ClaimService interface {
	Create(ctx context.Context, callerID int64, req *dto.CreateClaimRequest) (*models.Claim, error)
}

// claimServiceImpl implements the ClaimService interface
type claimServiceImpl struct {
	claims      ClaimWriter
	enrollments EnrollmentLookup
}

// NewClaimService creates a new claim service instance
func NewClaimService(claims ClaimWriter, enrollments EnrollmentLookup) ClaimService {
	return &claimServiceImpl{claims: claims, enrollments: enrollments}
}

// Create records a claim from the caller's student enrollment to the given
// instructor profile. Callers without an enrollment cannot raise claims.
func (s *claimServiceImpl) Create(ctx context.Context, callerID int64, req *dto.CreateClaimRequest) (*models.Claim, error) {
	enrollment, err := s.enrollments.GetEnrollmentByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	claim := &models.Claim{
		ClaimerID:   enrollment.ID,
		RecipientID: req.RecipientID,
		Description: req.Description,
	}

	id, err := s.claims.CreateClaim(ctx, claim)
	if err != nil {
		return nil, err
	}
	claim.ID = id

	return claim, nil
}
