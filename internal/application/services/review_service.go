package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// ReviewService handles visit reviews.
type ReviewService struct {
	repo repositories.ReviewRepository
}

// NewReviewService creates a new review service.
func NewReviewService(repo repositories.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

// Create stores a review.
func (s *ReviewService) Create(ctx context.Context, req entities.ReviewCreate) (*entities.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if req.AppointmentID == "" || req.PatientID == "" {
		return nil, apperrors.NewValidationError("appointment_id and patient_id are required")
	}

	review := &entities.Review{
		ID:            uuid.New().String(),
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns reviews, optionally for one appointment.
func (s *ReviewService) List(ctx context.Context, appointmentID string) ([]*entities.Review, error) {
	return s.repo.List(ctx, repositories.ReviewFilter{
		AppointmentID: appointmentID,
		Limit:         repositories.MaxListLimit,
	})
}
