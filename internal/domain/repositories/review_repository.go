package repositories

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// List retrieves reviews, optionally for a single appointment
	List(ctx context.Context, filter ReviewFilter) ([]*entities.Review, error)

	// RatingSummary returns the sum and number of all ratings
	RatingSummary(ctx context.Context) (sum int, count int, err error)
}

// ReviewFilter defines filters for listing reviews
type ReviewFilter struct {
	AppointmentID string
	Limit         int
}
