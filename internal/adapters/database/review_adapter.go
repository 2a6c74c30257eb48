package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const reviewsTable = "reviews"

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert(reviewsTable).Rows(goqu.Record{
		"id":             review.ID,
		"appointment_id": review.AppointmentID,
		"patient_id":     review.PatientID,
		"rating":         review.Rating,
		"comment":        review.Comment,
		"created_at":     review.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}
	return nil
}

// List retrieves reviews, newest first
func (a *ReviewAdapter) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	ds := a.db.Select("id", "appointment_id", "patient_id", "rating", "comment", "created_at").
		From(reviewsTable)
	if filter.AppointmentID != "" {
		ds = ds.Where(goqu.Ex{"appointment_id": filter.AppointmentID})
	}
	ds = ds.Order(goqu.I("created_at").Desc()).Limit(uint(clampLimit(filter.Limit)))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*entities.Review, 0)
	for rows.Next() {
		review := &entities.Review{}
		var comment sql.NullString
		if err := rows.Scan(&review.ID, &review.AppointmentID, &review.PatientID, &review.Rating, &comment, &review.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		review.Comment = stringPtr(comment)
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}
	return reviews, nil
}

// RatingSummary returns the sum and number of all ratings
func (a *ReviewAdapter) RatingSummary(ctx context.Context) (int, int, error) {
	query, args, err := a.db.From(reviewsTable).
		Select(
			goqu.COALESCE(goqu.SUM("rating"), 0),
			goqu.COUNT("*"),
		).
		ToSQL()
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to build summary query", err)
	}

	var sum, count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&sum, &count); err != nil {
		return 0, 0, apperrors.NewInternalError("failed to summarise ratings", err)
	}
	return sum, count, nil
}
