package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	Create(ctx context.Context, req entities.ReviewCreate) (*entities.Review, error)
	List(ctx context.Context, appointmentID string) ([]*entities.Review, error)
}

// ReviewHandler handles visit reviews
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// CreateReview handles POST /api/reviews. A patient's review is always filed
// under their own account.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req entities.ReviewCreate
	if !readJSON(w, r, &req) {
		return
	}
	if !claims.IsAdmin() {
		req.PatientID = claims.UserID
	}
	if !checkValid(w, &req) {
		return
	}

	review, err := h.service.Create(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/reviews?appointment_id
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context(), r.URL.Query().Get("appointment_id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}
