package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// NotificationService defines the notification operations used by the handler
type NotificationService interface {
	Dispatch(ctx context.Context, req entities.DispatchRequest) (*entities.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	ListForUser(ctx context.Context, userID string) ([]*entities.Notification, error)
}

// NotificationHandler handles the in-app notification feed
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications handles GET /api/notifications?user_id. Patients always
// get their own feed.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	userID := r.URL.Query().Get("user_id")
	if !claims.IsAdmin() {
		userID = claims.UserID
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PUT /api/notifications/{id}/read. Patients can only mark
// their own notifications.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var userID string
	if !claims.IsAdmin() {
		userID = claims.UserID
	}

	if err := h.service.MarkRead(r.Context(), r.PathValue("id"), userID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithMessage(w, http.StatusOK, "Notification marked as read")
}

// CreateNotification handles POST /api/notifications, letting staff message
// one patient by user id or phone
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req entities.NotificationCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	notification, err := h.service.Dispatch(r.Context(), entities.DispatchRequest{
		Target:        entities.DispatchTarget{UserID: req.UserID, Phone: req.Phone},
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		AppointmentID: req.AppointmentID,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, notification)
}
