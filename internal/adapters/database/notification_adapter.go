package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// NotificationAdapter implements the NotificationRepository interface on sqlx
type NotificationAdapter struct {
	db *sqlx.DB
}

// NewNotificationAdapter creates a new notification adapter
func NewNotificationAdapter(db *sqlx.DB) repositories.NotificationRepository {
	return &NotificationAdapter{db: db}
}

// Create stores a notification
func (a *NotificationAdapter) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications
		(id, user_id, title, message, type, appointment_id, read, delivery_status, delivery_error, sent_at, created_at)
		VALUES (:id, :user_id, :title, :message, :type, :appointment_id, :read, :delivery_status, :delivery_error, :sent_at, :created_at)
	`
	if _, err := a.db.NamedExecContext(ctx, query, notification); err != nil {
		return apperrors.NewInternalError("failed to create notification", err)
	}
	return nil
}

// UpdateDelivery records the outcome of the push attempt
func (a *NotificationAdapter) UpdateDelivery(ctx context.Context, notification *entities.Notification) error {
	query := `UPDATE notifications SET delivery_status = $1, delivery_error = $2, sent_at = $3 WHERE id = $4`
	result, err := a.db.ExecContext(ctx, query,
		notification.DeliveryStatus, notification.DeliveryError, notification.SentAt, notification.ID,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update notification delivery", err)
	}
	return expectAffected(result, fmt.Sprintf("notification with id %s not found", notification.ID))
}

// MarkRead sets read=true. Postgres reports matched rows, so marking an
// already-read notification still affects one row. Another user's
// notification matches no row and reads as not found.
func (a *NotificationAdapter) MarkRead(ctx context.Context, id, userID string) error {
	var (
		result sql.Result
		err    error
	)
	if userID == "" {
		result, err = a.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	} else {
		result, err = a.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	}
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}
	return expectAffected(result, fmt.Sprintf("notification with id %s not found", id))
}

// ListByUser retrieves up to limit notifications for a user, newest first
func (a *NotificationAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Notification, error) {
	if limit <= 0 {
		limit = repositories.MaxListLimit
	}

	notifications := make([]*entities.Notification, 0)
	query := `
		SELECT id, user_id, title, message, type, appointment_id, read, delivery_status, delivery_error, sent_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := a.db.SelectContext(ctx, &notifications, query, userID, limit); err != nil {
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	return notifications, nil
}
