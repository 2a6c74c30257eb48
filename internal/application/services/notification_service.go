package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// NotificationListLimit bounds a user's notification feed
const NotificationListLimit = 100

// NotificationService is the notification outbox. Every dispatched
// notification is stored before any push is attempted; push delivery is best
// effort and never fails a dispatch.
type NotificationService struct {
	repo    repositories.NotificationRepository
	users   repositories.UserRepository
	push    providers.PushSender
	metrics *observability.Metrics
}

// NewNotificationService creates a new notification service. push may be nil.
func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	push providers.PushSender,
) *NotificationService {
	return &NotificationService{
		repo:  repo,
		users: users,
		push:  push,
	}
}

// SetMetrics enables dispatch metrics
func (n *NotificationService) SetMetrics(metrics *observability.Metrics) {
	n.metrics = metrics
}

// ResolveTarget finds the recipient account, by phone first and then by user
// id. Returns nil without error when neither resolves.
func (n *NotificationService) ResolveTarget(ctx context.Context, target entities.DispatchTarget) (*entities.User, error) {
	if target.Phone != "" {
		user, err := n.users.GetByPhone(ctx, target.Phone)
		if err == nil {
			return user, nil
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, err
		}
	}
	if target.UserID != "" {
		user, err := n.users.GetByID(ctx, target.UserID)
		if err == nil {
			return user, nil
		}
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// Dispatch stores a notification for the target and then tries a push. An
// unresolvable target is a NotFound error.
func (n *NotificationService) Dispatch(ctx context.Context, req entities.DispatchRequest) (*entities.Notification, error) {
	user, err := n.ResolveTarget(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("notification recipient not found")
	}
	return n.DispatchToUser(ctx, user, req)
}

// DispatchToUser stores a notification for an already resolved user and then
// tries a push
func (n *NotificationService) DispatchToUser(ctx context.Context, user *entities.User, req entities.DispatchRequest) (*entities.Notification, error) {
	logger := observability.LoggerFromContext(ctx)

	notificationType := req.Type
	if notificationType == "" {
		notificationType = entities.NotificationTypeGeneral
	}

	notification := &entities.Notification{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		Title:          req.Title,
		Message:        req.Message,
		Type:           notificationType,
		Read:           false,
		DeliveryStatus: entities.DeliveryStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if req.AppointmentID != "" {
		appointmentID := req.AppointmentID
		notification.AppointmentID = &appointmentID
	}

	if err := n.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	n.deliver(ctx, user, notification)

	if err := n.repo.UpdateDelivery(ctx, notification); err != nil {
		logger.Warn().Err(err).Str("notification_id", notification.ID).Msg("failed to record delivery status")
	}
	observability.RecordNotificationMetric(ctx, n.metrics, string(notification.Type), string(notification.DeliveryStatus))

	return notification, nil
}

// deliver sets the delivery status on notification from the push attempt
func (n *NotificationService) deliver(ctx context.Context, user *entities.User, notification *entities.Notification) {
	if n.push == nil || !user.HasPushToken() {
		notification.DeliveryStatus = entities.DeliveryStatusSkipped
		return
	}

	data := map[string]string{
		"notification_id": notification.ID,
		"type":            string(notification.Type),
	}
	if notification.AppointmentID != nil {
		data["appointment_id"] = *notification.AppointmentID
	}

	err := n.push.Send(ctx, entities.PushMessage{
		Token: *user.FCMToken,
		Title: notification.Title,
		Body:  notification.Message,
		Data:  data,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("notification_id", notification.ID).
			Str("user_id", user.ID).
			Msg("push delivery failed")
		msg := err.Error()
		notification.DeliveryStatus = entities.DeliveryStatusFailed
		notification.DeliveryError = &msg
		return
	}

	sentAt := time.Now().UTC()
	notification.DeliveryStatus = entities.DeliveryStatusSent
	notification.SentAt = &sentAt
}

// MarkRead marks a notification read; repeating the call is harmless.
// An empty userID marks any notification, otherwise only the user's own.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return n.repo.MarkRead(ctx, id, userID)
}

// ListForUser returns a user's most recent notifications, newest first
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	return n.repo.ListByUser(ctx, userID, NotificationListLimit)
}
