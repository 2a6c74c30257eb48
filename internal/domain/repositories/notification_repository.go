package repositories

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// NotificationRepository defines the interface for the notification outbox
type NotificationRepository interface {
	// Create stores a notification
	Create(ctx context.Context, notification *entities.Notification) error

	// UpdateDelivery records the outcome of the push attempt
	UpdateDelivery(ctx context.Context, notification *entities.Notification) error

	// MarkRead sets read=true; it succeeds when the notification is already read.
	// A non-empty userID limits the update to that user's notifications.
	MarkRead(ctx context.Context, id, userID string) error

	// ListByUser retrieves up to limit notifications for a user, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Notification, error)
}

// CampaignRepository defines the interface for campaign operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *entities.Campaign) error
	GetByID(ctx context.Context, id string) (*entities.Campaign, error)

	// List retrieves up to limit campaigns, newest first
	List(ctx context.Context, limit int) ([]*entities.Campaign, error)

	// MarkSent sets status=sent and records how many patients were reached
	MarkSent(ctx context.Context, id string, sentCount int) error
}
