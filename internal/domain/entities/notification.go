package entities

import "time"

// NotificationType represents the notification purpose
type NotificationType string

const (
	NotificationTypeReminder  NotificationType = "reminder"
	NotificationTypeCampaign  NotificationType = "campaign"
	NotificationTypePostVisit NotificationType = "post_visit"
	NotificationTypeGeneral   NotificationType = "general"
)

// DeliveryStatus tracks the push attempt made after a notification is stored
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusSkipped DeliveryStatus = "skipped"
)

// Notification is an in-app message stored for a user. Read only ever moves
// from false to true.
type Notification struct {
	ID             string           `json:"id" db:"id"`
	UserID         string           `json:"user_id" db:"user_id"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	Type           NotificationType `json:"type" db:"type"`
	AppointmentID  *string          `json:"appointment_id,omitempty" db:"appointment_id"`
	Read           bool             `json:"read" db:"read"`
	DeliveryStatus DeliveryStatus   `json:"delivery_status" db:"delivery_status"`
	DeliveryError  *string          `json:"-" db:"delivery_error"`
	SentAt         *time.Time       `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

// DispatchTarget identifies the recipient of a notification. Phone is tried
// first so that bookings entered by staff reach the account that later logs
// in with that phone; UserID is the fallback.
type DispatchTarget struct {
	UserID string
	Phone  string
}

// DispatchRequest is the input to the notification outbox
type DispatchRequest struct {
	Target        DispatchTarget
	Title         string
	Message       string
	Type          NotificationType
	AppointmentID string
}

// NotificationCreate is an admin request to notify a single user
type NotificationCreate struct {
	UserID        string           `json:"user_id" validate:"required_without=Phone"`
	Phone         string           `json:"phone"`
	Title         string           `json:"title" validate:"required"`
	Message       string           `json:"message" validate:"required"`
	Type          NotificationType `json:"type" validate:"omitempty,oneof=reminder campaign post_visit general"`
	AppointmentID string           `json:"appointment_id,omitempty"`
}

// PushMessage is what the push sender delivers to a device
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
