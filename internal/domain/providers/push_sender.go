package providers

import (
	"context"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// PushSender delivers a notification to a single device. Delivery is best
// effort: callers log errors and carry on.
type PushSender interface {
	Send(ctx context.Context, message entities.PushMessage) error
}

// OTPChannel delivers a login code to a phone
type OTPChannel interface {
	SendOTP(ctx context.Context, phone, code string) error
}
