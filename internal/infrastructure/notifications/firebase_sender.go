package notifications

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/pkg/config"
)

const pushSendTimeout = 10 * time.Second

// messagingClient is the subset of *messaging.Client used by FirebaseSender
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FirebaseSender delivers push notifications through Firebase Cloud Messaging
type FirebaseSender struct {
	client messagingClient
}

// NewFirebaseSender initializes a Firebase app and its messaging client. An
// empty credentials file falls back to application default credentials.
func NewFirebaseSender(ctx context.Context, cfg *config.FirebaseConfig) (*FirebaseSender, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		log.Warn().Msg("FIREBASE_SERVICE_ACCOUNT_PATH not set, using application default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase messaging client: %w", err)
	}

	return &FirebaseSender{client: client}, nil
}

// Send delivers msg to a single device token
func (s *FirebaseSender) Send(ctx context.Context, msg entities.PushMessage) error {
	if msg.Token == "" {
		return fmt.Errorf("push token is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, pushSendTimeout)
	defer cancel()

	if _, err := s.client.Send(ctx, buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

func buildMessage(msg entities.PushMessage) *messaging.Message {
	return &messaging.Message{
		Token: msg.Token,
		Data:  msg.Data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:    "default",
				Priority: messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Sound: "default",
				},
			},
		},
	}
}
