package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicbooking/backend/internal/application/services"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

func TestNotificationService_Dispatch(t *testing.T) {
	t.Run("stores and pushes to a registered device", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		push := new(MockPushSender)
		service := services.NewNotificationService(repo, users, push)

		users.On("GetByPhone", mock.Anything, "+963900000001").Return(&entities.User{ID: "user-1", FCMToken: strPtr("device-1")}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		push.On("Send", mock.Anything, mock.MatchedBy(func(m entities.PushMessage) bool {
			return m.Token == "device-1" && m.Title == "hello"
		})).Return(nil)
		repo.On("UpdateDelivery", mock.Anything, mock.Anything).Return(nil)

		notification, err := service.Dispatch(context.Background(), entities.DispatchRequest{
			Target:  entities.DispatchTarget{Phone: "+963900000001"},
			Title:   "hello",
			Message: "world",
		})

		require.NoError(t, err)
		assert.Equal(t, "user-1", notification.UserID)
		assert.Equal(t, entities.NotificationTypeGeneral, notification.Type)
		assert.False(t, notification.Read)
		assert.Equal(t, entities.DeliveryStatusSent, notification.DeliveryStatus)
		assert.NotNil(t, notification.SentAt)
		push.AssertExpectations(t)
	})

	t.Run("push failure still returns the stored notification", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		push := new(MockPushSender)
		service := services.NewNotificationService(repo, users, push)

		users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", FCMToken: strPtr("stale")}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		push.On("Send", mock.Anything, mock.Anything).Return(errors.New("registration-token-not-registered"))
		repo.On("UpdateDelivery", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
			return n.DeliveryStatus == entities.DeliveryStatusFailed && n.DeliveryError != nil
		})).Return(nil)

		notification, err := service.Dispatch(context.Background(), entities.DispatchRequest{
			Target: entities.DispatchTarget{UserID: "user-1"},
			Title:  "t",
			Type:   entities.NotificationTypeCampaign,
		})

		require.NoError(t, err)
		assert.Equal(t, entities.DeliveryStatusFailed, notification.DeliveryStatus)
		repo.AssertExpectations(t)
	})

	t.Run("no device token skips the push", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		push := new(MockPushSender)
		service := services.NewNotificationService(repo, users, push)

		users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1"}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		repo.On("UpdateDelivery", mock.Anything, mock.Anything).Return(errors.New("db hiccup"))

		notification, err := service.Dispatch(context.Background(), entities.DispatchRequest{
			Target: entities.DispatchTarget{UserID: "user-1"},
			Title:  "t",
		})

		require.NoError(t, err)
		assert.Equal(t, entities.DeliveryStatusSkipped, notification.DeliveryStatus)
		push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("storage failure fails the dispatch", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		service := services.NewNotificationService(repo, users, nil)

		users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1"}, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewInternalError("failed to create notification", errors.New("conn reset")))

		_, err := service.Dispatch(context.Background(), entities.DispatchRequest{
			Target: entities.DispatchTarget{UserID: "user-1"},
			Title:  "t",
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
		repo.AssertNotCalled(t, "UpdateDelivery", mock.Anything, mock.Anything)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		users := new(MockUserRepository)
		service := services.NewNotificationService(repo, users, nil)

		users.On("GetByPhone", mock.Anything, "+963900000009").Return(nil, apperrors.NewNotFoundError("user not found"))
		users.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("user not found"))

		_, err := service.Dispatch(context.Background(), entities.DispatchRequest{
			Target: entities.DispatchTarget{UserID: "ghost", Phone: "+963900000009"},
			Title:  "t",
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_ResolveTargetPrefersPhone(t *testing.T) {
	users := new(MockUserRepository)
	service := services.NewNotificationService(new(MockNotificationRepository), users, nil)

	users.On("GetByPhone", mock.Anything, "+963900000001").Return(&entities.User{ID: "by-phone"}, nil)

	user, err := service.ResolveTarget(context.Background(), entities.DispatchTarget{UserID: "stale-id", Phone: "+963900000001"})

	require.NoError(t, err)
	assert.Equal(t, "by-phone", user.ID)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestNotificationService_MarkReadAndList(t *testing.T) {
	repo := new(MockNotificationRepository)
	service := services.NewNotificationService(repo, new(MockUserRepository), nil)

	repo.On("MarkRead", mock.Anything, "n-1", "user-1").Return(nil).Twice()
	require.NoError(t, service.MarkRead(context.Background(), "n-1", "user-1"))
	require.NoError(t, service.MarkRead(context.Background(), "n-1", "user-1"))

	feed := []*entities.Notification{{ID: "n-2"}, {ID: "n-1"}}
	repo.On("ListByUser", mock.Anything, "user-1", services.NotificationListLimit).Return(feed, nil)

	notifications, err := service.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, feed, notifications)
	assert.Equal(t, 100, services.NotificationListLimit)

	_, err = service.ListForUser(context.Background(), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	repo.AssertExpectations(t)
}
