package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/clinicbooking/backend/internal/api/handlers"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Dispatch(ctx context.Context, req entities.DispatchRequest) (*entities.Notification, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) ListForUser(ctx context.Context, userID string) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	service := new(MockNotificationService)
	handler := handlers.NewNotificationHandler(service)
	service.On("ListForUser", mock.Anything, "user-1").Return([]*entities.Notification{{ID: "n-1"}}, nil)
	service.On("ListForUser", mock.Anything, "user-9").Return([]*entities.Notification{}, nil)

	w := httptest.NewRecorder()
	handler.ListNotifications(w, newRequest(http.MethodGet, "/api/notifications?user_id=user-9", "", patientClaims))
	assert.Equal(t, http.StatusOK, w.Code)
	var feed []entities.Notification
	decodeBody(t, w, &feed)
	assert.Len(t, feed, 1)

	w = httptest.NewRecorder()
	handler.ListNotifications(w, newRequest(http.MethodGet, "/api/notifications?user_id=user-9", "", adminClaims))
	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	service := new(MockNotificationService)
	handler := handlers.NewNotificationHandler(service)
	service.On("MarkRead", mock.Anything, "n-1", "user-1").Return(nil)
	service.On("MarkRead", mock.Anything, "missing", "user-1").Return(apperrors.NewNotFoundError("notification not found"))

	for i := 0; i < 2; i++ {
		req := newRequest(http.MethodPut, "/api/notifications/n-1/read", "", patientClaims)
		req.SetPathValue("id", "n-1")
		w := httptest.NewRecorder()
		handler.MarkRead(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := newRequest(http.MethodPut, "/api/notifications/missing/read", "", patientClaims)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.MarkRead(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotificationHandler_MarkRead_ScopedToOwner(t *testing.T) {
	service := new(MockNotificationService)
	handler := handlers.NewNotificationHandler(service)
	service.On("MarkRead", mock.Anything, "n-other", "user-1").
		Return(apperrors.NewNotFoundError("notification with id n-other not found"))
	service.On("MarkRead", mock.Anything, "n-other", "").Return(nil)

	req := newRequest(http.MethodPut, "/api/notifications/n-other/read", "", patientClaims)
	req.SetPathValue("id", "n-other")
	w := httptest.NewRecorder()
	handler.MarkRead(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = newRequest(http.MethodPut, "/api/notifications/n-other/read", "", adminClaims)
	req.SetPathValue("id", "n-other")
	w = httptest.NewRecorder()
	handler.MarkRead(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	service.AssertExpectations(t)
}

func TestNotificationHandler_CreateNotification(t *testing.T) {
	service := new(MockNotificationService)
	handler := handlers.NewNotificationHandler(service)
	service.On("Dispatch", mock.Anything, entities.DispatchRequest{
		Target:  entities.DispatchTarget{Phone: "+963900000001"},
		Title:   "Reminder",
		Message: "See you tomorrow",
		Type:    entities.NotificationTypeReminder,
	}).Return(&entities.Notification{ID: "n-1"}, nil)

	w := httptest.NewRecorder()
	handler.CreateNotification(w, newRequest(http.MethodPost, "/api/notifications",
		`{"phone":"+963900000001","title":"Reminder","message":"See you tomorrow","type":"reminder"}`, adminClaims))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	handler.CreateNotification(w, newRequest(http.MethodPost, "/api/notifications", `{"title":"Reminder","message":"x"}`, adminClaims))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user_id is required when phone is missing", errorMessage(t, w))

	w = httptest.NewRecorder()
	handler.CreateNotification(w, newRequest(http.MethodPost, "/api/notifications", `{"user_id":"u","title":"t","message":"m","type":"spam"}`, adminClaims))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
