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

type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) Create(ctx context.Context, req entities.CampaignCreate, createdBy string) (*entities.Campaign, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Campaign), args.Error(1)
}

func (m *MockCampaignService) List(ctx context.Context) ([]*entities.Campaign, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Campaign), args.Error(1)
}

func (m *MockCampaignService) Send(ctx context.Context, campaignID string) (*entities.CampaignSendResult, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CampaignSendResult), args.Error(1)
}

func TestCampaignHandler_CreateCampaign(t *testing.T) {
	service := new(MockCampaignService)
	handler := handlers.NewCampaignHandler(service)

	service.On("Create", mock.Anything, mock.MatchedBy(func(req entities.CampaignCreate) bool {
		return req.Title == "Ramadan offer" && req.TargetAudience == ""
	}), "admin").Return(&entities.Campaign{ID: "c-1", Title: "Ramadan offer", Status: entities.CampaignStatusDraft}, nil)

	w := httptest.NewRecorder()
	handler.CreateCampaign(w, newRequest(http.MethodPost, "/api/campaigns", `{"title":"Ramadan offer","message":"20% off whitening"}`, adminClaims))

	assert.Equal(t, http.StatusCreated, w.Code)
	var campaign entities.Campaign
	decodeBody(t, w, &campaign)
	assert.Equal(t, "c-1", campaign.ID)
	service.AssertExpectations(t)
}

func TestCampaignHandler_CreateCampaign_FallsBackToUserID(t *testing.T) {
	service := new(MockCampaignService)
	handler := handlers.NewCampaignHandler(service)
	claims := &entities.TokenClaims{UserID: "admin-7", Role: entities.RoleAdmin}

	service.On("Create", mock.Anything, mock.Anything, "admin-7").Return(&entities.Campaign{ID: "c-2"}, nil)

	w := httptest.NewRecorder()
	handler.CreateCampaign(w, newRequest(http.MethodPost, "/api/campaigns", `{"title":"t","message":"m"}`, claims))

	assert.Equal(t, http.StatusCreated, w.Code)
	service.AssertExpectations(t)
}

func TestCampaignHandler_CreateCampaign_MissingMessage(t *testing.T) {
	service := new(MockCampaignService)
	handler := handlers.NewCampaignHandler(service)

	w := httptest.NewRecorder()
	handler.CreateCampaign(w, newRequest(http.MethodPost, "/api/campaigns", `{"title":"t"}`, adminClaims))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "message is required", errorMessage(t, w))
	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignHandler_SendCampaign(t *testing.T) {
	service := new(MockCampaignService)
	handler := handlers.NewCampaignHandler(service)

	service.On("Send", mock.Anything, "c-1").Return(&entities.CampaignSendResult{Message: "Campaign sent to 3 users", SentCount: 3}, nil)
	service.On("Send", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("campaign with id missing not found"))

	req := newRequest(http.MethodPost, "/api/campaigns/c-1/send", "", adminClaims)
	req.SetPathValue("id", "c-1")
	w := httptest.NewRecorder()
	handler.SendCampaign(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result entities.CampaignSendResult
	decodeBody(t, w, &result)
	assert.Equal(t, "Campaign sent to 3 users", result.Message)
	assert.Equal(t, 3, result.SentCount)

	req = newRequest(http.MethodPost, "/api/campaigns/missing/send", "", adminClaims)
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	handler.SendCampaign(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignHandler_ListCampaigns(t *testing.T) {
	service := new(MockCampaignService)
	handler := handlers.NewCampaignHandler(service)

	service.On("List", mock.Anything).Return([]*entities.Campaign{{ID: "c-2"}, {ID: "c-1"}}, nil)

	w := httptest.NewRecorder()
	handler.ListCampaigns(w, newRequest(http.MethodGet, "/api/campaigns", "", adminClaims))

	assert.Equal(t, http.StatusOK, w.Code)
	var campaigns []entities.Campaign
	decodeBody(t, w, &campaigns)
	assert.Len(t, campaigns, 2)
}
