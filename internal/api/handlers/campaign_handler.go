package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

// CampaignService defines the campaign operations used by the handler
type CampaignService interface {
	Create(ctx context.Context, req entities.CampaignCreate, createdBy string) (*entities.Campaign, error)
	List(ctx context.Context) ([]*entities.Campaign, error)
	Send(ctx context.Context, campaignID string) (*entities.CampaignSendResult, error)
}

// CampaignHandler handles marketing campaigns
type CampaignHandler struct {
	service CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(service CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// CreateCampaign handles POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req entities.CampaignCreate
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	createdBy := claims.Username
	if createdBy == "" {
		createdBy = claims.UserID
	}

	campaign, err := h.service.Create(r.Context(), req, createdBy)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, campaign)
}

// ListCampaigns handles GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, campaigns)
}

// SendCampaign handles POST /api/campaigns/{id}/send
func (h *CampaignHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Send(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
