package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

// CampaignAudienceLimit bounds how many patients one send reaches
const CampaignAudienceLimit = 10000

// CampaignService drafts campaigns and broadcasts them through the notification outbox
type CampaignService struct {
	repo                repositories.CampaignRepository
	users               repositories.UserRepository
	notificationService *NotificationService
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	repo repositories.CampaignRepository,
	users repositories.UserRepository,
	notificationService *NotificationService,
) *CampaignService {
	return &CampaignService{
		repo:                repo,
		users:               users,
		notificationService: notificationService,
	}
}

// Create stores a draft campaign
func (s *CampaignService) Create(ctx context.Context, req entities.CampaignCreate, createdBy string) (*entities.Campaign, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.NewValidationError("title and message are required")
	}
	audience := req.TargetAudience
	if audience == "" {
		audience = entities.AudienceAllPatients
	}

	campaign := &entities.Campaign{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: audience,
		TargetFilter:   req.TargetFilter,
		Status:         entities.CampaignStatusDraft,
		ScheduledFor:   req.ScheduledFor,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// List returns campaigns, newest first
func (s *CampaignService) List(ctx context.Context) ([]*entities.Campaign, error) {
	return s.repo.List(ctx, repositories.MaxListLimit)
}

// Send notifies every patient. A failed notification is logged and skipped;
// only stored notifications count towards sent_count.
func (s *CampaignService) Send(ctx context.Context, campaignID string) (*entities.CampaignSendResult, error) {
	logger := observability.LoggerFromContext(ctx)

	campaign, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(campaign.TargetFilter) > 0 {
		logger.Warn().Str("campaign_id", campaign.ID).Msg("target_filter is not applied, sending to all patients")
	}

	patients, err := s.users.ListByRole(ctx, entities.RolePatient, CampaignAudienceLimit)
	if err != nil {
		return nil, err
	}

	sent, failed := 0, 0
	for _, patient := range patients {
		_, err := s.notificationService.DispatchToUser(ctx, patient, entities.DispatchRequest{
			Title:   campaign.Title,
			Message: campaign.Message,
			Type:    entities.NotificationTypeCampaign,
		})
		if err != nil {
			failed++
			logger.Warn().Err(err).Str("campaign_id", campaign.ID).Str("user_id", patient.ID).Msg("campaign notification failed")
			continue
		}
		sent++
	}

	if err := s.repo.MarkSent(ctx, campaign.ID, sent); err != nil {
		return nil, err
	}

	logger.Info().Str("campaign_id", campaign.ID).Int("sent", sent).Int("failed", failed).Msg("campaign sent")
	return &entities.CampaignSendResult{
		Message:   fmt.Sprintf("Campaign sent to %d users", sent),
		SentCount: sent,
		Failed:    failed,
	}, nil
}
