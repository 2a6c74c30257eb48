package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/repositories"
	"github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clinicbooking/backend/pkg/errors"
)

const campaignsTable = "campaigns"

var campaignColumns = []interface{}{
	"id", "title", "message", "target_audience", "target_filter",
	"sent_count", "opened_count", "booked_count", "status",
	"scheduled_for", "created_at", "created_by",
}

// CampaignAdapter implements the CampaignRepository interface
type CampaignAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCampaignAdapter creates a new campaign adapter
func NewCampaignAdapter(client *postgres.Client) repositories.CampaignRepository {
	return &CampaignAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new campaign
func (a *CampaignAdapter) Create(ctx context.Context, campaign *entities.Campaign) error {
	var targetFilter interface{}
	if len(campaign.TargetFilter) > 0 {
		data, err := json.Marshal(campaign.TargetFilter)
		if err != nil {
			return apperrors.NewValidationError("target_filter must be a JSON object")
		}
		targetFilter = string(data)
	}

	query, args, err := a.db.Insert(campaignsTable).Rows(goqu.Record{
		"id":              campaign.ID,
		"title":           campaign.Title,
		"message":         campaign.Message,
		"target_audience": campaign.TargetAudience,
		"target_filter":   targetFilter,
		"sent_count":      campaign.SentCount,
		"opened_count":    campaign.OpenedCount,
		"booked_count":    campaign.BookedCount,
		"status":          campaign.Status,
		"scheduled_for":   campaign.ScheduledFor,
		"created_at":      campaign.CreatedAt,
		"created_by":      campaign.CreatedBy,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create campaign", err)
	}
	return nil
}

// GetByID retrieves a campaign by ID
func (a *CampaignAdapter) GetByID(ctx context.Context, id string) (*entities.Campaign, error) {
	query, args, err := a.db.Select(campaignColumns...).
		From(campaignsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	campaign, err := scanCampaign(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("campaign with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get campaign", err)
	}
	return campaign, nil
}

// List retrieves up to limit campaigns, newest first
func (a *CampaignAdapter) List(ctx context.Context, limit int) ([]*entities.Campaign, error) {
	query, args, err := a.db.Select(campaignColumns...).
		From(campaignsTable).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(clampLimit(limit))).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list campaigns", err)
	}
	defer rows.Close()

	campaigns := make([]*entities.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan campaign", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating campaigns", err)
	}
	return campaigns, nil
}

// MarkSent sets status=sent and records how many patients were reached
func (a *CampaignAdapter) MarkSent(ctx context.Context, id string, sentCount int) error {
	query, args, err := a.db.Update(campaignsTable).
		Set(goqu.Record{
			"status":     entities.CampaignStatusSent,
			"sent_count": sentCount,
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark campaign sent", err)
	}
	return expectAffected(result, fmt.Sprintf("campaign with id %s not found", id))
}

func scanCampaign(row rowScanner) (*entities.Campaign, error) {
	campaign := &entities.Campaign{}
	var targetFilter []byte
	var scheduledFor sql.NullTime
	err := row.Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Message,
		&campaign.TargetAudience,
		&targetFilter,
		&campaign.SentCount,
		&campaign.OpenedCount,
		&campaign.BookedCount,
		&campaign.Status,
		&scheduledFor,
		&campaign.CreatedAt,
		&campaign.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if len(targetFilter) > 0 {
		if err := json.Unmarshal(targetFilter, &campaign.TargetFilter); err != nil {
			return nil, fmt.Errorf("failed to decode target_filter: %w", err)
		}
	}
	if scheduledFor.Valid {
		campaign.ScheduledFor = &scheduledFor.Time
	}
	return campaign, nil
}
