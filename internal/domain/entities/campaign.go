package entities

import "time"

// CampaignStatus represents where a campaign is in its lifecycle
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusSent      CampaignStatus = "sent"
	CampaignStatusScheduled CampaignStatus = "scheduled"
)

// AudienceAllPatients targets every patient account
const AudienceAllPatients = "all"

// Campaign is a marketing message broadcast to patients through the
// notification outbox. TargetFilter is stored as given and is not evaluated;
// every send reaches all patients.
type Campaign struct {
	ID             string                 `json:"id" db:"id"`
	Title          string                 `json:"title" db:"title"`
	Message        string                 `json:"message" db:"message"`
	TargetAudience string                 `json:"target_audience" db:"target_audience"`
	TargetFilter   map[string]interface{} `json:"target_filter,omitempty" db:"target_filter"`
	SentCount      int                    `json:"sent_count" db:"sent_count"`
	OpenedCount    int                    `json:"opened_count" db:"opened_count"`
	BookedCount    int                    `json:"booked_count" db:"booked_count"`
	Status         CampaignStatus         `json:"status" db:"status"`
	ScheduledFor   *time.Time             `json:"scheduled_for,omitempty" db:"scheduled_for"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
	CreatedBy      string                 `json:"created_by" db:"created_by"`
}

// CampaignCreate is the request to draft a campaign
type CampaignCreate struct {
	Title          string                 `json:"title" validate:"required"`
	Message        string                 `json:"message" validate:"required"`
	TargetAudience string                 `json:"target_audience"`
	TargetFilter   map[string]interface{} `json:"target_filter,omitempty"`
	ScheduledFor   *time.Time             `json:"scheduled_for,omitempty"`
}

// CampaignSendResult summarises a broadcast
type CampaignSendResult struct {
	Message   string `json:"message"`
	SentCount int    `json:"sent_count"`
	Failed    int    `json:"failed_count"`
}
