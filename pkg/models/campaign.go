package models

import "time"

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignStatuses lists every status in lifecycle order
var CampaignStatuses = []CampaignStatus{CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted}

// Valid reports whether s is a known status
func (s CampaignStatus) Valid() bool {
	for _, known := range CampaignStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Campaign is an outreach campaign for a described audience
type Campaign struct {
	ID               string         `json:"_id"`
	UserID           string         `json:"userId"`
	InstagramAccount AccountRef     `json:"instagramAccountId"`
	Name             string         `json:"name"`
	TargetAudience   string         `json:"targetAudience"`
	Message          string         `json:"message"`
	Status           CampaignStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	ActivatedAt      *time.Time     `json:"activatedAt,omitempty"`
}

// CreateCampaignRequest represents a campaign creation request
type CreateCampaignRequest struct {
	Name               string `json:"name" validate:"required"`
	InstagramAccountID string `json:"instagramAccountId" validate:"required"`
	TargetAudience     string `json:"targetAudience" validate:"required"`
}

// Lead is a prospect targeted by a campaign
type Lead struct {
	ID          string    `json:"_id"`
	CampaignID  string    `json:"campaignId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	IsDemo      bool      `json:"isDemo"`
	Position    int       `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageStatus is the delivery state of an outreach message
type MessageStatus string

const (
	MessageSent    MessageStatus = "sent"
	MessageFailed  MessageStatus = "failed"
	MessagePending MessageStatus = "pending"
)

// Message is an outreach message drafted for one lead
type Message struct {
	ID         string        `json:"_id"`
	CampaignID string        `json:"campaignId"`
	Lead       LeadRef       `json:"leadId"`
	Content    string        `json:"content"`
	Status     MessageStatus `json:"status"`
	SentAt     time.Time     `json:"sentAt"`
	IsDemo     bool          `json:"isDemo"`
}
