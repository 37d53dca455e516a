package domain

import (
	"context"
	"time"

	"github.com/autoigdm/api/pkg/models"
)

// UserRepository defines data access operations for users
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AccountRepository defines data access operations for Instagram accounts.
// Lookups taking an owner ID report a non-owned record as not found.
type AccountRepository interface {
	Create(ctx context.Context, a *models.InstagramAccount) error
	GetByID(ctx context.Context, id, ownerID string) (*models.InstagramAccount, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.InstagramAccount, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.InstagramAccount, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// CampaignRepository defines data access operations for campaigns
type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id, ownerID string) (*models.Campaign, error)
	// ListByOwner returns campaigns newest first; limit <= 0 means no limit.
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Campaign, error)
	// TransitionStatus sets the status to `to` only while the current status is
	// one of `from`. It reports whether a row changed.
	TransitionStatus(ctx context.Context, id, ownerID string, to models.CampaignStatus, from []models.CampaignStatus) (bool, error)
	// MarkActivated stamps activatedAt unless it is already set.
	MarkActivated(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id, ownerID string) error
	// CountByOwner counts campaigns, optionally restricted to one status ("" for all).
	CountByOwner(ctx context.Context, ownerID string, status models.CampaignStatus) (int, error)
}

// LeadRepository defines data access operations for leads
type LeadRepository interface {
	Create(ctx context.Context, l *models.Lead) error
	FindByUsername(ctx context.Context, campaignID, username string) (*models.Lead, error)
	// ListByCampaign returns leads in creation order.
	ListByCampaign(ctx context.Context, campaignID string, demoOnly bool) ([]*models.Lead, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Lead, error)
	DeleteByCampaign(ctx context.Context, campaignID string) error
	CountByCampaigns(ctx context.Context, campaignIDs []string) (int, error)
}

// MessageRepository defines data access operations for outreach messages
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	ExistsForLead(ctx context.Context, campaignID, leadID string) (bool, error)
	// ListByCampaign returns messages newest sentAt first.
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.Message, error)
	DeleteByCampaign(ctx context.Context, campaignID string) error
	// CountByCampaigns counts messages, optionally restricted to one status ("" for all).
	CountByCampaigns(ctx context.Context, campaignIDs []string, status models.MessageStatus) (int, error)
}

// Store groups the repositories behind one transactional boundary
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Campaigns() CampaignRepository
	Leads() LeadRepository
	Messages() MessageRepository
	// WithTx runs fn against a transaction-scoped Store. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// CacheRepository defines caching operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
