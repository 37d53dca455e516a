// Package campaigns implements the campaign lifecycle: creation with demo
// leads, activation with per-lead outreach drafts, pausing and deletion.
package campaigns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/metrics"
	"github.com/autoigdm/api/pkg/models"
)

// MessageGenerator drafts outreach copy. Implementations never fail.
type MessageGenerator interface {
	GenerateInitial(ctx context.Context, audience string) string
	GeneratePersonalized(ctx context.Context, audience, name string) string
}

// LeadProvisioner seeds a campaign with its demo leads
type LeadProvisioner interface {
	ProvisionDemoLeads(ctx context.Context, store domain.Store, campaignID string) ([]*models.Lead, error)
}

// Invalidator drops cached per-user views after a campaign changes
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// Service handles campaign lifecycle operations.
// Every operation is scoped to the owner: another user's campaign is reported as not found.
type Service struct {
	store       domain.Store
	generator   MessageGenerator
	provisioner LeadProvisioner
	invalidator Invalidator
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time

	// writeTimeout bounds the store work that follows drafting
	writeTimeout time.Duration
}

const defaultWriteTimeout = 5 * time.Second

// NewService creates a new campaign service. invalidator and m may be nil.
func NewService(store domain.Store, generator MessageGenerator, provisioner LeadProvisioner,
	invalidator Invalidator, m *metrics.Metrics, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		store:       store,
		generator:   generator,
		provisioner: provisioner,
		invalidator: invalidator,
		metrics:     m,
		logger:      log.With("component", "campaigns"),
		now:         func() time.Time { return time.Now().UTC() },

		writeTimeout: defaultWriteTimeout,
	}
}

// Create drafts the opening message, stores the campaign as draft and
// provisions its demo leads. The account must belong to the owner.
func (s *Service) Create(ctx context.Context, ownerID string, req models.CreateCampaignRequest) (*models.Campaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.TargetAudience = strings.TrimSpace(req.TargetAudience)
	if req.Name == "" || req.TargetAudience == "" || req.InstagramAccountID == "" {
		return nil, domain.NewValidationError("name, instagramAccountId and targetAudience are required")
	}

	account, err := s.store.Accounts().GetByID(ctx, req.InstagramAccountID, ownerID)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		UserID:           ownerID,
		InstagramAccount: models.NewRef[models.InstagramAccount](account.ID),
		Name:             req.Name,
		TargetAudience:   req.TargetAudience,
		Message:          s.generator.GenerateInitial(ctx, req.TargetAudience),
		Status:           models.CampaignDraft,
		CreatedAt:        s.now(),
	}

	ctx, cancel := s.writeContext(ctx)
	defer cancel()

	err = s.store.WithTx(ctx, func(tx domain.Store) error {
		if err := tx.Campaigns().Create(ctx, campaign); err != nil {
			return err
		}
		_, err := s.provisioner.ProvisionDemoLeads(ctx, tx, campaign.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	campaign.InstagramAccount.Resolve(account)
	s.metrics.RecordCampaignCreated()
	s.invalidate(ctx, ownerID)
	s.logger.Info("campaign created", "campaign_id", campaign.ID, "user_id", ownerID)
	return campaign, nil
}

// Activate marks the campaign live and drafts one message per demo lead.
// The status change is a conditional write, so of several concurrent calls
// exactly one proceeds; the rest fail with an invalid transition. Leads that
// already have a message are skipped.
//
// Drafting happens before the transaction. Generation falls back once ctx
// is done, and the writes that follow get their own deadline, so a slow
// model never fails the activation.
func (s *Service) Activate(ctx context.Context, ownerID, campaignID string) (*models.Campaign, error) {
	drafts, err := s.draftLeadMessages(ctx, ownerID, campaignID)
	if err != nil {
		s.recordTransition(models.CampaignActive, err)
		return nil, err
	}

	writeCtx, cancel := s.writeContext(ctx)
	defer cancel()

	var (
		campaign    *models.Campaign
		provisioned int
	)

	err = s.store.WithTx(writeCtx, func(tx domain.Store) error {
		provisioned = 0
		if err := s.transition(writeCtx, tx, ownerID, campaignID, models.CampaignActive); err != nil {
			return err
		}
		if err := tx.Campaigns().MarkActivated(writeCtx, campaignID, s.now()); err != nil {
			return err
		}

		c, err := tx.Campaigns().GetByID(writeCtx, campaignID, ownerID)
		if err != nil {
			return err
		}

		leads, err := tx.Leads().ListByCampaign(writeCtx, campaignID, true)
		if err != nil {
			return err
		}
		for _, lead := range leads {
			exists, err := tx.Messages().ExistsForLead(writeCtx, campaignID, lead.ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			content, ok := drafts[lead.ID]
			if !ok {
				content = s.generator.GeneratePersonalized(ctx, c.TargetAudience, lead.DisplayName)
			}
			msg := &models.Message{
				CampaignID: campaignID,
				Lead:       models.NewRef[models.Lead](lead.ID),
				Content:    content,
				Status:     models.MessageSent,
				SentAt:     s.now(),
				IsDemo:     true,
			}
			if err := tx.Messages().Create(writeCtx, msg); err != nil {
				return err
			}
			provisioned++
		}

		campaign = c
		return nil
	})
	s.recordTransition(models.CampaignActive, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMessagesProvisioned(provisioned)
	s.invalidate(writeCtx, ownerID)
	s.logger.Info("campaign activated", "campaign_id", campaignID, "user_id", ownerID, "messages", provisioned)

	if err := s.resolveAccounts(writeCtx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// draftLeadMessages drafts content for every demo lead without a message,
// keyed by lead ID. Campaigns that cannot become active are rejected before
// any generation call, and every read completes before the first one.
func (s *Service) draftLeadMessages(ctx context.Context, ownerID, campaignID string) (map[string]string, error) {
	c, err := s.store.Campaigns().GetByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(c.Status, models.CampaignActive) {
		return nil, domain.NewInvalidTransitionError("Campaign", string(c.Status), string(models.CampaignActive))
	}

	leads, err := s.store.Leads().ListByCampaign(ctx, campaignID, true)
	if err != nil {
		return nil, err
	}

	pending := make([]*models.Lead, 0, len(leads))
	for _, lead := range leads {
		exists, err := s.store.Messages().ExistsForLead(ctx, campaignID, lead.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			pending = append(pending, lead)
		}
	}

	// No store access from here on: generation may use up ctx.
	drafts := make(map[string]string, len(pending))
	for _, lead := range pending {
		drafts[lead.ID] = s.generator.GeneratePersonalized(ctx, c.TargetAudience, lead.DisplayName)
	}
	return drafts, nil
}

// Pause stops the campaign
func (s *Service) Pause(ctx context.Context, ownerID, campaignID string) (*models.Campaign, error) {
	var campaign *models.Campaign
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		if err := s.transition(ctx, tx, ownerID, campaignID, models.CampaignPaused); err != nil {
			return err
		}
		c, err := tx.Campaigns().GetByID(ctx, campaignID, ownerID)
		campaign = c
		return err
	})
	s.recordTransition(models.CampaignPaused, err)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	if err := s.resolveAccounts(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Delete removes the campaign with its leads and messages
func (s *Service) Delete(ctx context.Context, ownerID, campaignID string) error {
	err := s.store.WithTx(ctx, func(tx domain.Store) error {
		if _, err := tx.Campaigns().GetByID(ctx, campaignID, ownerID); err != nil {
			return err
		}
		if err := tx.Messages().DeleteByCampaign(ctx, campaignID); err != nil {
			return err
		}
		if err := tx.Leads().DeleteByCampaign(ctx, campaignID); err != nil {
			return err
		}
		return tx.Campaigns().Delete(ctx, campaignID, ownerID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, ownerID)
	s.logger.Info("campaign deleted", "campaign_id", campaignID, "user_id", ownerID)
	return nil
}

// List returns the owner's campaigns newest first with accounts resolved
func (s *Service) List(ctx context.Context, ownerID string) ([]*models.Campaign, error) {
	list, err := s.store.Campaigns().ListByOwner(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAccounts(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns one campaign with its account resolved
func (s *Service) Get(ctx context.Context, ownerID, campaignID string) (*models.Campaign, error) {
	c, err := s.store.Campaigns().GetByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAccounts(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListLeads returns the campaign's leads in provisioning order
func (s *Service) ListLeads(ctx context.Context, ownerID, campaignID string) ([]*models.Lead, error) {
	if _, err := s.store.Campaigns().GetByID(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}
	return s.store.Leads().ListByCampaign(ctx, campaignID, false)
}

// ListMessages returns the campaign's messages newest first with leads resolved
func (s *Service) ListMessages(ctx context.Context, ownerID, campaignID string) ([]*models.Message, error) {
	if _, err := s.store.Campaigns().GetByID(ctx, campaignID, ownerID); err != nil {
		return nil, err
	}
	messages, err := s.store.Messages().ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.Lead.ID)
	}
	leads, err := s.store.Leads().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if l, ok := leads[m.Lead.ID]; ok {
			m.Lead.Resolve(l)
		}
	}
	return messages, nil
}

// transition applies the status change through the store's conditional
// write. When nothing changed it re-reads the campaign to tell a missing
// campaign from a disallowed move.
func (s *Service) transition(ctx context.Context, tx domain.Store, ownerID, campaignID string, to models.CampaignStatus) error {
	changed, err := tx.Campaigns().TransitionStatus(ctx, campaignID, ownerID, to, AllowedFrom(to))
	if err != nil {
		return err
	}
	if changed {
		return nil
	}

	current, err := tx.Campaigns().GetByID(ctx, campaignID, ownerID)
	if err != nil {
		return err
	}
	return domain.NewInvalidTransitionError("Campaign", string(current.Status), string(to))
}

// writeContext keeps ctx's values but not its deadline or cancellation.
// Writes are bounded by writeTimeout instead.
func (s *Service) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
}

func (s *Service) recordTransition(to models.CampaignStatus, err error) {
	switch {
	case err == nil:
		s.metrics.RecordTransition(string(to), true)
	case domain.IsInvalidTransition(err):
		s.metrics.RecordTransition(string(to), false)
	}
}

func (s *Service) resolveAccounts(ctx context.Context, list ...*models.Campaign) error {
	return domain.ResolveAccounts(ctx, s.store.Accounts(), list...)
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cached analytics", "user_id", userID, "error", err)
	}
}
