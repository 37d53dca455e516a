// Package analytics computes the per-user dashboard summary.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/autoigdm/api/pkg/cache"
	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/metrics"
	"github.com/autoigdm/api/pkg/models"
)

const (
	recentLimit = 5
	cacheLabel  = "analytics"
)

// Service handles analytics operations.
type Service struct {
	store   domain.Store
	cache   domain.CacheRepository
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewService creates a new analytics service. A nil cache computes every
// summary from the store.
func NewService(store domain.Store, c domain.CacheRepository, ttl time.Duration, m *metrics.Metrics, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		store:   store,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		logger:  log.With("component", "analytics"),
	}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("analytics:summary:%s", userID)
}

// Summary returns campaign, lead and message totals for the user
func (s *Service) Summary(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	if cached, ok := s.fromCache(ctx, userID); ok {
		return cached, nil
	}

	summary, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, cacheKey(userID), data, s.ttl); err != nil {
				s.logger.Warn("failed to cache analytics summary", "user_id", userID, "error", err)
			}
		}
	}
	return summary, nil
}

// InvalidateUser drops the cached summary for the user
func (s *Service) InvalidateUser(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(userID))
}

func (s *Service) fromCache(ctx context.Context, userID string) (*models.AnalyticsSummary, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("analytics cache read failed", "user_id", userID, "error", err)
		}
		s.metrics.RecordCacheMiss(cacheLabel)
		return nil, false
	}

	var summary models.AnalyticsSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.logger.Warn("discarding unreadable analytics cache entry", "user_id", userID, "error", err)
		s.metrics.RecordCacheMiss(cacheLabel)
		return nil, false
	}

	s.metrics.RecordCacheHit(cacheLabel)
	return &summary, true
}

func (s *Service) compute(ctx context.Context, userID string) (*models.AnalyticsSummary, error) {
	campaigns, err := s.store.Campaigns().ListByOwner(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	active, err := s.store.Campaigns().CountByOwner(ctx, userID, models.CampaignActive)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}

	summary := &models.AnalyticsSummary{
		TotalCampaigns:  len(campaigns),
		ActiveCampaigns: active,
		RecentCampaigns: []*models.Campaign{},
	}
	if len(ids) > 0 {
		if summary.TotalLeads, err = s.store.Leads().CountByCampaigns(ctx, ids); err != nil {
			return nil, err
		}
		if summary.TotalMessages, err = s.store.Messages().CountByCampaigns(ctx, ids, ""); err != nil {
			return nil, err
		}
		if summary.SentMessages, err = s.store.Messages().CountByCampaigns(ctx, ids, models.MessageSent); err != nil {
			return nil, err
		}
	}
	summary.SuccessRate = successRate(summary.SentMessages, summary.TotalMessages)

	// campaigns are already newest first
	recent := campaigns
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	if err := domain.ResolveAccounts(ctx, s.store.Accounts(), recent...); err != nil {
		return nil, err
	}
	summary.RecentCampaigns = append(summary.RecentCampaigns, recent...)

	return summary, nil
}

// successRate is the sent share in percent with one decimal, 0 without messages
func successRate(sent, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(sent)/float64(total)*1000) / 10
}
