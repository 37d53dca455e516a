package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

var campaignColumns = []string{
	"id", "user_id", "instagram_account_id", "name", "target_audience",
	"message", "status", "created_at", "activated_at",
}

type campaignRepo struct {
	s *Store
}

func scanCampaign(row scanner) (*models.Campaign, error) {
	var (
		c         models.Campaign
		accountID string
		status    string
		activated sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.UserID, &accountID, &c.Name, &c.TargetAudience,
		&c.Message, &status, &c.CreatedAt, &activated); err != nil {
		return nil, err
	}

	c.InstagramAccount = models.NewRef[models.InstagramAccount](accountID)
	c.Status = models.CampaignStatus(status)
	if activated.Valid {
		at := activated.Time
		c.ActivatedAt = &at
	}
	return &c, nil
}

func ownedCampaign(id, ownerID string) *entsql.Predicate {
	return entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", ownerID))
}

func (r *campaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var activated any
	if c.ActivatedAt != nil {
		activated = *c.ActivatedAt
	}

	query, args := r.s.sql().Insert(campaignsTable).
		Columns(campaignColumns...).
		Values(c.ID, c.UserID, c.InstagramAccount.ID, c.Name, c.TargetAudience,
			c.Message, string(c.Status), c.CreatedAt, activated).
		Query()
	if _, err := r.s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *campaignRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Campaign, error) {
	b := r.s.sql()
	query, args := b.Select(campaignColumns...).
		From(b.Table(campaignsTable)).
		Where(ownedCampaign(id, ownerID)).
		Query()

	c, err := scanCampaign(r.s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("Campaign")
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign: %w", err)
	}
	return c, nil
}

func (r *campaignRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*models.Campaign, error) {
	b := r.s.sql()
	sel := b.Select(campaignColumns...).
		From(b.Table(campaignsTable)).
		Where(entsql.EQ("user_id", ownerID)).
		OrderBy(entsql.Desc("created_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// TransitionStatus is a conditional write: the status only changes while the
// row is still in one of the allowed source states.
func (r *campaignRepo) TransitionStatus(ctx context.Context, id, ownerID string, to models.CampaignStatus, from []models.CampaignStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}
	sources := make([]any, len(from))
	for i, st := range from {
		sources[i] = string(st)
	}

	query, args := r.s.sql().Update(campaignsTable).
		Set("status", string(to)).
		Where(entsql.And(ownedCampaign(id, ownerID), entsql.In("status", sources...))).
		Query()

	n, err := r.s.exec(ctx, query, args)
	if err != nil {
		return false, fmt.Errorf("update campaign status: %w", err)
	}
	return n > 0, nil
}

func (r *campaignRepo) MarkActivated(ctx context.Context, id string, at time.Time) error {
	query, args := r.s.sql().Update(campaignsTable).
		Set("activated_at", at).
		Where(entsql.And(entsql.EQ("id", id), entsql.IsNull("activated_at"))).
		Query()

	if _, err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("stamp campaign activation: %w", err)
	}
	return nil
}

func (r *campaignRepo) Delete(ctx context.Context, id, ownerID string) error {
	query, args := r.s.sql().Delete(campaignsTable).Where(ownedCampaign(id, ownerID)).Query()

	n, err := r.s.exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("Campaign")
	}
	return nil
}

func (r *campaignRepo) CountByOwner(ctx context.Context, ownerID string, status models.CampaignStatus) (int, error) {
	where := entsql.EQ("user_id", ownerID)
	if status != "" {
		where = entsql.And(where, entsql.EQ("status", string(status)))
	}
	return r.s.count(ctx, campaignsTable, where)
}
