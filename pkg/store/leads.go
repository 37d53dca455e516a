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

var leadColumns = []string{"id", "campaign_id", "username", "display_name", "is_demo", "seq", "created_at"}

type leadRepo struct {
	s *Store
}

func scanLead(row scanner) (*models.Lead, error) {
	var l models.Lead
	if err := row.Scan(&l.ID, &l.CampaignID, &l.Username, &l.DisplayName, &l.IsDemo, &l.Position, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leadRepo) Create(ctx context.Context, l *models.Lead) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	query, args := r.s.sql().Insert(leadsTable).
		Columns(leadColumns...).
		Values(l.ID, l.CampaignID, l.Username, l.DisplayName, l.IsDemo, l.Position, l.CreatedAt).
		Query()
	if _, err := r.s.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("lead %s already exists", l.Username))
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *leadRepo) FindByUsername(ctx context.Context, campaignID, username string) (*models.Lead, error) {
	b := r.s.sql()
	query, args := b.Select(leadColumns...).
		From(b.Table(leadsTable)).
		Where(entsql.And(entsql.EQ("campaign_id", campaignID), entsql.EQ("username", username))).
		Query()

	l, err := scanLead(r.s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("Lead")
	}
	if err != nil {
		return nil, fmt.Errorf("query lead: %w", err)
	}
	return l, nil
}

func (r *leadRepo) ListByCampaign(ctx context.Context, campaignID string, demoOnly bool) ([]*models.Lead, error) {
	where := entsql.EQ("campaign_id", campaignID)
	if demoOnly {
		where = entsql.And(where, entsql.EQ("is_demo", true))
	}

	b := r.s.sql()
	query, args := b.Select(leadColumns...).
		From(b.Table(leadsTable)).
		Where(where).
		OrderBy(entsql.Asc("seq"), entsql.Asc("created_at")).
		Query()
	return r.list(ctx, query, args)
}

func (r *leadRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Lead, error) {
	out := make(map[string]*models.Lead, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	b := r.s.sql()
	query, args := b.Select(leadColumns...).
		From(b.Table(leadsTable)).
		Where(entsql.In("id", stringArgs(ids)...)).
		Query()

	leads, err := r.list(ctx, query, args)
	if err != nil {
		return nil, err
	}
	for _, l := range leads {
		out[l.ID] = l
	}
	return out, nil
}

func (r *leadRepo) list(ctx context.Context, query string, args []any) ([]*models.Lead, error) {
	rows, err := r.s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := []*models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *leadRepo) DeleteByCampaign(ctx context.Context, campaignID string) error {
	query, args := r.s.sql().Delete(leadsTable).Where(entsql.EQ("campaign_id", campaignID)).Query()
	if _, err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete leads: %w", err)
	}
	return nil
}

func (r *leadRepo) CountByCampaigns(ctx context.Context, campaignIDs []string) (int, error) {
	if len(campaignIDs) == 0 {
		return 0, nil
	}
	return r.s.count(ctx, leadsTable, entsql.In("campaign_id", stringArgs(campaignIDs)...))
}
