package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

var messageColumns = []string{"id", "campaign_id", "lead_id", "content", "status", "sent_at", "is_demo"}

type messageRepo struct {
	s *Store
}

func scanMessage(row scanner) (*models.Message, error) {
	var (
		m      models.Message
		leadID string
		status string
	)
	if err := row.Scan(&m.ID, &m.CampaignID, &leadID, &m.Content, &status, &m.SentAt, &m.IsDemo); err != nil {
		return nil, err
	}
	m.Lead = models.NewRef[models.Lead](leadID)
	m.Status = models.MessageStatus(status)
	return &m, nil
}

func (r *messageRepo) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}

	query, args := r.s.sql().Insert(messagesTable).
		Columns(messageColumns...).
		Values(m.ID, m.CampaignID, m.Lead.ID, m.Content, string(m.Status), m.SentAt, m.IsDemo).
		Query()
	if _, err := r.s.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("lead already has a message")
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *messageRepo) ExistsForLead(ctx context.Context, campaignID, leadID string) (bool, error) {
	n, err := r.s.count(ctx, messagesTable,
		entsql.And(entsql.EQ("campaign_id", campaignID), entsql.EQ("lead_id", leadID)))
	return n > 0, err
}

func (r *messageRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*models.Message, error) {
	// messages drafted in one activation can share sent_at; the later lead wins
	b := r.s.sql()
	m := b.Table(messagesTable)
	l := b.Table(leadsTable).As("l")
	query, args := b.Select(m.Columns(messageColumns...)...).
		From(m).
		Join(l).On(m.C("lead_id"), l.C("id")).
		Where(entsql.EQ(m.C("campaign_id"), campaignID)).
		OrderBy(entsql.Desc(m.C("sent_at")), entsql.Desc(l.C("seq"))).
		Query()

	rows, err := r.s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepo) DeleteByCampaign(ctx context.Context, campaignID string) error {
	query, args := r.s.sql().Delete(messagesTable).Where(entsql.EQ("campaign_id", campaignID)).Query()
	if _, err := r.s.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}

func (r *messageRepo) CountByCampaigns(ctx context.Context, campaignIDs []string, status models.MessageStatus) (int, error) {
	if len(campaignIDs) == 0 {
		return 0, nil
	}
	where := entsql.In("campaign_id", stringArgs(campaignIDs)...)
	if status != "" {
		where = entsql.And(where, entsql.EQ("status", string(status)))
	}
	return r.s.count(ctx, messagesTable, where)
}
