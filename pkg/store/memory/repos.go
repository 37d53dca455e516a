package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

func stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if at.IsZero() {
		*at = time.Now().UTC()
	}
}

// ---- users

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	stamp(&u.ID, &u.CreatedAt)
	return r.s.write(func(d *data) error {
		for _, existing := range d.users {
			if existing.v.Email == u.Email {
				return domain.NewConflictError("User already exists")
			}
		}
		d.users[u.ID] = row[models.User]{v: *u, seq: d.next()}
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	var out *models.User
	err := r.s.read(func(d *data) error {
		row, ok := d.users[id]
		if !ok {
			return domain.NewNotFoundError("user")
		}
		u := row.v
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.read(func(d *data) error {
		for _, row := range d.users {
			if row.v.Email == email {
				u := row.v
				out = &u
				return nil
			}
		}
		return domain.NewNotFoundError("user")
	})
	return out, err
}

// ---- instagram accounts

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(_ context.Context, a *models.InstagramAccount) error {
	stamp(&a.ID, &a.CreatedAt)
	return r.s.write(func(d *data) error {
		d.accounts[a.ID] = row[models.InstagramAccount]{v: *a, seq: d.next()}
		return nil
	})
}

func (r *accountRepo) GetByID(_ context.Context, id, ownerID string) (*models.InstagramAccount, error) {
	var out *models.InstagramAccount
	err := r.s.read(func(d *data) error {
		row, ok := d.accounts[id]
		if !ok || row.v.UserID != ownerID {
			return domain.NewNotFoundError("Instagram account")
		}
		a := row.v
		out = &a
		return nil
	})
	return out, err
}

func (r *accountRepo) GetByIDs(_ context.Context, ids []string) (map[string]*models.InstagramAccount, error) {
	out := make(map[string]*models.InstagramAccount, len(ids))
	err := r.s.read(func(d *data) error {
		for _, id := range ids {
			if row, ok := d.accounts[id]; ok {
				a := row.v
				out[id] = &a
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.InstagramAccount, error) {
	out := []*models.InstagramAccount{}
	err := r.s.read(func(d *data) error {
		for _, row := range d.accounts.sorted(func(a models.InstagramAccount) bool { return a.UserID == ownerID }) {
			a := row.v
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) Delete(_ context.Context, id, ownerID string) error {
	return r.s.write(func(d *data) error {
		row, ok := d.accounts[id]
		if !ok || row.v.UserID != ownerID {
			return domain.NewNotFoundError("Instagram account")
		}
		delete(d.accounts, id)
		return nil
	})
}

// ---- campaigns

type campaignRepo struct{ s *Store }

func copyCampaign(c models.Campaign) *models.Campaign {
	c.InstagramAccount = models.NewRef[models.InstagramAccount](c.InstagramAccount.ID)
	if c.ActivatedAt != nil {
		at := *c.ActivatedAt
		c.ActivatedAt = &at
	}
	return &c
}

func (r *campaignRepo) Create(_ context.Context, c *models.Campaign) error {
	stamp(&c.ID, &c.CreatedAt)
	return r.s.write(func(d *data) error {
		d.campaigns[c.ID] = row[models.Campaign]{v: *copyCampaign(*c), seq: d.next()}
		return nil
	})
}

func (r *campaignRepo) GetByID(_ context.Context, id, ownerID string) (*models.Campaign, error) {
	var out *models.Campaign
	err := r.s.read(func(d *data) error {
		row, ok := d.campaigns[id]
		if !ok || row.v.UserID != ownerID {
			return domain.NewNotFoundError("Campaign")
		}
		out = copyCampaign(row.v)
		return nil
	})
	return out, err
}

func (r *campaignRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]*models.Campaign, error) {
	out := []*models.Campaign{}
	err := r.s.read(func(d *data) error {
		rows := d.campaigns.sorted(func(c models.Campaign) bool { return c.UserID == ownerID })
		slices.SortStableFunc(rows, func(a, b row[models.Campaign]) int {
			if c := b.v.CreatedAt.Compare(a.v.CreatedAt); c != 0 {
				return c
			}
			return int(b.seq - a.seq)
		})
		for _, row := range rows {
			if limit > 0 && len(out) == limit {
				break
			}
			out = append(out, copyCampaign(row.v))
		}
		return nil
	})
	return out, err
}

func (r *campaignRepo) TransitionStatus(_ context.Context, id, ownerID string, to models.CampaignStatus, from []models.CampaignStatus) (bool, error) {
	changed := false
	err := r.s.write(func(d *data) error {
		row, ok := d.campaigns[id]
		if !ok || row.v.UserID != ownerID || !slices.Contains(from, row.v.Status) {
			return nil
		}
		row.v.Status = to
		d.campaigns[id] = row
		changed = true
		return nil
	})
	return changed, err
}

func (r *campaignRepo) MarkActivated(_ context.Context, id string, at time.Time) error {
	return r.s.write(func(d *data) error {
		row, ok := d.campaigns[id]
		if !ok || row.v.ActivatedAt != nil {
			return nil
		}
		row.v.ActivatedAt = &at
		d.campaigns[id] = row
		return nil
	})
}

func (r *campaignRepo) Delete(_ context.Context, id, ownerID string) error {
	return r.s.write(func(d *data) error {
		row, ok := d.campaigns[id]
		if !ok || row.v.UserID != ownerID {
			return domain.NewNotFoundError("Campaign")
		}
		for _, l := range d.leads {
			if l.v.CampaignID == id {
				return fmt.Errorf("delete campaign %s: leads still reference it", id)
			}
		}
		delete(d.campaigns, id)
		return nil
	})
}

func (r *campaignRepo) CountByOwner(_ context.Context, ownerID string, status models.CampaignStatus) (int, error) {
	n := 0
	err := r.s.read(func(d *data) error {
		for _, row := range d.campaigns {
			if row.v.UserID == ownerID && (status == "" || row.v.Status == status) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ---- leads

type leadRepo struct{ s *Store }

func (r *leadRepo) Create(_ context.Context, l *models.Lead) error {
	stamp(&l.ID, &l.CreatedAt)
	return r.s.write(func(d *data) error {
		for _, existing := range d.leads {
			if existing.v.CampaignID == l.CampaignID && existing.v.Username == l.Username {
				return domain.NewConflictError(fmt.Sprintf("lead %s already exists", l.Username))
			}
		}
		d.leads[l.ID] = row[models.Lead]{v: *l, seq: d.next()}
		return nil
	})
}

func (r *leadRepo) FindByUsername(_ context.Context, campaignID, username string) (*models.Lead, error) {
	var out *models.Lead
	err := r.s.read(func(d *data) error {
		for _, row := range d.leads {
			if row.v.CampaignID == campaignID && row.v.Username == username {
				l := row.v
				out = &l
				return nil
			}
		}
		return domain.NewNotFoundError("Lead")
	})
	return out, err
}

func (r *leadRepo) ListByCampaign(_ context.Context, campaignID string, demoOnly bool) ([]*models.Lead, error) {
	out := []*models.Lead{}
	err := r.s.read(func(d *data) error {
		rows := d.leads.sorted(func(l models.Lead) bool {
			return l.CampaignID == campaignID && (!demoOnly || l.IsDemo)
		})
		slices.SortStableFunc(rows, func(a, b row[models.Lead]) int { return a.v.Position - b.v.Position })
		for _, row := range rows {
			l := row.v
			out = append(out, &l)
		}
		return nil
	})
	return out, err
}

func (r *leadRepo) GetByIDs(_ context.Context, ids []string) (map[string]*models.Lead, error) {
	out := make(map[string]*models.Lead, len(ids))
	err := r.s.read(func(d *data) error {
		for _, id := range ids {
			if row, ok := d.leads[id]; ok {
				l := row.v
				out[id] = &l
			}
		}
		return nil
	})
	return out, err
}

func (r *leadRepo) DeleteByCampaign(_ context.Context, campaignID string) error {
	return r.s.write(func(d *data) error {
		for _, m := range d.messages {
			if m.v.CampaignID == campaignID {
				return fmt.Errorf("delete leads of %s: messages still reference them", campaignID)
			}
		}
		for id, row := range d.leads {
			if row.v.CampaignID == campaignID {
				delete(d.leads, id)
			}
		}
		return nil
	})
}

func (r *leadRepo) CountByCampaigns(_ context.Context, campaignIDs []string) (int, error) {
	n := 0
	err := r.s.read(func(d *data) error {
		for _, row := range d.leads {
			if slices.Contains(campaignIDs, row.v.CampaignID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ---- messages

type messageRepo struct{ s *Store }

func copyMessage(m models.Message) *models.Message {
	m.Lead = models.NewRef[models.Lead](m.Lead.ID)
	return &m
}

func (r *messageRepo) Create(_ context.Context, m *models.Message) error {
	stamp(&m.ID, &m.SentAt)
	return r.s.write(func(d *data) error {
		for _, existing := range d.messages {
			if existing.v.CampaignID == m.CampaignID && existing.v.Lead.ID == m.Lead.ID {
				return domain.NewConflictError("lead already has a message")
			}
		}
		d.messages[m.ID] = row[models.Message]{v: *copyMessage(*m), seq: d.next()}
		return nil
	})
}

func (r *messageRepo) ExistsForLead(_ context.Context, campaignID, leadID string) (bool, error) {
	found := false
	err := r.s.read(func(d *data) error {
		for _, row := range d.messages {
			if row.v.CampaignID == campaignID && row.v.Lead.ID == leadID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *messageRepo) ListByCampaign(_ context.Context, campaignID string) ([]*models.Message, error) {
	out := []*models.Message{}
	err := r.s.read(func(d *data) error {
		rows := d.messages.sorted(func(m models.Message) bool { return m.CampaignID == campaignID })
		slices.SortStableFunc(rows, func(a, b row[models.Message]) int {
			if c := b.v.SentAt.Compare(a.v.SentAt); c != 0 {
				return c
			}
			if c := d.leads[b.v.Lead.ID].v.Position - d.leads[a.v.Lead.ID].v.Position; c != 0 {
				return c
			}
			return int(b.seq - a.seq)
		})
		for _, row := range rows {
			out = append(out, copyMessage(row.v))
		}
		return nil
	})
	return out, err
}

func (r *messageRepo) DeleteByCampaign(_ context.Context, campaignID string) error {
	return r.s.write(func(d *data) error {
		for id, row := range d.messages {
			if row.v.CampaignID == campaignID {
				delete(d.messages, id)
			}
		}
		return nil
	})
}

func (r *messageRepo) CountByCampaigns(_ context.Context, campaignIDs []string, status models.MessageStatus) (int, error) {
	n := 0
	err := r.s.read(func(d *data) error {
		for _, row := range d.messages {
			if slices.Contains(campaignIDs, row.v.CampaignID) && (status == "" || row.v.Status == status) {
				n++
			}
		}
		return nil
	})
	return n, err
}
