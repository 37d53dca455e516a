package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
	"github.com/autoigdm/api/pkg/store/storetest"
)

type fixture struct {
	store   domain.Store
	user    *models.User
	account *models.InstagramAccount
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := storetest.NewSQLite(t)

	user := &models.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "hash"}
	require.NoError(t, s.Users().Create(ctx, user))

	account := &models.InstagramAccount{UserID: user.ID, Username: "studio", DisplayName: "Studio", IsActive: true}
	require.NoError(t, s.Accounts().Create(ctx, account))

	return &fixture{store: s, user: user, account: account}
}

func (f *fixture) createCampaign(t *testing.T, name string, createdAt time.Time) *models.Campaign {
	t.Helper()
	c := &models.Campaign{
		UserID:           f.user.ID,
		InstagramAccount: models.NewRef[models.InstagramAccount](f.account.ID),
		Name:             name,
		TargetAudience:   "fitness enthusiasts",
		Message:          "Hi!",
		Status:           models.CampaignDraft,
		CreatedAt:        createdAt,
	}
	require.NoError(t, f.store.Campaigns().Create(context.Background(), c))
	return c
}

func TestUserRepo(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("Success - lookup by email and id", func(t *testing.T) {
		byEmail, err := f.store.Users().GetByEmail(ctx, "owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.PasswordHash)

		byID, err := f.store.Users().GetByID(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Owner", byID.Name)
	})

	t.Run("Error - duplicate email is a conflict", func(t *testing.T) {
		err := f.store.Users().Create(ctx, &models.User{Email: "owner@example.com", Name: "Dup", PasswordHash: "x"})
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})

	t.Run("Error - unknown email", func(t *testing.T) {
		_, err := f.store.Users().GetByEmail(ctx, "nobody@example.com")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestAccountRepo_OwnerScoped(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	got, err := f.store.Accounts().GetByID(ctx, f.account.ID, f.user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = f.store.Accounts().GetByID(ctx, f.account.ID, "someone-else")
	assert.True(t, domain.IsNotFound(err))

	err = f.store.Accounts().Delete(ctx, f.account.ID, "someone-else")
	assert.True(t, domain.IsNotFound(err))

	list, err := f.store.Accounts().ListByOwner(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	byIDs, err := f.store.Accounts().GetByIDs(ctx, []string{f.account.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, f.store.Accounts().Delete(ctx, f.account.ID, f.user.ID))
	list, err = f.store.Accounts().ListByOwner(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCampaignRepo_CRUD(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	older := f.createCampaign(t, "Older", base)
	newer := f.createCampaign(t, "Newer", base.Add(time.Hour))

	t.Run("Success - get by id round-trips fields", func(t *testing.T) {
		got, err := f.store.Campaigns().GetByID(ctx, older.ID, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Older", got.Name)
		assert.Equal(t, f.account.ID, got.InstagramAccount.ID)
		assert.False(t, got.InstagramAccount.Resolved())
		assert.Equal(t, models.CampaignDraft, got.Status)
		assert.Nil(t, got.ActivatedAt)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("Error - other owner sees not found", func(t *testing.T) {
		_, err := f.store.Campaigns().GetByID(ctx, older.ID, "intruder")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("Success - list newest first with limit", func(t *testing.T) {
		all, err := f.store.Campaigns().ListByOwner(ctx, f.user.ID, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
		assert.Equal(t, older.ID, all[1].ID)

		limited, err := f.store.Campaigns().ListByOwner(ctx, f.user.ID, 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, newer.ID, limited[0].ID)
	})

	t.Run("Success - counts by status", func(t *testing.T) {
		total, err := f.store.Campaigns().CountByOwner(ctx, f.user.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		active, err := f.store.Campaigns().CountByOwner(ctx, f.user.ID, models.CampaignActive)
		require.NoError(t, err)
		assert.Equal(t, 0, active)
	})
}

func TestCampaignRepo_TransitionStatus(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	c := f.createCampaign(t, "Summer Push", time.Now().UTC())
	repo := f.store.Campaigns()
	fromDraftOrPaused := []models.CampaignStatus{models.CampaignDraft, models.CampaignPaused}

	changed, err := repo.TransitionStatus(ctx, c.ID, f.user.ID, models.CampaignActive, fromDraftOrPaused)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionStatus(ctx, c.ID, f.user.ID, models.CampaignActive, fromDraftOrPaused)
	require.NoError(t, err)
	assert.False(t, changed, "second activation must not match")

	changed, err = repo.TransitionStatus(ctx, c.ID, "intruder", models.CampaignPaused, models.CampaignStatuses)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetByID(ctx, c.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignActive, got.Status)
}

func TestCampaignRepo_MarkActivatedOnce(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	c := f.createCampaign(t, "Summer Push", time.Now().UTC())

	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.Campaigns().MarkActivated(ctx, c.ID, first))
	require.NoError(t, f.store.Campaigns().MarkActivated(ctx, c.ID, first.Add(48*time.Hour)))

	got, err := f.store.Campaigns().GetByID(ctx, c.ID, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActivatedAt)
	assert.True(t, first.Equal(*got.ActivatedAt))
}

func TestLeadAndMessageRepos(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	c := f.createCampaign(t, "Summer Push", time.Now().UTC())

	names := []string{"fitness_lover_22", "healthy_lifestyle", "workout_daily"}
	var leads []*models.Lead
	for i, name := range names {
		l := &models.Lead{CampaignID: c.ID, Username: name, DisplayName: name, IsDemo: true, Position: i}
		require.NoError(t, f.store.Leads().Create(ctx, l))
		leads = append(leads, l)
	}
	require.NoError(t, f.store.Leads().Create(ctx, &models.Lead{CampaignID: c.ID, Username: "organic", DisplayName: "Organic", Position: 3}))

	t.Run("Success - demo leads in creation order", func(t *testing.T) {
		demo, err := f.store.Leads().ListByCampaign(ctx, c.ID, true)
		require.NoError(t, err)
		require.Len(t, demo, 3)
		for i, l := range demo {
			assert.Equal(t, names[i], l.Username)
			assert.True(t, l.IsDemo)
		}

		all, err := f.store.Leads().ListByCampaign(ctx, c.ID, false)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("Error - duplicate username per campaign", func(t *testing.T) {
		err := f.store.Leads().Create(ctx, &models.Lead{CampaignID: c.ID, Username: "workout_daily", DisplayName: "Dup"})
		assert.True(t, domain.IsConflict(err), "got %v", err)
	})

	t.Run("Success - messages newest first and one per lead", func(t *testing.T) {
		base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		for i, l := range leads {
			m := &models.Message{
				CampaignID: c.ID,
				Lead:       models.NewRef[models.Lead](l.ID),
				Content:    "Hi " + l.DisplayName,
				Status:     models.MessageSent,
				SentAt:     base.Add(time.Duration(i) * time.Minute),
				IsDemo:     true,
			}
			require.NoError(t, f.store.Messages().Create(ctx, m))
		}

		exists, err := f.store.Messages().ExistsForLead(ctx, c.ID, leads[0].ID)
		require.NoError(t, err)
		assert.True(t, exists)

		err = f.store.Messages().Create(ctx, &models.Message{CampaignID: c.ID, Lead: models.NewRef[models.Lead](leads[0].ID), Status: models.MessageSent})
		assert.True(t, domain.IsConflict(err))

		msgs, err := f.store.Messages().ListByCampaign(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, leads[2].ID, msgs[0].Lead.ID)
		assert.Equal(t, leads[0].ID, msgs[2].Lead.ID)

		sent, err := f.store.Messages().CountByCampaigns(ctx, []string{c.ID}, models.MessageSent)
		require.NoError(t, err)
		assert.Equal(t, 3, sent)

		totalLeads, err := f.store.Leads().CountByCampaigns(ctx, []string{c.ID, "other"})
		require.NoError(t, err)
		assert.Equal(t, 4, totalLeads)
	})

	t.Run("Success - equal sentAt falls back to lead order", func(t *testing.T) {
		other := f.createCampaign(t, "Same Second", time.Now().UTC())
		var tied []*models.Lead
		for i, name := range names {
			l := &models.Lead{CampaignID: other.ID, Username: name, DisplayName: name, IsDemo: true, Position: i}
			require.NoError(t, f.store.Leads().Create(ctx, l))
			tied = append(tied, l)
		}

		sentAt := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
		for _, i := range []int{1, 2, 0} {
			require.NoError(t, f.store.Messages().Create(ctx, &models.Message{
				CampaignID: other.ID,
				Lead:       models.NewRef[models.Lead](tied[i].ID),
				Content:    "Hi",
				Status:     models.MessageSent,
				SentAt:     sentAt,
				IsDemo:     true,
			}))
		}

		msgs, err := f.store.Messages().ListByCampaign(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, tied[2].ID, msgs[0].Lead.ID)
		assert.Equal(t, tied[1].ID, msgs[1].Lead.ID)
		assert.Equal(t, tied[0].ID, msgs[2].Lead.ID)
	})
}

func TestStore_WithTx(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	c := f.createCampaign(t, "Summer Push", time.Now().UTC())

	t.Run("Rollback - cascade undone on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := f.store.WithTx(ctx, func(tx domain.Store) error {
			require.NoError(t, tx.Campaigns().Delete(ctx, c.ID, f.user.ID))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = f.store.Campaigns().GetByID(ctx, c.ID, f.user.ID)
		assert.NoError(t, err)
	})

	t.Run("Commit - nested transaction reuses the outer one", func(t *testing.T) {
		err := f.store.WithTx(ctx, func(tx domain.Store) error {
			return tx.WithTx(ctx, func(inner domain.Store) error {
				return inner.Campaigns().Delete(ctx, c.ID, f.user.ID)
			})
		})
		require.NoError(t, err)

		_, err = f.store.Campaigns().GetByID(ctx, c.ID, f.user.ID)
		assert.True(t, domain.IsNotFound(err))
	})
}
