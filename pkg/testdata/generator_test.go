package testdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/accounts"
	"github.com/autoigdm/api/pkg/auth"
	"github.com/autoigdm/api/pkg/campaigns"
	"github.com/autoigdm/api/pkg/leads"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/messaging"
	"github.com/autoigdm/api/pkg/models"
	"github.com/autoigdm/api/pkg/store/memory"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	assert.Equal(t, a.RegisterRequest(), b.RegisterRequest())
	assert.Equal(t, a.AccountRequest(), b.AccountRequest())
	assert.Equal(t, a.CampaignRequest("acc"), b.CampaignRequest("acc"))
}

func TestGenerator_Requests(t *testing.T) {
	g := NewGenerator(1)

	for i := 0; i < 10; i++ {
		user := g.RegisterRequest()
		assert.Contains(t, user.Email, "@")
		assert.GreaterOrEqual(t, len(user.Password), 8)
		assert.NotEmpty(t, user.Name)

		account := g.AccountRequest()
		assert.NotEmpty(t, account.Username)
		assert.NotContains(t, account.Username, " ")
		assert.NotEmpty(t, account.DisplayName)

		campaign := g.CampaignRequest("acc-1")
		assert.Equal(t, "acc-1", campaign.InstagramAccountID)
		assert.Contains(t, Audiences, campaign.TargetAudience)
		assert.NotEmpty(t, campaign.Name)
	}
}

func TestGenerator_Seed(t *testing.T) {
	store := memory.New()
	log := logger.Nop()
	authService := auth.NewService(store.Users(), nil, "test-secret-key-minimum-32-characters-long", 1, nil, log)
	accountService := accounts.NewService(store, log)
	campaignService := campaigns.NewService(store, messaging.NewGenerator(nil, messaging.Config{}, log, nil),
		leads.NewProvisioner(), nil, nil, log)

	result, err := NewGenerator(3).Seed(context.Background(), authService, accountService, campaignService, SeedConfig{
		User:                models.RegisterRequest{Email: "demo@example.com", Password: "password123", Name: "Demo"},
		Accounts:            2,
		CampaignsPerAccount: 2,
		ActivateEveryNth:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, "demo@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.Len(t, result.Accounts, 2)
	require.Len(t, result.Campaigns, 4)

	active := 0
	for _, c := range result.Campaigns {
		if c.Status == models.CampaignActive {
			active++
		}
	}
	assert.Equal(t, 2, active)

	_, err = NewGenerator(3).Seed(context.Background(), authService, accountService, campaignService, SeedConfig{
		User: models.RegisterRequest{Email: "demo@example.com", Password: "password123", Name: "Demo"},
	})
	assert.ErrorContains(t, err, "register demo@example.com")
}
