package container

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/config"
	"github.com/autoigdm/api/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Store:              "memory",
		JWTSecret:          "test-secret-key-minimum-32-characters-long",
		JWTExpirationHours: 1,
		LogLevel:           "error",
	}
}

func TestNew_MemoryStore(t *testing.T) {
	c, err := New(context.Background(), testConfig(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Cache)
	assert.Nil(t, c.Blacklist)
	assert.NotNil(t, c.Metrics)
	assert.NoError(t, c.Ping(context.Background()))

	ctx := context.Background()
	resp, err := c.Auth.Register(ctx, models.RegisterRequest{Email: "demo@example.com", Password: "password123", Name: "Demo"})
	require.NoError(t, err)

	account, err := c.Accounts.Create(ctx, resp.User.ID, models.CreateInstagramAccountRequest{Username: "studio", DisplayName: "Studio"})
	require.NoError(t, err)

	campaign, err := c.Campaigns.Create(ctx, resp.User.ID, models.CreateCampaignRequest{
		Name: "Launch", InstagramAccountID: account.ID, TargetAudience: "yoga teachers",
	})
	require.NoError(t, err)
	assert.Contains(t, campaign.Message, "yoga teachers")
}

func TestNew_SQLiteWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Store = "sql"
	cfg.DatabaseDriver = "sqlite3"
	cfg.DatabaseURL = "file:container_test?mode=memory&cache=shared&_fk=1"
	cfg.RedisURL = "redis://" + mr.Addr()

	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.DB)
	assert.NotNil(t, c.Cache)
	assert.NotNil(t, c.Blacklist)
	assert.Nil(t, c.Metrics)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNew_UnknownStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store = "mongo"

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, `unknown store "mongo"`)
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "redis://127.0.0.1:1"

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "connect redis")
}

func TestNew_UnsupportedSecretsBackend(t *testing.T) {
	cfg := testConfig()
	cfg.SecretsBackend = "vault"

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unsupported secrets backend")
}
