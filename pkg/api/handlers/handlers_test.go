package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/accounts"
	"github.com/autoigdm/api/pkg/analytics"
	"github.com/autoigdm/api/pkg/auth"
	"github.com/autoigdm/api/pkg/campaigns"
	"github.com/autoigdm/api/pkg/leads"
	"github.com/autoigdm/api/pkg/logger"
	"github.com/autoigdm/api/pkg/messaging"
	"github.com/autoigdm/api/pkg/models"
	"github.com/autoigdm/api/pkg/store/memory"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

// testServer wires every handler over an in-memory store with generation
// disabled, so drafts use the fallback text
type testServer struct {
	store     *memory.Store
	auth      *AuthHandler
	instagram *InstagramHandler
	campaigns *CampaignHandler
	analytics *AnalyticsHandler
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	log := logger.Nop()

	analyticsService := analytics.NewService(store, nil, 0, nil, log)
	generator := messaging.NewGenerator(nil, messaging.DefaultConfig(), log, nil)
	campaignService := campaigns.NewService(store, generator, leads.NewProvisioner(), analyticsService, nil, log)

	return &testServer{
		store:     store,
		auth:      NewAuthHandler(auth.NewService(store.Users(), nil, testSecret, 24, nil, log)),
		instagram: NewInstagramHandler(accounts.NewService(store, log)),
		campaigns: NewCampaignHandler(campaignService),
		analytics: NewAnalyticsHandler(analyticsService),
	}
}

// newRequest builds an echo context for the handler under test. userID is
// set as the JWT middleware would; params are name/value pairs.
func newRequest(method, target, body, userID string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (s *testServer) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test User", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u
}

func (s *testServer) createAccount(t *testing.T, userID string) *models.InstagramAccount {
	t.Helper()
	a := &models.InstagramAccount{UserID: userID, Username: "fitstudio", DisplayName: "Fit Studio", IsActive: true}
	require.NoError(t, s.store.Accounts().Create(context.Background(), a))
	return a
}
