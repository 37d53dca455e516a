package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/auth"
	"github.com/autoigdm/api/pkg/cache"
	"github.com/autoigdm/api/pkg/models"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

func protected(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"user_id": c.Get("user_id").(string),
		"token":   c.Get("token").(string),
	})
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(protected)(c))
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestJWTMiddleware(t *testing.T) {
	mw := JWTMiddleware(testSecret)
	token, err := auth.GenerateJWT("user-1", "user@example.com", testSecret, 1)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		rec := run(t, mw, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, token, body["token"])
	})

	t.Run("Missing header", func(t *testing.T) {
		rec := run(t, mw, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "missing_token", errorCode(t, rec))
	})

	t.Run("Wrong scheme", func(t *testing.T) {
		rec := run(t, mw, "Token "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_token_format", errorCode(t, rec))
	})

	t.Run("Bad signature", func(t *testing.T) {
		other, err := auth.GenerateJWT("user-1", "user@example.com", "a-different-secret-of-enough-length!!", 1)
		require.NoError(t, err)
		rec := run(t, mw, "Bearer "+other)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_token", errorCode(t, rec))
	})
}

func TestJWTMiddlewareWithBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	blacklist := auth.NewTokenBlacklist(client)
	mw := JWTMiddlewareWithBlacklist(testSecret, blacklist)

	token, err := auth.GenerateJWT("user-1", "user@example.com", testSecret, 1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, run(t, mw, "Bearer "+token).Code)

	require.NoError(t, blacklist.Add(context.Background(), token, time.Hour))

	rec := run(t, mw, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}
