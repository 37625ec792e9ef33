package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/dto"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

func googleHandler(t *testing.T, users store.UserStore) *GoogleAuthHandler {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "secret", AccessTokenTTL: time.Hour},
		GoogleOAuth: config.GoogleOAuthConfig{
			ClientID:     "client",
			ClientSecret: "shh",
			RedirectURL:  "http://localhost:8080/api/auth/google/callback",
		},
	}
	return NewGoogleAuthHandler(users, cfg, zap.NewNop().Sugar())
}

func TestGoogleLoginIssuesVerifiableState(t *testing.T) {
	h := googleHandler(t, store.NewMemoryStore())
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.GoogleLoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	u, err := url.Parse(resp.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, resp.State, u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.NoError(t, h.verifyState(resp.State))
}

func TestGoogleLoginNotConfigured(t *testing.T) {
	h := NewGoogleAuthHandler(store.NewMemoryStore(), &config.Config{}, zap.NewNop().Sugar())
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGoogleCallbackRejectsBadRequests(t *testing.T) {
	h := googleHandler(t, store.NewMemoryStore())

	for _, q := range []string{"", "code=abc", "code=abc&state=forged"} {
		rec := httptest.NewRecorder()
		h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryStore()
	h := googleHandler(t, users)
	info := &dto.GoogleUserInfo{Email: "ana@example.org", Name: "Ana", Picture: "https://p/a.png"}

	first, err := h.findOrCreateUser(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, first.Provider)
	assert.Equal(t, "Ana", first.DisplayName)

	again, err := h.findOrCreateUser(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}
