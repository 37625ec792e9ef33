package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}
}

func protected(t *testing.T) (http.HandlerFunc, **JWTClaims) {
	t.Helper()
	var got *JWTClaims
	h := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		got = c
		w.WriteHeader(http.StatusNoContent)
	}, testJWT())
	return h, &got
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := GenerateToken("u1", "ana@example.org", "Ana", "https://p/x.png", testJWT())
	require.NoError(t, err)

	h, got := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *got)
	assert.Equal(t, "u1", (*got).UserID)
	assert.Equal(t, "ana@example.org", (*got).Email)
	assert.Equal(t, "Ana", (*got).Name)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	expired, err := GenerateToken("u1", "a@b", "", "", &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: -time.Minute})
	require.NoError(t, err)
	otherKey, err := GenerateToken("u1", "a@b", "", "", &config.JWTConfig{Secret: "other", AccessTokenTTL: time.Hour})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + otherKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, got := protected(t)
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, *got)
			assert.Contains(t, rec.Body.String(), `"error":"Unauthorized"`)
		})
	}
}
