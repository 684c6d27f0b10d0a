package jwt

import (
	"testing"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h")
	assert.Error(t, err)
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleHR)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims := parsed.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService(t)

	t.Run("valid refresh token", func(t *testing.T) {
		token, expiresAt, err := svc.GenerateRefreshToken("user-1")
		require.NoError(t, err)

		userID, exp, err := svc.ParseRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, expiresAt, exp)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleEmployee)
		require.NoError(t, err)

		_, _, err = svc.ParseRefreshToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestService(t)
		expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		token, _, err := expired.GenerateRefreshToken("user-1")
		require.NoError(t, err)

		_, _, err = svc.ParseRefreshToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := svc.ParseRefreshToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("tokens issued back to back differ", func(t *testing.T) {
		a, _, err := svc.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		b, _, err := svc.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newTestService(t)
	cookie := svc.RefreshTokenCookie("tok", 1700000000)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
}
