package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-credentials"
)

func testUser() *auth.User {
	now := time.Now()
	return &auth.User{
		ID:                  uuid.New(),
		Email:               "a@x.com",
		PasswordHash:        "$2a$14$not-a-real-hash",
		RefreshTokenVersion: 1,
		Metadata:            map[string]any{"name": "Ada"},
		CreatedAt:           &now,
	}
}

func TestSignAccessToken(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), nil)
	user := testUser()

	tokenString, err := service.SignAccessToken(user)

	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := parseClaims(t, tokenString, "test-signing-key")
	assert.Equal(t, auth.TokenTypeAccess, claims.Type())
	assert.Equal(t, user.ID.String(), claims.Subject())
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"test:audience"}, claims.Audience)
	assert.NotEmpty(t, claims.ID)

	safe := claims.SafeUser()
	require.NotNil(t, safe)
	assert.Equal(t, user.Email, safe.Email)
	assert.Equal(t, "Ada", safe.Metadata["name"])

	// expiry tracks the configured access lifetime, 15m by default
	remaining := time.Until(claims.Expires())
	assert.InDelta(t, (15 * time.Minute).Seconds(), remaining.Seconds(), 30)

	t.Run("Nil user", func(t *testing.T) {
		_, err := service.SignAccessToken(nil)
		assert.Error(t, err)
	})
}

func TestSignRefreshToken(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), nil)
	user := testUser()
	user.RefreshTokenVersion = 3

	tokenString, err := service.SignRefreshToken(user)

	require.NoError(t, err)

	claims := parseClaims(t, tokenString, "test-signing-key")
	assert.Equal(t, auth.TokenTypeRefresh, claims.Type())
	assert.Equal(t, user.ID.String(), claims.Subject())
	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, 3, claims.TokenVersion())
	assert.Nil(t, claims.SafeUser())

	remaining := time.Until(claims.Expires())
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), remaining.Seconds(), 30)
}

func TestTokenServiceValidate(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), nil)
	user := testUser()

	t.Run("Valid token", func(t *testing.T) {
		tokenString, err := service.SignAccessToken(user)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)

		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
		assert.Equal(t, auth.TokenTypeAccess, claims.Type())
	})

	t.Run("Expired token", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.AccessTokenExpiry = "-1m"
		expiredService := auth.NewTokenService(cfg, nil)

		tokenString, err := expiredService.SignAccessToken(user)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)

		assert.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("Wrong signing key", func(t *testing.T) {
		otherCfg := newTestConfig()
		otherCfg.SigningKey = "a-different-key"
		otherService := auth.NewTokenService(otherCfg, nil)

		tokenString, err := otherService.SignAccessToken(user)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)

		assert.Error(t, err)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		otherCfg := newTestConfig()
		otherCfg.Issuer = "someone-else"
		otherService := auth.NewTokenService(otherCfg, nil)

		tokenString, err := otherService.SignAccessToken(user)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)

		assert.Error(t, err)
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		// alg "none" tokens must never validate
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.JWTClaims{})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)

		assert.Error(t, err)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := service.Validate("garbage")

		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})
}
