package auth

import (
	"testing"
	"time"

	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "derbent-test",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "jdoe",
		Role:     "manager",
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.TenantID.String(), claims.TenantID)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "manager", claims.Role)
	assert.NotEmpty(t, claims.ID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token used as access token", func(t *testing.T) {
		// Same secret for both so only the type check can reject it
		shared := NewJWTService(config.JWTConfig{Secret: "same-secret-for-both-tokens-here", Issuer: "x", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour})
		p, err := shared.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)
		_, err = shared.ValidateAccessToken(p.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-32-characters", Issuer: "derbent-test"})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different issuer", func(t *testing.T) {
		other := newTestJWTService()
		other.issuer = "someone-else"
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestJWTService()
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := later.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: svc.registered(uuid.New(), time.Now(), time.Now().Add(time.Minute)),
			UserID:           uuid.NewString(),
			TokenType:        TokenTypeAccess,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.accessSecret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, "admin")
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", access.Role, "role comes from the caller, not the old token")
	assert.Equal(t, sub.Username, access.Username)

	refresh, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refresh.RefreshCount)

	second, err := svc.RefreshTokenPair(refreshed.RefreshToken, "admin")
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(second.RefreshToken, "admin")
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "member")
	assert.Error(t, err)
}

func TestClaims_Helpers(t *testing.T) {
	tenantID := uuid.New()
	claims := &Claims{TenantID: tenantID.String(), UserID: "bad"}

	got, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)

	_, err = claims.GetUserUUID()
	assert.Error(t, err)

	assert.Zero(t, claims.GetIssuedAtTime())
	assert.Zero(t, claims.GetRemainingTTL())

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, claims.GetRemainingTTL())

	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.InDelta(t, time.Hour.Seconds(), claims.GetRemainingTTL().Seconds(), 5)
}
