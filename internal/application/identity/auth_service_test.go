package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "s3cret-pass"

type authFixture struct {
	users     *MockUserRepository
	companies *MockCompanyRepository
	blacklist *auth.InMemoryTokenBlacklist
	events    *recordingPublisher
	jwt       *auth.JWTService
	svc       *AuthService
	company   *identity.Company
	user      *identity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	company, err := identity.NewCompany("acme", "Acme Construction")
	require.NoError(t, err)
	company.ClearDomainEvents()

	user, err := identity.NewUser(company.ID, "jdoe", testPassword, identity.RoleManager)
	require.NoError(t, err)
	user.ClearDomainEvents()

	f := &authFixture{
		users:     new(MockUserRepository),
		companies: new(MockCompanyRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		events:    &recordingPublisher{},
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "derbent-test",
			MaxRefreshCount:        5,
		}),
		company: company,
		user:    user,
	}
	f.svc = NewAuthService(f.users, f.companies, f.jwt, f.blacklist, f.events, zap.NewNop())
	return f
}

func (f *authFixture) expectLookup() {
	f.companies.On("FindByCode", mock.Anything, "ACME").Return(f.company, nil)
	f.users.On("FindByUsername", mock.Anything, f.company.ID, "jdoe").Return(f.user, nil)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.expectLookup()
	f.users.On("Save", mock.Anything, f.user).Return(nil)

	result, err := f.svc.Login(context.Background(), LoginInput{
		CompanyCode: " acme ",
		Username:    "JDoe",
		Password:    testPassword,
		IP:          "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, f.user.ID, result.User.ID)
	assert.Equal(t, "manager", result.User.Role)
	assert.NotNil(t, f.user.LastLoginAt)
	assert.Equal(t, "10.0.0.1", f.user.LastLoginIP)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.company.ID.String(), claims.TenantID)
	assert.Equal(t, "manager", claims.Role)
	f.users.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	t.Run("unknown company", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "nope", Username: "jdoe", Password: testPassword})
		assert.ErrorIs(t, err, errInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.companies.On("FindByCode", mock.Anything, "ACME").Return(f.company, nil)
		f.users.On("FindByUsername", mock.Anything, f.company.ID, "ghost").Return(nil, shared.NotFound("User"))

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "ghost", Password: testPassword})
		assert.ErrorIs(t, err, errInvalidCredentials)
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.expectLookup()
		f.users.On("Save", mock.Anything, f.user).Return(nil)

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: "wrong-password"})
		assert.ErrorIs(t, err, errInvalidCredentials)
		assert.Equal(t, 1, f.user.FailedAttempts)
	})

	t.Run("repository failure is not hidden", func(t *testing.T) {
		f := newAuthFixture(t)
		dbErr := errors.New("connection refused")
		f.companies.On("FindByCode", mock.Anything, "ACME").Return(nil, dbErr)

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: testPassword})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.expectLookup()
	f.users.On("Save", mock.Anything, f.user).Return(nil)
	f.user.FailedAttempts = identity.MaxFailedAttempts - 1

	_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: "wrong-password"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, f.user.IsLocked())
	assert.Contains(t, f.events.types(), identity.EventTypeUserStatusChanged)

	// Even the right password is refused while locked
	_, err = f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: testPassword})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_Login_Refusals(t *testing.T) {
	t.Run("suspended company", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.company.Suspend())
		f.companies.On("FindByCode", mock.Anything, "ACME").Return(f.company, nil)

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: testPassword})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COMPANY_SUSPENDED", domainErr.Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.user.Deactivate())
		f.expectLookup()

		_, err := f.svc.Login(context.Background(), LoginInput{CompanyCode: "ACME", Username: "jdoe", Password: testPassword})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByIDForTenant", mock.Anything, f.company.ID, f.user.ID).Return(f.user, nil)

	pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.company.ID, UserID: f.user.ID, Username: "jdoe", Role: "member"})
	require.NoError(t, err)

	result, err := f.svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role, "role is re-read from the user")

	// The used refresh token cannot be replayed
	_, err = f.svc.RefreshToken(context.Background(), pair.RefreshToken)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
}

func TestAuthService_RefreshToken_Errors(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RefreshToken(context.Background(), "garbage")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)

	pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.company.ID, UserID: f.user.ID, Username: "jdoe"})
	require.NoError(t, err)
	_, err = f.svc.RefreshToken(context.Background(), pair.AccessToken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)

	require.NoError(t, f.user.Deactivate())
	f.users.On("FindByIDForTenant", mock.Anything, f.company.ID, f.user.ID).Return(f.user, nil)
	_, err = f.svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.company.ID, UserID: f.user.ID, Username: "jdoe"})
	require.NoError(t, err)
	access, err := f.svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	err = f.svc.Logout(ctx, LogoutInput{
		TenantID:     f.company.ID,
		UserID:       f.user.ID,
		TokenJTI:     access.ID,
		TokenTTL:     access.GetRemainingTTL(),
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)

	_, err = f.svc.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)

	refresh, err := f.jwt.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	blacklisted, err := f.blacklist.IsBlacklisted(ctx, refresh.ID)
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestAuthService_Logout_AllSessions(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.company.ID, UserID: f.user.ID, Username: "jdoe"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, LogoutInput{UserID: f.user.ID, AllSessions: true}))

	_, err = f.svc.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.users.On("FindByIDForTenant", mock.Anything, f.company.ID, f.user.ID).Return(f.user, nil)
	f.users.On("Save", mock.Anything, f.user).Return(nil)

	err := f.svc.ChangePassword(ctx, ChangePasswordInput{
		TenantID:    f.company.ID,
		UserID:      f.user.ID,
		OldPassword: "wrong-password",
		NewPassword: "another-pass1",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	err = f.svc.ChangePassword(ctx, ChangePasswordInput{
		TenantID:    f.company.ID,
		UserID:      f.user.ID,
		OldPassword: testPassword,
		NewPassword: "another-pass1",
	})
	require.NoError(t, err)
	assert.True(t, f.user.VerifyPassword("another-pass1"))
	assert.Equal(t, []string{identity.EventTypeUserPasswordChanged}, f.events.types())

	invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, f.user.ID.String(), time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("FindByIDForTenant", mock.Anything, f.company.ID, f.user.ID).Return(f.user, nil)

	got, err := f.svc.GetCurrentUser(context.Background(), f.company.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", got.Username)

	other := uuid.New()
	f.users.On("FindByIDForTenant", mock.Anything, f.company.ID, other).Return(nil, shared.NotFound("User"))
	_, err = f.svc.GetCurrentUser(context.Background(), f.company.ID, other)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
