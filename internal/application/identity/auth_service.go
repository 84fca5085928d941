package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid company, username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo    identity.UserRepository
	companyRepo identity.CompanyRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	companyRepo identity.CompanyRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		events:      events,
		logger:      logger,
	}
}

// Login authenticates a user of a company and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := s.logger.With(
		zap.String("company_code", input.CompanyCode),
		zap.String("username", input.Username),
	)

	company, err := s.companyRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(input.CompanyCode)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login attempt for unknown company")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !company.IsActive() {
		log.Warn("Login attempt for suspended company")
		return nil, shared.NewDomainError("COMPANY_SUSPENDED", "Company is suspended")
	}

	user, err := s.userRepo.FindByUsername(ctx, company.ID, strings.ToLower(strings.TrimSpace(input.Username)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("User not found during login")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			log.Warn("Login attempt for locked account")
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		log.Warn("Login attempt for deactivated account")
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure()
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to save user after login failure", zap.Error(err))
		}
		s.publish(ctx, user)

		if locked {
			log.Warn("Account locked after too many failed attempts", zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		log.Warn("Invalid password attempt", zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.Subject{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The tokens are valid either way
		log.Error("Failed to save user after successful login", zap.Error(err))
	}
	s.publish(ctx, user)

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		TokenResult: toTokenResult(pair),
		User:        ToUserResponse(user),
	}, nil
}

// RefreshToken exchanges a refresh token for a new pair. The old refresh
// token is revoked so each one can be used once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if revoked, err := s.isRevoked(ctx, claims); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid tenant in token")
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user in token")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(refreshToken, string(user.Role))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	result := toTokenResult(pair)
	return &result, nil
}

// Logout revokes the current access token and, when given, the refresh
// token. AllSessions revokes every token the user holds.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	log := logger.L(ctx).With(zap.String("user_id", input.UserID.String()))

	if input.TokenJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			return err
		}
	}

	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && claims.UserID == input.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}

	if input.AllSessions {
		if err := s.blacklist.InvalidateUser(ctx, input.UserID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
			return err
		}
	}

	log.Info("User logged out", zap.Bool("all_sessions", input.AllSessions))
	return nil
}

// GetCurrentUser returns the calling user
func (s *AuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the caller's password and revokes every token
// issued to them so far.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, user)

	if err := s.blacklist.InvalidateUser(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
	}

	logger.L(ctx).Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// ValidateAccessToken validates a token and checks it against the
// blacklist. Used by the JWT middleware.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.isRevoked(ctx, claims)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

func (s *AuthService) isRevoked(ctx context.Context, claims *auth.Claims) (bool, error) {
	if claims.ID != "" {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil || blacklisted {
			return blacklisted, err
		}
	}
	return s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
}

func (s *AuthService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidTokenType):
		return shared.NewDomainError("TOKEN_INVALID", "Not a refresh token")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}

func toTokenResult(p *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
