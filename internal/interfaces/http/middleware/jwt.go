package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// TokenValidator validates access tokens. *auth.JWTService implements it.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	Validator TokenValidator
	// Blacklist is optional; lookups fail open when redis is unavailable
	Blacklist auth.TokenBlacklist
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth authenticates requests with a bearer access token and stores the
// claims in the gin context
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		for _, p := range cfg.SkipPaths {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}

		token, ok := strings.CutPrefix(c.GetHeader(AuthHeaderKey), BearerPrefix)
		if !ok || token == "" {
			abortAuth(c, log, auth.ErrInvalidToken, "Missing bearer token")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			abortAuth(c, log, err, "Token validation failed")
			return
		}

		if cfg.Blacklist != nil && revoked(c, log, cfg.Blacklist, claims) {
			abortAuth(c, log, auth.ErrTokenBlacklisted, "Token has been revoked")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func revoked(c *gin.Context, log *zap.Logger, blacklist auth.TokenBlacklist, claims *auth.Claims) bool {
	ctx := c.Request.Context()
	if claims.ID != "" {
		blacklisted, err := blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if blacklisted {
			return true
		}
	}
	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		log.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return invalidated
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTTenantIDKey, claims.TenantID)
	c.Set(JWTUsernameKey, claims.Username)
	c.Set(JWTRoleKey, claims.Role)

	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

func abortAuth(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidClaims):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID retrieves the company ID from JWT claims in context
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

// GetJWTRole returns the caller's role, empty when unauthenticated
func GetJWTRole(c *gin.Context) identity.Role {
	return identity.Role(c.GetString(JWTRoleKey))
}

// RequireRole lets the request through when allow accepts the caller's role
func RequireRole(allow func(identity.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(GetJWTRole(c)) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient role for this operation")
			return
		}
		c.Next()
	}
}

// RequireWrite rejects viewers on mutating requests
func RequireWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if !GetJWTRole(c).CanWrite() {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Read-only users cannot modify data")
			return
		}
		c.Next()
	}
}
