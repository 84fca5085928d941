package middleware

import (
	"context"
	"net/http"

	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantIDKey holds the parsed company ID in the gin context
const TenantIDKey = "tenant_id"

// CompanyChecker reports whether a company may use the API
type CompanyChecker interface {
	IsActive(ctx context.Context, companyID uuid.UUID) (bool, error)
}

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// Checker is optional; without it any company in a valid token passes
	Checker CompanyChecker
	Logger  *zap.Logger
}

// Tenant resolves the company from the JWT claims. It must run after
// JWTAuth. The company always comes from the token, never from a header.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		tenantID, err := uuid.Parse(GetJWTTenantID(c))
		if err != nil || tenantID == uuid.Nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Company identification required")
			return
		}

		if cfg.Checker != nil {
			active, err := cfg.Checker.IsActive(c.Request.Context(), tenantID)
			if err != nil {
				log.Error("Company lookup failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Company lookup failed")
				return
			}
			if !active {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Company is suspended")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))
		c.Next()
	}
}

// GetTenantID returns the company resolved by Tenant, uuid.Nil when absent
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
